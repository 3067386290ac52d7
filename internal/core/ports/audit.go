package ports

import (
	"context"
	"time"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

// AuditAction enumerates the annotation lifecycle events recorded in the
// audit trail.
type AuditAction string

const (
	AuditAnnotationCreated AuditAction = "annotation_created"
	AuditAnnotationEdited  AuditAction = "annotation_edited"
	AuditAnnotationDeleted AuditAction = "annotation_deleted"
)

// AuditEventInput is the DTO handed from the service layer to the audit
// pipeline.
type AuditEventInput struct {
	Action       AuditAction
	AnnotationID string
	VideoID      string
	ActorID      string
	ActorRole    domain.Role
	Timestamp    time.Time
}

// AuditRecorder processes a single audit event (persists it).
type AuditRecorder interface {
	Process(ctx context.Context, in AuditEventInput) error
}

// AuditRepository persists audit events to the annotation_events
// collection.
type AuditRepository interface {
	Insert(ctx context.Context, in AuditEventInput) error
}

// AuditSink is the non-blocking enqueue side of the audit pipeline.
// Services hold a sink and never wait on audit persistence.
type AuditSink interface {
	Enqueue(in AuditEventInput)
}
