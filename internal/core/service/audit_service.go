package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/zonemark/annotation-system/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditRecorder that persists annotation
// lifecycle events to the audit trail.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditRecorder {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *auditService) Process(ctx context.Context, in ports.AuditEventInput) error {
	if err := s.repo.Insert(ctx, in); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("action", string(in.Action)).
		Str("annotation_id", in.AnnotationID).
		Str("video_id", in.VideoID).
		Msg("audit event recorded")

	return nil
}
