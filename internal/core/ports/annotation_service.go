package ports

import (
	"context"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

// CreateAnnotationInput carries the client-supplied fields for a new
// annotation. The owning user is always taken from the actor, never from
// the payload.
type CreateAnnotationInput struct {
	VideoID   string
	Timestamp float64
	Label     string
}

// EditAnnotationInput carries the admin-only annotation edit fields.
type EditAnnotationInput struct {
	ID        string
	Timestamp float64
	Label     string
}

// AnnotationService defines use-case operations over annotations. Every
// mutation is gated by the access policy and every read is role-scoped.
type AnnotationService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateAnnotationInput) (*domain.Annotation, error)
	ListForVideo(ctx context.Context, actor domain.Actor, videoID string) ([]domain.AnnotationWithUser, error)
	// CountsByVideo returns per-video annotation counts for the actor's
	// visible scope. Videos with zero annotations are absent from the map;
	// callers holding the full video list fill in zeroes.
	CountsByVideo(ctx context.Context, actor domain.Actor) (map[string]int64, error)
	Edit(ctx context.Context, actor domain.Actor, in EditAnnotationInput) error
	Delete(ctx context.Context, actor domain.Actor, id string) error
	// DeleteAllForVideo is the video-deletion cascade helper. It performs no
	// per-record authorization; the caller must have authorized the
	// enclosing video deletion first.
	DeleteAllForVideo(ctx context.Context, videoID string) (int64, error)
}
