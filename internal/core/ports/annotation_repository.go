package ports

import (
	"context"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

// AnnotationRepository defines persistence operations for annotations.
type AnnotationRepository interface {
	// Create inserts the annotation and returns the stored record with its
	// generated id.
	Create(ctx context.Context, a *domain.Annotation) (*domain.Annotation, error)
	FindByID(ctx context.Context, id string) (*domain.Annotation, error)
	// ListForVideo returns annotations for the video joined with user
	// identity, sorted by timestamp ascending. When userID is non-empty the
	// result is additionally filtered to that user's annotations (RBAC
	// scoping for non-admin actors).
	ListForVideo(ctx context.Context, videoID, userID string) ([]domain.AnnotationWithUser, error)
	// CountsByVideo returns annotation counts grouped by video id. When
	// userID is non-empty only that user's annotations are counted.
	CountsByVideo(ctx context.Context, userID string) (map[string]int64, error)
	// Update sets a new timestamp and label on an existing annotation.
	Update(ctx context.Context, id string, timestamp float64, label domain.Label) error
	// Delete removes the annotation; domain.ErrAnnotationNotFound when absent.
	Delete(ctx context.Context, id string) error
	// DeleteAllForVideo removes every annotation referencing the video and
	// returns the number deleted.
	DeleteAllForVideo(ctx context.Context, videoID string) (int64, error)
}
