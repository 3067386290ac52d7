package ports

import (
	"context"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

// VideoRepository defines persistence operations for video metadata.
type VideoRepository interface {
	Create(ctx context.Context, v *domain.Video) (*domain.Video, error)
	FindByID(ctx context.Context, id string) (*domain.Video, error)
	List(ctx context.Context) ([]*domain.Video, error)
	// Delete removes the video record; domain.ErrVideoNotFound when absent.
	Delete(ctx context.Context, id string) error
}
