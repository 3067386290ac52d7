package ports

import (
	"context"
	"io"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

// UploadVideoInput carries the multipart upload fields for a new video.
type UploadVideoInput struct {
	Title        string
	OriginalName string
	ContentType  string
	File         io.Reader
}

// DeleteVideoResult reports the outcome of a cascade delete.
type DeleteVideoResult struct {
	DeletedAnnotations int64
	DeletedNotes       int64
}

// VideoService defines use-case operations over the video catalog.
type VideoService interface {
	List(ctx context.Context, actor domain.Actor) ([]*domain.Video, error)
	Upload(ctx context.Context, actor domain.Actor, in UploadVideoInput) (*domain.Video, error)
	// Delete removes a video and cascades over its annotations and notes.
	// Annotations are deleted before the video record so no annotation is
	// left referencing a deleted video. The cascade is best-effort and not
	// transactional.
	Delete(ctx context.Context, actor domain.Actor, id string) (*DeleteVideoResult, error)
}

// BlobStore abstracts video file storage. The returned path is the public
// serving path recorded on the video document.
type BlobStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	// Remove deletes a stored blob. Missing files are not an error.
	Remove(ctx context.Context, filename string) error
}
