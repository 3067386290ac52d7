package ports

import (
	"context"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

// NoteRepository defines persistence operations for per-video user notes.
type NoteRepository interface {
	// Upsert inserts the note or, when one already exists for the same
	// (video, user) pair, replaces its text and bumps updated_at. The stored
	// record is returned either way.
	Upsert(ctx context.Context, n *domain.Note) (*domain.Note, error)
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	// FindByVideoAndUser returns the single note a user keeps on a video,
	// or domain.ErrNoteNotFound.
	FindByVideoAndUser(ctx context.Context, videoID, userID string) (*domain.Note, error)
	// ListForVideo returns all notes on the video joined with author
	// identity, sorted by updated_at descending.
	ListForVideo(ctx context.Context, videoID string) ([]domain.NoteWithUser, error)
	Delete(ctx context.Context, id string) error
	// DeleteAllForVideo removes every note on the video (cascade helper).
	DeleteAllForVideo(ctx context.Context, videoID string) (int64, error)
}
