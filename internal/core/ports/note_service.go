package ports

import (
	"context"

	"github.com/zonemark/annotation-system/internal/core/domain"
)

// NoteListResult is the role-dependent result of listing notes: admins get
// every note on the video, a regular user gets only their own (Own is nil
// when they have none).
type NoteListResult struct {
	All []domain.NoteWithUser
	Own *domain.Note
}

// NoteService defines use-case operations over per-video user notes.
type NoteService interface {
	Save(ctx context.Context, actor domain.Actor, videoID, text string) (*domain.Note, error)
	ListForVideo(ctx context.Context, actor domain.Actor, videoID string) (*NoteListResult, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
