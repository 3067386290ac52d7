package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/zonemark/annotation-system/internal/core/domain"
	"github.com/zonemark/annotation-system/internal/core/ports"
)

// NoteService implements per-video user notes. A note is upserted per
// (video, user) pair; admins can read and delete anyone's notes.
type NoteService struct {
	repo      ports.NoteRepository
	videoRepo ports.VideoRepository
	logger    zerolog.Logger
}

func NewNoteService(repo ports.NoteRepository, videoRepo ports.VideoRepository, logger zerolog.Logger) *NoteService {
	return &NoteService{repo: repo, videoRepo: videoRepo, logger: logger}
}

func (s *NoteService) Save(ctx context.Context, actor domain.Actor, videoID, text string) (*domain.Note, error) {
	if domain.Decide(actor, "", domain.OpSaveNote) != domain.Allow {
		return nil, denied(actor)
	}

	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	saved, err := s.repo.Upsert(ctx, &domain.Note{
		VideoID:   videoID,
		UserID:    actor.ID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("note_id", saved.ID).Str("video_id", videoID).Msg("note saved")
	return saved, nil
}

func (s *NoteService) ListForVideo(ctx context.Context, actor domain.Actor, videoID string) (*ports.NoteListResult, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	if actor.IsAdmin() {
		all, err := s.repo.ListForVideo(ctx, videoID)
		if err != nil {
			return nil, err
		}
		return &ports.NoteListResult{All: all}, nil
	}

	own, err := s.repo.FindByVideoAndUser(ctx, videoID, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return &ports.NoteListResult{}, nil
		}
		return nil, err
	}
	return &ports.NoteListResult{Own: own}, nil
}

func (s *NoteService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthenticated
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if domain.Decide(actor, existing.UserID, domain.OpDeleteNote) != domain.Allow {
		return domain.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}
