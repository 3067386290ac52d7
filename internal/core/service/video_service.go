package service

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zonemark/annotation-system/internal/core/domain"
	"github.com/zonemark/annotation-system/internal/core/ports"
)

// VideoService implements the video catalog use cases, including the
// cascade delete over annotations and notes.
type VideoService struct {
	repo        ports.VideoRepository
	annotations ports.AnnotationService
	notes       ports.NoteRepository
	blobs       ports.BlobStore
	logger      zerolog.Logger
}

func NewVideoService(
	repo ports.VideoRepository,
	annotations ports.AnnotationService,
	notes ports.NoteRepository,
	blobs ports.BlobStore,
	logger zerolog.Logger,
) *VideoService {
	return &VideoService{
		repo:        repo,
		annotations: annotations,
		notes:       notes,
		blobs:       blobs,
		logger:      logger,
	}
}

func (s *VideoService) List(ctx context.Context, actor domain.Actor) ([]*domain.Video, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.List(ctx)
}

func (s *VideoService) Upload(ctx context.Context, actor domain.Actor, in ports.UploadVideoInput) (*domain.Video, error) {
	if domain.Decide(actor, "", domain.OpUploadVideo) != domain.Allow {
		return nil, denied(actor)
	}
	if !strings.HasPrefix(in.ContentType, "video/") {
		return nil, domain.ErrNotVideoFile
	}

	filename := uuid.NewString() + filepath.Ext(in.OriginalName)
	path, err := s.blobs.Save(ctx, filename, in.File)
	if err != nil {
		s.logger.Error().Err(err).Str("filename", filename).Msg("failed to store video file")
		return nil, err
	}

	video := &domain.Video{
		Title:        in.Title,
		Filename:     filename,
		OriginalName: in.OriginalName,
		Path:         path,
		UploadedBy:   actor.ID,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, video)
	if err != nil {
		// Orphaned blob on metadata failure; remove best-effort.
		if rmErr := s.blobs.Remove(ctx, filename); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("filename", filename).Msg("failed to remove orphaned video file")
		}
		return nil, err
	}

	s.logger.Info().Str("video_id", created.ID).Str("title", created.Title).Msg("video uploaded")
	return created, nil
}

// Delete removes a video with its dependent records. Annotations and notes
// are deleted before the video record so nothing is left referencing a
// deleted parent. The sequence is not transactional: a failure after the
// annotation pass leaves the annotations gone and the video in place, which
// is accepted as best-effort.
func (s *VideoService) Delete(ctx context.Context, actor domain.Actor, id string) (*ports.DeleteVideoResult, error) {
	if domain.Decide(actor, "", domain.OpDeleteVideo) != domain.Allow {
		return nil, denied(actor)
	}

	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	deletedAnnotations, err := s.annotations.DeleteAllForVideo(ctx, id)
	if err != nil {
		return nil, err
	}

	deletedNotes, err := s.notes.DeleteAllForVideo(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("video_id", id).Msg("failed to delete video notes")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	if err := s.blobs.Remove(ctx, video.Filename); err != nil {
		s.logger.Warn().Err(err).Str("filename", video.Filename).Msg("failed to remove video file")
	}

	s.logger.Info().
		Str("video_id", id).
		Int64("deleted_annotations", deletedAnnotations).
		Int64("deleted_notes", deletedNotes).
		Msg("video deleted")

	return &ports.DeleteVideoResult{
		DeletedAnnotations: deletedAnnotations,
		DeletedNotes:       deletedNotes,
	}, nil
}
