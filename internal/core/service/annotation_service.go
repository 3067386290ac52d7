package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/zonemark/annotation-system/internal/core/domain"
	"github.com/zonemark/annotation-system/internal/core/ports"
)

// AnnotationService implements annotation use cases. Every mutation passes
// the access policy before touching storage and every read is scoped to
// the actor's role.
type AnnotationService struct {
	repo      ports.AnnotationRepository
	videoRepo ports.VideoRepository
	cache     ports.CountsCache // optional
	sink      ports.AuditSink   // optional
	logger    zerolog.Logger
}

func NewAnnotationService(
	repo ports.AnnotationRepository,
	videoRepo ports.VideoRepository,
	cache ports.CountsCache,
	sink ports.AuditSink,
	logger zerolog.Logger,
) *AnnotationService {
	return &AnnotationService{
		repo:      repo,
		videoRepo: videoRepo,
		cache:     cache,
		sink:      sink,
		logger:    logger,
	}
}

// denied maps a policy denial to the right error: missing identity is a
// 401-class failure, an insufficient role is 403.
func denied(actor domain.Actor) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return domain.ErrForbidden
}

func validTimestamp(ts float64) bool {
	return !math.IsNaN(ts) && !math.IsInf(ts, 0) && ts >= 0
}

func (s *AnnotationService) Create(ctx context.Context, actor domain.Actor, in ports.CreateAnnotationInput) (*domain.Annotation, error) {
	if domain.Decide(actor, "", domain.OpCreateAnnotation) != domain.Allow {
		return nil, denied(actor)
	}

	label, ok := domain.ParseLabel(in.Label)
	if !ok {
		return nil, domain.ErrInvalidLabel
	}
	if !validTimestamp(in.Timestamp) {
		return nil, domain.ErrInvalidTimestamp
	}

	// The store does not enforce referential integrity; check the video
	// exists here so annotations never reference a missing parent.
	if _, err := s.videoRepo.FindByID(ctx, in.VideoID); err != nil {
		return nil, err
	}

	annotation := &domain.Annotation{
		VideoID:   in.VideoID,
		UserID:    actor.ID, // never taken from the payload
		Timestamp: in.Timestamp,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, annotation)
	if err != nil {
		s.logger.Error().Err(err).Str("video_id", in.VideoID).Msg("failed to create annotation")
		return nil, err
	}

	s.invalidateCounts(ctx)
	s.audit(ports.AuditEventInput{
		Action:       ports.AuditAnnotationCreated,
		AnnotationID: created.ID,
		VideoID:      created.VideoID,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Timestamp:    created.CreatedAt,
	})

	s.logger.Info().
		Str("annotation_id", created.ID).
		Str("video_id", created.VideoID).
		Str("label", string(created.Label)).
		Msg("annotation created")

	return created, nil
}

func (s *AnnotationService) ListForVideo(ctx context.Context, actor domain.Actor, videoID string) ([]domain.AnnotationWithUser, error) {
	if domain.Decide(actor, "", domain.OpListAnnotations) != domain.Allow {
		return nil, denied(actor)
	}

	// Admins see every user's annotations; regular users only their own.
	scope := ""
	if !actor.IsAdmin() {
		scope = actor.ID
	}
	return s.repo.ListForVideo(ctx, videoID, scope)
}

func (s *AnnotationService) CountsByVideo(ctx context.Context, actor domain.Actor) (map[string]int64, error) {
	if domain.Decide(actor, "", domain.OpListAnnotations) != domain.Allow {
		return nil, denied(actor)
	}

	scope := ""
	if !actor.IsAdmin() {
		scope = actor.ID
	}

	if s.cache != nil {
		if counts, ok, err := s.cache.Get(ctx, scope); err != nil {
			s.logger.Warn().Err(err).Msg("counts cache read failed, falling back to store")
		} else if ok {
			return counts, nil
		}
	}

	counts, err := s.repo.CountsByVideo(ctx, scope)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, scope, counts); err != nil {
			s.logger.Warn().Err(err).Msg("counts cache write failed")
		}
	}
	return counts, nil
}

func (s *AnnotationService) Edit(ctx context.Context, actor domain.Actor, in ports.EditAnnotationInput) error {
	if domain.Decide(actor, "", domain.OpEditAnnotation) != domain.Allow {
		return denied(actor)
	}

	label, ok := domain.ParseLabel(in.Label)
	if !ok {
		return domain.ErrInvalidLabel
	}
	if !validTimestamp(in.Timestamp) {
		return domain.ErrInvalidTimestamp
	}

	existing, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, in.ID, in.Timestamp, label); err != nil {
		return err
	}

	s.audit(ports.AuditEventInput{
		Action:       ports.AuditAnnotationEdited,
		AnnotationID: existing.ID,
		VideoID:      existing.VideoID,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Timestamp:    time.Now().UTC(),
	})
	return nil
}

func (s *AnnotationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthenticated
	}

	// Ownership is needed for the policy check, so look up first. A missing
	// id is NotFound both the first and any later time (idempotent-safe).
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if domain.Decide(actor, existing.UserID, domain.OpDeleteAnnotation) != domain.Allow {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCounts(ctx)
	s.audit(ports.AuditEventInput{
		Action:       ports.AuditAnnotationDeleted,
		AnnotationID: existing.ID,
		VideoID:      existing.VideoID,
		ActorID:      actor.ID,
		ActorRole:    actor.Role,
		Timestamp:    time.Now().UTC(),
	})

	s.logger.Info().Str("annotation_id", id).Str("actor_id", actor.ID).Msg("annotation deleted")
	return nil
}

// DeleteAllForVideo removes every annotation for the video. It is only
// invoked by the video-deletion cascade, after DeleteVideo has already been
// authorized, so no per-record check happens here.
func (s *AnnotationService) DeleteAllForVideo(ctx context.Context, videoID string) (int64, error) {
	deleted, err := s.repo.DeleteAllForVideo(ctx, videoID)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.invalidateCounts(ctx)
	}
	return deleted, nil
}

func (s *AnnotationService) invalidateCounts(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("counts cache invalidation failed")
	}
}

func (s *AnnotationService) audit(in ports.AuditEventInput) {
	if s.sink != nil {
		s.sink.Enqueue(in)
	}
}
