package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/zonemark/annotation-system/internal/core/domain"
	"github.com/zonemark/annotation-system/internal/core/ports"
)

type stubAnnotationService struct {
	createFn func(ctx context.Context, actor domain.Actor, in ports.CreateAnnotationInput) (*domain.Annotation, error)
	listFn   func(ctx context.Context, actor domain.Actor, videoID string) ([]domain.AnnotationWithUser, error)
	countsFn func(ctx context.Context, actor domain.Actor) (map[string]int64, error)
	editFn   func(ctx context.Context, actor domain.Actor, in ports.EditAnnotationInput) error
	deleteFn func(ctx context.Context, actor domain.Actor, id string) error
}

func (s *stubAnnotationService) Create(ctx context.Context, actor domain.Actor, in ports.CreateAnnotationInput) (*domain.Annotation, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubAnnotationService) ListForVideo(ctx context.Context, actor domain.Actor, videoID string) ([]domain.AnnotationWithUser, error) {
	return s.listFn(ctx, actor, videoID)
}

func (s *stubAnnotationService) CountsByVideo(ctx context.Context, actor domain.Actor) (map[string]int64, error) {
	return s.countsFn(ctx, actor)
}

func (s *stubAnnotationService) Edit(ctx context.Context, actor domain.Actor, in ports.EditAnnotationInput) error {
	return s.editFn(ctx, actor, in)
}

func (s *stubAnnotationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubAnnotationService) DeleteAllForVideo(ctx context.Context, videoID string) (int64, error) {
	return 0, errors.New("not used")
}

type stubVideoService struct {
	listFn func(ctx context.Context, actor domain.Actor) ([]*domain.Video, error)
}

func (s *stubVideoService) List(ctx context.Context, actor domain.Actor) ([]*domain.Video, error) {
	return s.listFn(ctx, actor)
}

func (s *stubVideoService) Upload(ctx context.Context, actor domain.Actor, in ports.UploadVideoInput) (*domain.Video, error) {
	return nil, errors.New("not used")
}

func (s *stubVideoService) Delete(ctx context.Context, actor domain.Actor, id string) (*ports.DeleteVideoResult, error) {
	return nil, errors.New("not used")
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, role string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")
	c.Set("email", "alice@example.com")
	c.Set("username", "alice")
	c.Set("role", role)
	return c
}

func TestAnnotationHandler_Create(t *testing.T) {
	e := newTestEcho()
	stub := &stubAnnotationService{
		createFn: func(ctx context.Context, actor domain.Actor, in ports.CreateAnnotationInput) (*domain.Annotation, error) {
			if actor.ID != "user-1" {
				t.Fatalf("actor %q", actor.ID)
			}
			if in.VideoID != "video-1" || in.Label != "in_zone" || in.Timestamp != 12.5 {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.Annotation{
				ID: "annotation-1", VideoID: in.VideoID, UserID: actor.ID,
				Timestamp: in.Timestamp, Label: domain.LabelInZone,
			}, nil
		},
	}
	handler := NewAnnotationHandler(stub, &stubVideoService{})

	body := strings.NewReader(`{"video_id":"video-1","timestamp":12.5,"label":"in_zone"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/annotations", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "annotation-1" || resp["label"] != "in_zone" {
		t.Fatalf("unexpected payload %+v", resp)
	}
}

func TestAnnotationHandler_Create_RejectsBadPayloads(t *testing.T) {
	e := newTestEcho()
	stub := &stubAnnotationService{
		createFn: func(ctx context.Context, actor domain.Actor, in ports.CreateAnnotationInput) (*domain.Annotation, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAnnotationHandler(stub, &stubVideoService{})

	payloads := []string{
		`{"video_id":"video-1","timestamp":1,"label":"up"}`,
		`{"video_id":"video-1","timestamp":-2,"label":"in_zone"}`,
		`{"timestamp":1,"label":"in_zone"}`,
		"not-json",
	}
	for _, p := range payloads {
		req := httptest.NewRequest(http.MethodPost, "/v1/annotations", strings.NewReader(p))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := authedContext(e, req, rec, "user")

		err := handler.Create(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("payload %q: got %v, want 400", p, err)
		}
	}
}

func TestAnnotationHandler_Create_MissingIdentity(t *testing.T) {
	e := newTestEcho()
	handler := NewAnnotationHandler(&stubAnnotationService{}, &stubVideoService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/annotations", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec) // no claims injected

	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("got %v, want 401", err)
	}
}

func TestAnnotationHandler_List_RequiresVideoID(t *testing.T) {
	e := newTestEcho()
	handler := NewAnnotationHandler(&stubAnnotationService{}, &stubVideoService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/annotations", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user")

	err := handler.List(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("got %v, want 400", err)
	}
}

func TestAnnotationHandler_Counts_ZeroFillsVideos(t *testing.T) {
	e := newTestEcho()
	stub := &stubAnnotationService{
		countsFn: func(ctx context.Context, actor domain.Actor) (map[string]int64, error) {
			return map[string]int64{"video-1": 4}, nil
		},
	}
	videos := &stubVideoService{
		listFn: func(ctx context.Context, actor domain.Actor) ([]*domain.Video, error) {
			return []*domain.Video{{ID: "video-1"}, {ID: "video-2"}}, nil
		},
	}
	handler := NewAnnotationHandler(stub, videos)

	req := httptest.NewRequest(http.MethodGet, "/v1/annotations/counts", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "user")

	if err := handler.Counts(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var counts map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &counts); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if counts["video-1"] != 4 {
		t.Fatalf("video-1 count %d", counts["video-1"])
	}
	if got, ok := counts["video-2"]; !ok || got != 0 {
		t.Fatalf("video-2 should report an explicit zero, got %v (present=%v)", got, ok)
	}
}

func TestAnnotationHandler_Delete_PropagatesNotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubAnnotationService{
		deleteFn: func(ctx context.Context, actor domain.Actor, id string) error {
			return domain.ErrAnnotationNotFound
		},
	}
	handler := NewAnnotationHandler(stub, &stubVideoService{})

	req := httptest.NewRequest(http.MethodDelete, "/v1/annotations/missing", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "admin")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := handler.Delete(c); !errors.Is(err, domain.ErrAnnotationNotFound) {
		t.Fatalf("got %v, want ErrAnnotationNotFound", err)
	}
}
