package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/zonemark/annotation-system/internal/core/domain"
	"github.com/zonemark/annotation-system/internal/core/ports"
)

// In-memory fakes shared by the service tests. They mirror the store
// semantics the Mongo repositories provide: generated ids, not-found
// sentinels, user-identity joins with the Unknown User fallback.

type stubUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User // keyed by id
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmailOrUsername(_ context.Context, email, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c := *user
	c.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[c.ID] = &c
	return cloneUser(&c), nil
}

type stubVideoRepo struct {
	mu     sync.Mutex
	seq    int
	videos map[string]*domain.Video
}

func newStubVideoRepo() *stubVideoRepo {
	return &stubVideoRepo{videos: make(map[string]*domain.Video)}
}

func (r *stubVideoRepo) Create(_ context.Context, v *domain.Video) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c := *v
	c.ID = fmt.Sprintf("video-%d", r.seq)
	r.videos[c.ID] = &c
	clone := c
	return &clone, nil
}

func (r *stubVideoRepo) FindByID(_ context.Context, id string) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, domain.ErrVideoNotFound
	}
	c := *v
	return &c, nil
}

func (r *stubVideoRepo) List(_ context.Context) ([]*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Video, 0, len(r.videos))
	for _, v := range r.videos {
		c := *v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubVideoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return domain.ErrVideoNotFound
	}
	delete(r.videos, id)
	return nil
}

type stubAnnotationRepo struct {
	mu          sync.Mutex
	seq         int
	annotations []domain.Annotation
	users       *stubUserRepo // identity join source, may be nil
}

func newStubAnnotationRepo(users *stubUserRepo) *stubAnnotationRepo {
	return &stubAnnotationRepo{users: users}
}

func (r *stubAnnotationRepo) Create(_ context.Context, a *domain.Annotation) (*domain.Annotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c := *a
	c.ID = fmt.Sprintf("annotation-%d", r.seq)
	r.annotations = append(r.annotations, c)
	clone := c
	return &clone, nil
}

func (r *stubAnnotationRepo) FindByID(_ context.Context, id string) (*domain.Annotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.annotations {
		if a.ID == id {
			c := a
			return &c, nil
		}
	}
	return nil, domain.ErrAnnotationNotFound
}

func (r *stubAnnotationRepo) ListForVideo(_ context.Context, videoID, userID string) ([]domain.AnnotationWithUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AnnotationWithUser
	for _, a := range r.annotations {
		if a.VideoID != videoID {
			continue
		}
		if userID != "" && a.UserID != userID {
			continue
		}
		row := domain.AnnotationWithUser{Annotation: a, Username: domain.UnknownUsername}
		if r.users != nil {
			r.users.mu.Lock()
			if u, ok := r.users.users[a.UserID]; ok {
				row.Username = u.Username
				row.Email = u.Email
			}
			r.users.mu.Unlock()
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

func (r *stubAnnotationRepo) CountsByVideo(_ context.Context, userID string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, a := range r.annotations {
		if userID != "" && a.UserID != userID {
			continue
		}
		counts[a.VideoID]++
	}
	return counts, nil
}

func (r *stubAnnotationRepo) Update(_ context.Context, id string, timestamp float64, label domain.Label) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.annotations {
		if r.annotations[i].ID == id {
			r.annotations[i].Timestamp = timestamp
			r.annotations[i].Label = label
			return nil
		}
	}
	return domain.ErrAnnotationNotFound
}

func (r *stubAnnotationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.annotations {
		if r.annotations[i].ID == id {
			r.annotations = append(r.annotations[:i], r.annotations[i+1:]...)
			return nil
		}
	}
	return domain.ErrAnnotationNotFound
}

func (r *stubAnnotationRepo) DeleteAllForVideo(_ context.Context, videoID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []domain.Annotation
	var deleted int64
	for _, a := range r.annotations {
		if a.VideoID == videoID {
			deleted++
			continue
		}
		kept = append(kept, a)
	}
	r.annotations = kept
	return deleted, nil
}

type stubNoteRepo struct {
	mu    sync.Mutex
	seq   int
	notes []domain.Note
}

func (r *stubNoteRepo) Upsert(_ context.Context, n *domain.Note) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notes {
		if r.notes[i].VideoID == n.VideoID && r.notes[i].UserID == n.UserID {
			r.notes[i].Text = n.Text
			r.notes[i].UpdatedAt = n.UpdatedAt
			c := r.notes[i]
			return &c, nil
		}
	}
	r.seq++
	c := *n
	c.ID = fmt.Sprintf("note-%d", r.seq)
	r.notes = append(r.notes, c)
	clone := c
	return &clone, nil
}

func (r *stubNoteRepo) FindByID(_ context.Context, id string) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if n.ID == id {
			c := n
			return &c, nil
		}
	}
	return nil, domain.ErrNoteNotFound
}

func (r *stubNoteRepo) FindByVideoAndUser(_ context.Context, videoID, userID string) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if n.VideoID == videoID && n.UserID == userID {
			c := n
			return &c, nil
		}
	}
	return nil, domain.ErrNoteNotFound
}

func (r *stubNoteRepo) ListForVideo(_ context.Context, videoID string) ([]domain.NoteWithUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.NoteWithUser
	for _, n := range r.notes {
		if n.VideoID == videoID {
			out = append(out, domain.NoteWithUser{Note: n})
		}
	}
	return out, nil
}

func (r *stubNoteRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notes {
		if r.notes[i].ID == id {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNoteNotFound
}

func (r *stubNoteRepo) DeleteAllForVideo(_ context.Context, videoID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []domain.Note
	var deleted int64
	for _, n := range r.notes {
		if n.VideoID == videoID {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.notes = kept
	return deleted, nil
}

type stubBlobStore struct {
	mu      sync.Mutex
	saved   map[string][]byte
	removed []string
	saveErr error
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{saved: make(map[string][]byte)}
}

func (s *stubBlobStore) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[filename] = buf.Bytes()
	return "/uploads/" + filename, nil
}

func (s *stubBlobStore) Remove(_ context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved, filename)
	s.removed = append(s.removed, filename)
	return nil
}

type stubCountsCache struct {
	mu          sync.Mutex
	entries     map[string]map[string]int64
	invalidated int
}

func newStubCountsCache() *stubCountsCache {
	return &stubCountsCache{entries: make(map[string]map[string]int64)}
}

func (c *stubCountsCache) Get(_ context.Context, userID string) (map[string]int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts, ok := c.entries[userID]
	return counts, ok, nil
}

func (c *stubCountsCache) Set(_ context.Context, userID string, counts map[string]int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = counts
	return nil
}

func (c *stubCountsCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[string]int64)
	c.invalidated++
	return nil
}

type stubAuditSink struct {
	mu     sync.Mutex
	events []ports.AuditEventInput
}

func (s *stubAuditSink) Enqueue(in ports.AuditEventInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, in)
}

func (s *stubAuditSink) recorded() []ports.AuditEventInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.AuditEventInput, len(s.events))
	copy(out, s.events)
	return out
}
