package post

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
)

var (
	ErrNotFound = errors.New("post not found")
	// ErrStatusChanged means the post left the expected status before the
	// write landed.
	ErrStatusChanged = errors.New("post status changed concurrently")
)

type Store interface {
	List(ctx context.Context, filter ListFilter) ([]Post, error)
	Get(ctx context.Context, id string) (Post, error)
	Create(ctx context.Context, p Post) error
	// Replace overwrites the post only if it is still in status expected.
	Replace(ctx context.Context, expected Status, p Post) error
}

// MemoryStore keeps posts newest-first, the way new posts are prepended to
// the public listing.
type MemoryStore struct {
	mu    sync.RWMutex
	posts []Post
}

func NewMemoryStore(seed ...Post) *MemoryStore {
	m := &MemoryStore{}
	for _, p := range seed {
		m.posts = append(m.posts, clonePost(p))
	}
	return m
}

func (m *MemoryStore) List(_ context.Context, filter ListFilter) ([]Post, error) {
	m.mu.RLock()
	out := make([]Post, 0, len(m.posts))
	for _, p := range m.posts {
		if filter.matches(p) {
			out = append(out, clonePost(p))
		}
	}
	m.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Post) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.posts {
		if p.ID == id {
			return clonePost(p), nil
		}
	}
	return Post{}, ErrNotFound
}

func (m *MemoryStore) Create(_ context.Context, p Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts = append([]Post{clonePost(p)}, m.posts...)
	return nil
}

func (m *MemoryStore) Replace(_ context.Context, expected Status, p Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.posts {
		if m.posts[i].ID != p.ID {
			continue
		}
		if m.posts[i].Status != expected {
			return ErrStatusChanged
		}
		m.posts[i] = clonePost(p)
		return nil
	}
	return ErrNotFound
}

func (f ListFilter) matches(p Post) bool {
	if f.Category != "" && string(p.Category) != f.Category {
		return false
	}
	if f.Status != "" && string(p.Status) != f.Status {
		return false
	}
	if f.Location != "" && !containsFold(p.Location, f.Location) {
		return false
	}
	if f.Query != "" && !containsFold(p.Title, f.Query) && !containsFold(p.Description, f.Query) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func clonePost(p Post) Post {
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		p.UpdatedAt = &t
	}
	if p.Proof != nil {
		proof := *p.Proof
		p.Proof = &proof
	}
	if p.Verification != nil {
		v := *p.Verification
		p.Verification = &v
	}
	return p
}
