package organization

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound  = errors.New("organization not found")
	ErrSlugTaken = errors.New("organization slug already exists")
)

type Store interface {
	Create(ctx context.Context, org Organization) error
	List(ctx context.Context) ([]Organization, error)
	Get(ctx context.Context, id string) (Organization, error)
}

type MemoryStore struct {
	mu   sync.RWMutex
	orgs []Organization
}

func NewMemoryStore(seed ...Organization) *MemoryStore {
	return &MemoryStore{orgs: append([]Organization(nil), seed...)}
}

func (m *MemoryStore) Create(_ context.Context, org Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.orgs {
		if existing.Slug == org.Slug {
			return ErrSlugTaken
		}
	}
	m.orgs = append(m.orgs, org)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Organization{}, m.orgs...), nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, org := range m.orgs {
		if org.ID == id {
			return org, nil
		}
	}
	return Organization{}, ErrNotFound
}
