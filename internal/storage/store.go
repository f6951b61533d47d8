package storage

import (
	"context"
	"sync"

	"backend-lostfound/internal/db"
)

type Store interface {
	Save(ctx context.Context, obj Object) error
}

type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string]Object{}}
}

func (m *MemoryStore) Save(_ context.Context, obj Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[obj.ID] = obj
	return nil
}

func (m *MemoryStore) Get(id string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[id]
	return obj, ok
}

type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

func (p *PostgresStore) Save(ctx context.Context, obj Object) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO storage_objects (id, owner_id, url, kind, size_bytes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, obj.ID, obj.OwnerID, obj.URL, obj.Kind, obj.SizeBytes, obj.CreatedAt)
	return err
}
