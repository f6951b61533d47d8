package invite

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("invite not found")
	// ErrCodeTaken means another pending invite already uses the code.
	ErrCodeTaken = errors.New("invite code already in use")
)

type Store interface {
	Create(ctx context.Context, inv Invite) error
	// List returns invites of organizationID, or every invite when empty.
	List(ctx context.Context, organizationID string) ([]Invite, error)
	FindPending(ctx context.Context, code string) (Invite, error)
	// MarkUsed flips a pending invite to used; ErrNotFound if it is no
	// longer pending.
	MarkUsed(ctx context.Context, id string, at time.Time) error
	// Release returns a used invite to pending; ErrNotFound if it is not
	// used.
	Release(ctx context.Context, id string) error
}

type MemoryStore struct {
	mu      sync.RWMutex
	invites []Invite
}

func NewMemoryStore(seed ...Invite) *MemoryStore {
	return &MemoryStore{invites: append([]Invite(nil), seed...)}
}

func (m *MemoryStore) Create(_ context.Context, inv Invite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv.Status == StatusPending {
		for _, existing := range m.invites {
			if existing.Status == StatusPending && existing.Code == inv.Code {
				return ErrCodeTaken
			}
		}
	}
	m.invites = append(m.invites, inv)
	return nil
}

func (m *MemoryStore) List(_ context.Context, organizationID string) ([]Invite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Invite{}
	for _, inv := range m.invites {
		if organizationID == "" || inv.OrganizationID == organizationID {
			out = append(out, cloneInvite(inv))
		}
	}
	return out, nil
}

func (m *MemoryStore) FindPending(_ context.Context, code string) (Invite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inv := range m.invites {
		if inv.Status == StatusPending && inv.Code == code {
			return cloneInvite(inv), nil
		}
	}
	return Invite{}, ErrNotFound
}

func (m *MemoryStore) MarkUsed(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.invites {
		if m.invites[i].ID == id && m.invites[i].Status == StatusPending {
			m.invites[i].Status = StatusUsed
			m.invites[i].UsedAt = &at
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) Release(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.invites {
		if m.invites[i].ID == id && m.invites[i].Status == StatusUsed {
			m.invites[i].Status = StatusPending
			m.invites[i].UsedAt = nil
			return nil
		}
	}
	return ErrNotFound
}

func cloneInvite(inv Invite) Invite {
	if inv.UsedAt != nil {
		t := *inv.UsedAt
		inv.UsedAt = &t
	}
	return inv
}
