package account

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrEmailTaken = errors.New("account with this email already exists")
)

type Store interface {
	// Create adds an account, storing passwordHash as its credential unless
	// it is empty.
	Create(ctx context.Context, a Account, passwordHash string) error
	Get(ctx context.Context, id string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindPendingByCode(ctx context.Context, code string) (Account, error)
	List(ctx context.Context, filter Filter) ([]Account, error)
	// Delete removes the account and its credential.
	Delete(ctx context.Context, id string) error
	// Activate turns the pending record into an active account keyed by its
	// email and sets its credential in one step.
	Activate(ctx context.Context, pendingID string, at time.Time, passwordHash string) (Account, error)
	Credential(ctx context.Context, email string) (string, error)
}

type MemoryStore struct {
	mu          sync.RWMutex
	accounts    map[string]Account
	credentials map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:    make(map[string]Account),
		credentials: make(map[string]string),
	}
}

func (m *MemoryStore) Create(_ context.Context, a Account, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[a.ID]; ok {
		return ErrEmailTaken
	}
	for _, existing := range m.accounts {
		if strings.EqualFold(existing.Email, a.Email) {
			return ErrEmailTaken
		}
	}
	m.accounts[a.ID] = cloneAccount(a)
	if passwordHash != "" {
		m.credentials[a.Email] = passwordHash
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return cloneAccount(a), nil
}

func (m *MemoryStore) FindByEmail(_ context.Context, email string) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			return cloneAccount(a), nil
		}
	}
	return Account{}, ErrNotFound
}

func (m *MemoryStore) FindPendingByCode(_ context.Context, code string) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.Status == StatusPendingActivation && a.InviteCode == code {
			return cloneAccount(a), nil
		}
	}
	return Account{}, ErrNotFound
}

func (m *MemoryStore) List(_ context.Context, filter Filter) ([]Account, error) {
	m.mu.RLock()
	out := []Account{}
	for _, a := range m.accounts {
		if filter.matches(a) {
			out = append(out, cloneAccount(a))
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Account) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.accounts, id)
	delete(m.credentials, a.Email)
	return nil
}

func (m *MemoryStore) Activate(_ context.Context, pendingID string, at time.Time, passwordHash string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[pendingID]
	if !ok || a.Status != StatusPendingActivation {
		return Account{}, ErrNotFound
	}

	delete(m.accounts, pendingID)
	a.ID = a.Email
	a.Status = StatusActive
	a.ActivatedAt = &at
	a.InviteCode = ""
	a.InviteExpiry = nil
	a.TempPasswordHash = ""
	m.accounts[a.ID] = a
	m.credentials[a.Email] = passwordHash
	return cloneAccount(a), nil
}

func (m *MemoryStore) Credential(_ context.Context, email string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hash, ok := m.credentials[email]
	if !ok {
		return "", ErrNotFound
	}
	return hash, nil
}

func cloneAccount(a Account) Account {
	if a.OrganizationID != nil {
		org := *a.OrganizationID
		a.OrganizationID = &org
	}
	if a.ActivatedAt != nil {
		t := *a.ActivatedAt
		a.ActivatedAt = &t
	}
	if a.InviteExpiry != nil {
		t := *a.InviteExpiry
		a.InviteExpiry = &t
	}
	a.Permissions = slices.Clone(a.Permissions)
	return a
}
