package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("refresh token not found")

// TokenStore remembers issued refresh tokens until they expire or are revoked.
type TokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	RevokeUser(ctx context.Context, userID string) error
}

func newTokenID() string {
	return uuid.NewString()
}

type memoryEntry struct {
	userID    string
	expiresAt time.Time
}

type MemoryTokenStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (m *MemoryTokenStore) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[token] = memoryEntry{userID: userID, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryTokenStore) Lookup(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[token]
	if !ok {
		return "", ErrTokenNotFound
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, token)
		return "", ErrTokenNotFound
	}
	return entry.userID, nil
}

func (m *MemoryTokenStore) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, token)
	return nil
}

func (m *MemoryTokenStore) RevokeUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, entry := range m.entries {
		if entry.userID == userID {
			delete(m.entries, token)
		}
	}
	return nil
}

type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func refreshKey(token string) string {
	return "lostfound:refresh:" + token
}

// userTokensKey holds the set of refresh tokens issued to one user.
func userTokensKey(userID string) string {
	return "lostfound:user_refresh:" + userID
}

func (r *RedisTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, refreshKey(token), userID, ttl)
		pipe.SAdd(ctx, userTokensKey(userID), token)
		pipe.Expire(ctx, userTokensKey(userID), ttl)
		return nil
	})
	return err
}

func (r *RedisTokenStore) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, refreshKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	return userID, err
}

func (r *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	return r.client.Del(ctx, refreshKey(token)).Err()
}

func (r *RedisTokenStore) RevokeUser(ctx context.Context, userID string) error {
	tokens, err := r.client.SMembers(ctx, userTokensKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, refreshKey(token))
	}
	keys = append(keys, userTokensKey(userID))
	return r.client.Del(ctx, keys...).Err()
}
