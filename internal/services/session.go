package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
)

// sessionKeyPrefix namespaces the session blobs. The key name carries the
// portal's historic session label.
const sessionKeyPrefix = "svbh_session:"

// ErrNoSession is returned when a session id does not resolve to a stored
// profile (expired, logged out, or never existed).
var ErrNoSession = errors.New("no active session")

// SessionStore persists the current-session profile blobs. Presence of a
// blob means an active session; deleting it is the sign-out operation.
type SessionStore interface {
	Save(ctx context.Context, id string, profile *models.UserProfile) error
	Load(ctx context.Context, id string) (*models.UserProfile, error)
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps session blobs in Redis with a TTL.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (s *RedisSessionStore) Save(ctx context.Context, id string, profile *models.UserProfile) error {
	blob, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+id, blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) (*models.UserProfile, error) {
	blob, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var profile models.UserProfile
	if err := json.Unmarshal(blob, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &profile, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

// MemorySessionStore is an in-process SessionStore for tests.
type MemorySessionStore struct {
	sessions map[string]models.UserProfile
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]models.UserProfile)}
}

func (s *MemorySessionStore) Save(_ context.Context, id string, profile *models.UserProfile) error {
	s.sessions[id] = *profile
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context, id string) (*models.UserProfile, error) {
	p, ok := s.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return &p, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}
