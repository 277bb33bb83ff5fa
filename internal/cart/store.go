package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrCartNotFound = errors.New("cart not found")

// Session is a cart bound to the menu it was opened on
type Session struct {
	ID     string
	MenuID string
	Cart   *Cart
}

// NewSession opens an empty cart for a menu
func NewSession(menuID string) *Session {
	return &Session{
		ID:     uuid.New().String(),
		MenuID: menuID,
		Cart:   New(),
	}
}

// Store persists cart sessions between requests
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// sessionRecord is the serialized form of a Session
type sessionRecord struct {
	MenuID  string  `json:"menuId"`
	Entries []Entry `json:"entries"`
}

func encodeSession(s *Session) ([]byte, error) {
	return json.Marshal(sessionRecord{MenuID: s.MenuID, Entries: s.Cart.Entries()})
}

func decodeSession(id string, data []byte) (*Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	c, err := FromEntries(rec.Entries)
	if err != nil {
		return nil, fmt.Errorf("stored cart %s is invalid: %w", id, err)
	}
	return &Session{ID: id, MenuID: rec.MenuID, Cart: c}, nil
}

// RedisStore keeps carts as JSON strings with a sliding TTL
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed cart store
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "menuwal"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:cart:%s", s.prefix, id)
}

// Get loads a cart session. Returns ErrCartNotFound if it expired or never existed.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart from Redis: %w", err)
	}
	return decodeSession(id, data)
}

// Save writes the session and refreshes its TTL
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	data, err := encodeSession(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart to Redis: %w", err)
	}
	return nil
}

// Delete removes a session; deleting a missing session is not an error
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart from Redis: %w", err)
	}
	return nil
}

// MemoryStore is a process-local Store for development and tests
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemoryStore creates an empty in-memory cart store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

// Get loads a cart session or returns ErrCartNotFound
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrCartNotFound
	}
	return decodeSession(id, data)
}

// Save stores a snapshot of the session
func (s *MemoryStore) Save(ctx context.Context, sess *Session) error {
	data, err := encodeSession(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	s.mu.Lock()
	s.sessions[sess.ID] = data
	s.mu.Unlock()
	return nil
}

// Delete removes a session if present
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
