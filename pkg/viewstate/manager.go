package viewstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var errStateNotFound = errors.New("view state not found")

// StateStore persists serialized session state. The redis implementation is
// used in production; the memory implementation backs tests and the
// STORE_BACKEND=memory mode.
type StateStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type RedisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func (s *RedisStateStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errStateNotFound
	}
	return data, err
}

func (s *RedisStateStore) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *RedisStateStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string][]byte
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string][]byte)}
}

func (s *MemoryStateStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.states[key]
	if !ok {
		return nil, errStateNotFound
	}
	return data, nil
}

func (s *MemoryStateStore) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[key] = data
	return nil
}

func (s *MemoryStateStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return nil
}

// Manager holds one State per UI session, keyed by the session id (the jti
// of the session token).
type Manager struct {
	store StateStore
	ttl   time.Duration
}

func NewManager(store StateStore, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

func (m *Manager) Current(ctx context.Context, sessionID string) (State, error) {
	data, err := m.store.Load(ctx, stateKey(sessionID))
	if errors.Is(err, errStateNotFound) {
		return Initial(), nil
	}
	if err != nil {
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

func (m *Manager) Dispatch(ctx context.Context, sessionID string, e Event) (State, error) {
	state, err := m.Current(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	next, err := Apply(state, e)
	if err != nil {
		return state, err
	}
	data, err := json.Marshal(next)
	if err != nil {
		return State{}, err
	}
	if err := m.store.Save(ctx, stateKey(sessionID), data, m.ttl); err != nil {
		return State{}, err
	}
	return next, nil
}

func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, stateKey(sessionID))
}

func stateKey(sessionID string) string {
	return fmt.Sprintf("viewstate:%s", sessionID)
}
