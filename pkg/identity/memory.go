package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/clinicdesk/platform/pkg/common/models"
	"github.com/google/uuid"
)

// MemoryRepository backs the memory store mode and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]models.User
	hashes map[uuid.UUID]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:  make(map[uuid.UUID]models.User),
		hashes: make(map[uuid.UUID]string),
	}
}

func (r *MemoryRepository) CreateUser(ctx context.Context, input CreateUserInput) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	for _, user := range r.users {
		if user.Email == email {
			return models.User{}, ErrEmailAlreadyExists
		}
	}

	user := models.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      input.Name,
		Role:      input.Role,
		AvatarURL: input.AvatarURL,
		Metadata:  input.Metadata,
		CreatedAt: time.Now().UTC(),
	}
	r.users[user.ID] = user
	r.hashes[user.ID] = input.PasswordHash
	return user, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryRepository) GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hash, ok := r.hashes[id]
	if !ok {
		return "", ErrUserNotFound
	}
	return hash, nil
}
