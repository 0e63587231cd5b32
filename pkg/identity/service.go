package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clinicdesk/platform/pkg/common/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultRole = "doctor"

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is satisfied by the gorm Repository and the MemoryRepository.
type UserStore interface {
	CreateUser(ctx context.Context, input CreateUserInput) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error)
}

type Service struct {
	repo UserStore
}

func NewService(repo UserStore) *Service {
	return &Service{repo: repo}
}

// SignUp creates a clinician account. Duplicate signups surface
// ErrEmailAlreadyExists as an inline authentication message.
func (s *Service) SignUp(ctx context.Context, req models.SignUpRequest) (models.User, error) {
	if req.Email == "" || req.Password == "" {
		return models.User{}, fmt.Errorf("email and password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = req.Email
	}

	return s.repo.CreateUser(ctx, CreateUserInput{
		Email:        req.Email,
		Name:         name,
		Role:         defaultRole,
		PasswordHash: string(hash),
	})
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	hash, err := s.repo.GetPasswordHash(ctx, user.ID)
	if err != nil {
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// EnsureSSOUser upserts the account for a federated sign-in. SSO accounts
// have no local password.
func (s *Service) EnsureSSOUser(ctx context.Context, email, name string) (models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return models.User{}, err
	}
	return s.repo.CreateUser(ctx, CreateUserInput{
		Email:    email,
		Name:     name,
		Role:     defaultRole,
		Metadata: map[string]interface{}{"sso": true},
	})
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}
