package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/clinicdesk/platform/pkg/common/models"
)

func TestSignUpAndAuthenticate(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := service.SignUp(ctx, models.SignUpRequest{Email: "Doc@Clinic.Test", Password: "hunter22", Name: "Dr. Doe"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if user.Email != "doc@clinic.test" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != "doctor" {
		t.Fatalf("expected default doctor role, got %q", user.Role)
	}

	authed, err := service.Authenticate(ctx, "doc@clinic.test", "hunter22")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected the signed-up user, got %+v", authed)
	}

	if _, err := service.Authenticate(ctx, "doc@clinic.test", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Authenticate(ctx, "nobody@clinic.test", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := service.SignUp(ctx, models.SignUpRequest{Email: "doc@clinic.test", Password: "hunter22"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	_, err := service.SignUp(ctx, models.SignUpRequest{Email: "doc@clinic.test", Password: "other"})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestEnsureSSOUserUpserts(t *testing.T) {
	service := NewService(NewMemoryRepository())
	ctx := context.Background()

	first, err := service.EnsureSSOUser(ctx, "sso@hospital.test", "Dr. Sso")
	if err != nil {
		t.Fatalf("ensure sso user failed: %v", err)
	}
	if first.Metadata["sso"] != true {
		t.Fatalf("expected sso metadata, got %v", first.Metadata)
	}

	second, err := service.EnsureSSOUser(ctx, "sso@hospital.test", "Dr. Sso")
	if err != nil {
		t.Fatalf("ensure sso user failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("repeat sso sign-in must reuse the existing account")
	}

	// SSO accounts have no usable local password.
	if _, err := service.Authenticate(ctx, "sso@hospital.test", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
