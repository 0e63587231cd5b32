package identity

import (
	"context"
	"testing"
	"time"

	"github.com/clinicdesk/platform/pkg/common/models"
	"github.com/google/uuid"
)

func testUser() models.User {
	return models.User{
		ID:    uuid.New(),
		Email: "doc@clinic.test",
		Role:  "doctor",
	}
}

func TestIssueAndValidateToken(t *testing.T) {
	manager, err := NewJWTManager("test-secret-key-123456", "clinicdesk", "clinicdesk-api", time.Hour)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	user := testUser()
	token, err := manager.IssueToken(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	claims, err := manager.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if claims.Email != user.Email || claims.Role != user.Role {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected a session jti")
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	manager, _ := NewJWTManager("test-secret-key-123456", "clinicdesk", "clinicdesk-api", time.Hour)
	other, _ := NewJWTManager("another-secret-key-9876", "clinicdesk", "clinicdesk-api", time.Hour)

	token, err := other.IssueToken(testUser())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if _, err := manager.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected signature rejection")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager, _ := NewJWTManager("test-secret-key-123456", "clinicdesk", "clinicdesk-api", time.Minute)

	issuedAt := time.Now().Add(-2 * time.Hour)
	manager.nowFunc = func() time.Time { return issuedAt }
	token, err := manager.IssueToken(testUser())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	manager.nowFunc = time.Now
	if _, err := manager.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected expiry rejection")
	}
}

func TestValidateRejectsWrongAudience(t *testing.T) {
	issuer, _ := NewJWTManager("test-secret-key-123456", "clinicdesk", "some-other-api", time.Hour)
	validator, _ := NewJWTManager("test-secret-key-123456", "clinicdesk", "clinicdesk-api", time.Hour)

	token, err := issuer.IssueToken(testUser())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if _, err := validator.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected audience rejection")
	}
}

func TestNewJWTManagerRejectsShortSecret(t *testing.T) {
	if _, err := NewJWTManager("short", "clinicdesk", "clinicdesk-api", time.Hour); err == nil {
		t.Fatal("expected short secret rejection")
	}
}
