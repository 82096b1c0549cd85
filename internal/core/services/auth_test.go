package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/procmap-labs/procmap-core/internal/core/domain"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driven/mocks"
)

func newAuthFixture() (*mocks.MockUserStore, *mocks.MockSessionStore, *authService) {
	userStore := mocks.NewMockUserStore()
	sessionStore := mocks.NewMockSessionStore()
	svc := NewAuthService(userStore, sessionStore, mocks.NewMockAuthAdapter()).(*authService)
	return userStore, sessionStore, svc
}

func seedUser(t *testing.T, userStore *mocks.MockUserStore, active bool) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:           "user-1",
		Email:        "anna@example.com",
		PasswordHash: "hashed:segretissima",
		Name:         "Anna",
		Role:         domain.RoleMember,
		Active:       active,
	}
	if err := userStore.Save(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	return user
}

func TestAuthenticate_Success(t *testing.T) {
	userStore, sessionStore, svc := newAuthFixture()
	seedUser(t, userStore, true)
	ctx := context.Background()

	resp, err := svc.Authenticate(ctx, domain.LoginRequest{
		Email:    "anna@example.com",
		Password: "segretissima",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Email != "anna@example.com" {
		t.Errorf("unexpected user summary: %+v", resp.User)
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Error("expiry must be in the future")
	}
	if sessionStore.Count() != 1 {
		t.Errorf("expected 1 session, got %d", sessionStore.Count())
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	userStore, _, svc := newAuthFixture()
	seedUser(t, userStore, true)

	_, err := svc.Authenticate(context.Background(), domain.LoginRequest{
		Email:    "anna@example.com",
		Password: "sbagliata",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	_, _, svc := newAuthFixture()

	_, err := svc.Authenticate(context.Background(), domain.LoginRequest{
		Email:    "nessuno@example.com",
		Password: "qualcosa",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	userStore, _, svc := newAuthFixture()
	seedUser(t, userStore, false)

	_, err := svc.Authenticate(context.Background(), domain.LoginRequest{
		Email:    "anna@example.com",
		Password: "segretissima",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestValidateToken_RoundTrip(t *testing.T) {
	userStore, _, svc := newAuthFixture()
	user := seedUser(t, userStore, true)
	ctx := context.Background()

	resp, err := svc.Authenticate(ctx, domain.LoginRequest{
		Email:    "anna@example.com",
		Password: "segretissima",
	})
	if err != nil {
		t.Fatal(err)
	}

	authCtx, err := svc.ValidateToken(ctx, resp.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if authCtx.UserID != user.ID || authCtx.Role != domain.RoleMember {
		t.Errorf("unexpected auth context: %+v", authCtx)
	}
}

func TestValidateToken_AfterLogout(t *testing.T) {
	userStore, _, svc := newAuthFixture()
	seedUser(t, userStore, true)
	ctx := context.Background()

	resp, err := svc.Authenticate(ctx, domain.LoginRequest{
		Email:    "anna@example.com",
		Password: "segretissima",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx, resp.Token); err != nil {
		t.Fatal(err)
	}

	_, err = svc.ValidateToken(ctx, resp.Token)
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	_, _, svc := newAuthFixture()

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestSetup_CreatesFirstAdmin(t *testing.T) {
	userStore, _, svc := newAuthFixture()
	ctx := context.Background()

	summary, err := svc.Setup(ctx, "Admin@Example.com", "password123", "Admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Role != domain.RoleAdmin {
		t.Errorf("first user must be admin, got %s", summary.Role)
	}
	if summary.Email != "admin@example.com" {
		t.Errorf("email must be normalized, got %q", summary.Email)
	}

	if _, err := svc.Setup(ctx, "altro@example.com", "password123", "Altro"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("second setup must fail, got %v", err)
	}
	if n, _ := userStore.Count(ctx); n != 1 {
		t.Errorf("expected 1 user, got %d", n)
	}
}

func TestSetup_ShortPassword(t *testing.T) {
	_, _, svc := newAuthFixture()

	_, err := svc.Setup(context.Background(), "admin@example.com", "breve", "Admin")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
