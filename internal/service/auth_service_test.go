package service

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront-cms-backend/internal/models"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return NewAuthService("admin", string(hash), "test-secret", time.Minute, time.Hour)
}

func TestObtainTokenPair(t *testing.T) {
	svc := newTestAuthService(t)

	pair, err := svc.Obtain(models.TokenRequest{Username: "admin", Password: "correct horse"})
	if err != nil {
		t.Fatalf("expected token pair, got %v", err)
	}

	claims, err := svc.ValidateToken(pair.Access, TokenTypeAccess)
	if err != nil {
		t.Fatalf("expected valid access token, got %v", err)
	}
	if claims.Subject != "admin" || claims.ID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.ValidateToken(pair.Access, TokenTypeRefresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected access token to be rejected as refresh token, got %v", err)
	}
}

func TestObtainRejectsWrongCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	if _, err := svc.Obtain(models.TokenRequest{Username: "admin", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Obtain(models.TokenRequest{Username: "root", Password: "correct horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshIssuesAccessToken(t *testing.T) {
	svc := newTestAuthService(t)

	pair, err := svc.Obtain(models.TokenRequest{Username: "admin", Password: "correct horse"})
	if err != nil {
		t.Fatalf("expected token pair, got %v", err)
	}

	refreshed, err := svc.Refresh(models.RefreshRequest{Refresh: pair.Refresh})
	if err != nil {
		t.Fatalf("expected refresh to succeed, got %v", err)
	}
	if _, err := svc.ValidateToken(refreshed.Access, TokenTypeAccess); err != nil {
		t.Fatalf("expected refreshed access token to validate, got %v", err)
	}

	if _, err := svc.Refresh(models.RefreshRequest{Refresh: pair.Access}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected access token to be refused for refresh, got %v", err)
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	svc := NewAuthService("admin", string(hash), "test-secret", -time.Minute, -time.Minute)

	pair, err := svc.Obtain(models.TokenRequest{Username: "admin", Password: "pw"})
	if err != nil {
		t.Fatalf("expected token pair, got %v", err)
	}
	if _, err := svc.ValidateToken(pair.Access, TokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestUnconfiguredAuth(t *testing.T) {
	svc := NewAuthService("", "", "", time.Minute, time.Hour)

	if _, err := svc.Obtain(models.TokenRequest{Username: "admin", Password: "x"}); !errors.Is(err, ErrAuthNotConfigured) {
		t.Fatalf("expected ErrAuthNotConfigured, got %v", err)
	}
}
