package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/empcore/employee-management/internal/core/domain"
)

func newTestTokenService(ttl time.Duration) *TokenService {
	return NewTokenService("test-secret", "employee-mgmt", "employee-mgmt-clients", ttl, zerolog.Nop())
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := newTestTokenService(time.Hour)

	token, expiresAt, err := svc.Issue("alice", []string{"Admin", "ReadOnly"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if want := time.Now().Add(time.Hour); expiresAt.Sub(want) > time.Minute || want.Sub(expiresAt) > time.Minute {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}

	username, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if username != "alice" {
		t.Fatalf("expected alice, got %q", username)
	}
}

func TestTokenService_Claims(t *testing.T) {
	svc := newTestTokenService(time.Hour)

	token, _, err := svc.Issue("bob", []string{"Admin, Moderator", "ReadOnly"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}

	roles, ok := claims["roles"].([]any)
	if !ok {
		t.Fatalf("expected roles claim, got %v", claims["roles"])
	}
	want := []string{"Admin", "Moderator", "ReadOnly"}
	if len(roles) != len(want) {
		t.Fatalf("expected %d role claims, got %d", len(want), len(roles))
	}
	for i, r := range want {
		if roles[i] != r {
			t.Fatalf("role %d: expected %q, got %v", i, r, roles[i])
		}
	}

	if claims["iss"] != "employee-mgmt" {
		t.Fatalf("unexpected issuer: %v", claims["iss"])
	}
	if claims["aud"] != "employee-mgmt-clients" {
		t.Fatalf("unexpected audience: %v", claims["aud"])
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Fatalf("expected jti claim")
	}
	if _, ok := claims["iat"].(float64); !ok {
		t.Fatalf("expected iat claim, got %v", claims["iat"])
	}
}

func TestTokenService_UniqueTokenIDs(t *testing.T) {
	svc := newTestTokenService(time.Hour)

	jtis := map[string]bool{}
	for i := 0; i < 3; i++ {
		token, _, err := svc.Issue("alice", nil)
		if err != nil {
			t.Fatalf("Issue returned error: %v", err)
		}
		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("test-secret"), nil
		}); err != nil {
			t.Fatalf("parse token: %v", err)
		}
		jti, _ := claims["jti"].(string)
		if jtis[jti] {
			t.Fatalf("duplicate jti %q", jti)
		}
		jtis[jti] = true
	}
}

func TestTokenService_EmptyToken(t *testing.T) {
	svc := newTestTokenService(time.Hour)

	if _, err := svc.Validate(""); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_Garbage(t *testing.T) {
	svc := newTestTokenService(time.Hour)

	if _, err := svc.Validate("not-a-token"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_Expiry(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	svc := newTestTokenService(time.Hour).WithClock(func() time.Time { return clock })

	token, _, err := svc.Issue("alice", []string{"ReadOnly"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Immediately after issuance the token validates.
	if _, err := svc.Validate(token); err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}

	// Exactly at the expiry instant the token is already expired: no grace window.
	clock = base.Add(time.Hour)
	if _, err := svc.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken at expiry instant, got %v", err)
	}

	clock = base.Add(2 * time.Hour)
	if _, err := svc.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, _, err := newTestTokenService(time.Hour).Issue("alice", nil)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	other := NewTokenService("other-secret", "employee-mgmt", "employee-mgmt-clients", time.Hour, zerolog.Nop())
	if _, err := other.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_IssuerAudienceMismatch(t *testing.T) {
	token, _, err := newTestTokenService(time.Hour).Issue("alice", nil)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	wrongIssuer := NewTokenService("test-secret", "someone-else", "employee-mgmt-clients", time.Hour, zerolog.Nop())
	if _, err := wrongIssuer.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for issuer mismatch, got %v", err)
	}

	wrongAudience := NewTokenService("test-secret", "employee-mgmt", "other-audience", time.Hour, zerolog.Nop())
	if _, err := wrongAudience.Validate(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for audience mismatch, got %v", err)
	}
}
