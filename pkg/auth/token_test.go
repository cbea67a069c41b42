package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jsa498/devflow/pkg/config"
)

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestParseAccessToken(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "test-secret", Issuer: "devflow-auth"}
	userID := uuid.New()

	token := signToken(t, cfg.JWTSecret, providerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    "devflow-auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "family@example.com",
	})

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "family@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
}

func TestParseAccessTokenRejections(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: "test-secret", Issuer: "devflow-auth"}

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "devflow-auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		if _, err := ParseAccessToken(cfg, token); err == nil {
			t.Fatalf("expected signature rejection")
		}
	})

	t.Run("expired", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "devflow-auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		})
		if _, err := ParseAccessToken(cfg, token); err == nil {
			t.Fatalf("expected expiry rejection")
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		if _, err := ParseAccessToken(cfg, token); err == nil {
			t.Fatalf("expected issuer rejection")
		}
	})

	t.Run("non-uuid subject", func(t *testing.T) {
		token := signToken(t, cfg.JWTSecret, jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			Issuer:    "devflow-auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		if _, err := ParseAccessToken(cfg, token); err == nil {
			t.Fatalf("expected subject rejection")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := ParseAccessToken(cfg, ""); err == nil {
			t.Fatalf("expected empty-token rejection")
		}
	})
}
