package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenClaims(t *testing.T) {
	at, err := NewAccessToken("test-secret", 42, "supervisor", "Site Lead", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method %v", tok.Method)
		}
		return []byte("test-secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse signed token: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["sub"].(float64) != 42 {
		t.Fatalf("sub = %v", claims["sub"])
	}
	if claims["role"] != "supervisor" || claims["name"] != "Site Lead" {
		t.Fatalf("claims = %v", claims)
	}
	if time.Until(at.Exp) > 15*time.Minute || time.Until(at.Exp) < 14*time.Minute {
		t.Fatalf("exp %v not ~15m out", at.Exp)
	}
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	at, err := NewAccessToken("secret-a", 1, "client", "c", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	if err == nil && tok.Valid {
		t.Fatalf("token verified with the wrong secret")
	}
}

func TestNewRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(a.Raw) != 96 {
		t.Fatalf("raw length = %d, want 96", len(a.Raw))
	}
	if a.Raw == b.Raw {
		t.Fatalf("two refresh tokens are identical")
	}
	if HashRefreshRaw(a.Raw) == HashRefreshRaw(b.Raw) {
		t.Fatalf("hash collision on distinct tokens")
	}
	if HashRefreshRaw(a.Raw) != HashRefreshRaw(a.Raw) {
		t.Fatalf("hash is not deterministic")
	}
}
