package util

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "loantrack", 42, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Issuer != "loantrack" {
		t.Errorf("issuer = %q, want loantrack", claims.Issuer)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", "loantrack", 1, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ParseToken("other-secret", token); err == nil {
		t.Error("token signed with another secret should not parse")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", "loantrack", 1, time.Millisecond)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := ParseToken("secret", token); err == nil {
		t.Error("expired token should not parse")
	}
}

func TestGenerateTokenDefaultTTL(t *testing.T) {
	// non-positive TTL falls back to 24h instead of issuing a dead token
	token, err := GenerateToken("secret", "loantrack", 1, 0)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Error("token with default TTL should still be valid")
	}
}
