package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := TokenManager{Secret: []byte("test-secret"), TokenTTL: time.Hour}

	token, expiresAt, err := m.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiry must be in the future, got %s", expiresAt)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	userID, err := claims.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := TokenManager{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	token, _, err := m.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := TokenManager{Secret: []byte("other-secret"), TokenTTL: time.Hour}
	if _, err := other.Verify(token); err == nil {
		t.Fatalf("expected verification to fail with a different secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := TokenManager{Secret: []byte("test-secret"), TokenTTL: -time.Hour}
	token, _, err := m.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Fatalf("expected verification to fail on an expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := TokenManager{Secret: []byte("test-secret"), TokenTTL: time.Hour}
	if _, err := m.Verify("not.a.token"); err == nil {
		t.Fatalf("expected verification to fail on garbage input")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !VerifyPassword("correct horse battery staple", hash) {
		t.Fatalf("expected the original password to verify")
	}
	if VerifyPassword("wrong password", hash) {
		t.Fatalf("a wrong password must not verify")
	}
}
