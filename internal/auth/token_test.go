package auth

import (
	"testing"
	"time"
)

func TestNewOneTimeToken(t *testing.T) {
	secret, digest, expiry, err := NewOneTimeToken()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	if len(secret) != 64 {
		t.Errorf("secret length = %d, want 64 hex chars", len(secret))
	}
	if digest == secret {
		t.Error("digest must not equal the secret")
	}
	if HashToken(secret) != digest {
		t.Error("digest does not match HashToken(secret)")
	}

	remaining := time.Until(expiry)
	if remaining <= 0 || remaining > OneTimeTokenTTL {
		t.Errorf("expiry %v not within TTL window", remaining)
	}
}

func TestTokensAreUnique(t *testing.T) {
	a, _, _, err := NewOneTimeToken()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	b, _, _, err := NewOneTimeToken()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if a == b {
		t.Error("two tokens should never collide")
	}
}

func TestHashTokenIsStable(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Error("same input must hash to same digest")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Error("different inputs must not collide")
	}
}
