package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)

	for _, id := range []int64{1, 42, 7919, 1<<40 + 3} {
		token, err := tm.Sign(id)
		if err != nil {
			t.Fatalf("sign %d: %v", id, err)
		}
		got, err := tm.Verify(token)
		if err != nil {
			t.Fatalf("verify %d: %v", id, err)
		}
		if got != id {
			t.Fatalf("round trip mismatch: signed %d, verified %d", id, got)
		}
	}
}

func TestTokenRoundTripWithTTL(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, err := tm.Sign(99)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	got, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != 99 {
		t.Fatalf("expected 99, got %d", got)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)

	for _, input := range []string{
		"",
		"not-a-token",
		"a.b.c",
		"eyJhbGciOiJIUzI1NiJ9",
		strings.Repeat("x", 500),
	} {
		if _, err := tm.Verify(input); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", input, err)
		}
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)

	token, err := tm.Sign(1234)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		mutated := token[:i] + string(replacement) + token[i+1:]
		if mutated == token {
			continue
		}
		if _, err := tm.Verify(mutated); err == nil {
			t.Fatalf("tampered token at position %d verified successfully", i)
		}
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signer := NewTokenManager("secret-one", 0)
	verifier := NewTokenManager("secret-two", 0)

	token, err := signer.Sign(5)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	claims := &Claims{SubjectID: 7}
	claims.IssuedAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Hour))
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-1 * time.Hour))
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}

	if _, err := tm.Verify(expired); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsUnexpectedSigningMethod(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{SubjectID: 9}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := tm.Verify(unsigned); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}
