package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-signing-secret"

func TestTokenIssuer_Roundtrip(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer(testSecret, 30*time.Minute)

	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	subject, remaining, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if subject != "alice" {
		t.Errorf("expected subject alice, got %s", subject)
	}
	if remaining <= 0 || remaining > 30*time.Minute {
		t.Errorf("unexpected remaining lifetime: %v", remaining)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	t.Parallel()

	// Negative TTL produces an already-expired token.
	issuer := NewTokenIssuer(testSecret, -time.Minute)

	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer(testSecret, 30*time.Minute)
	other := NewTokenIssuer("different-secret", 30*time.Minute)

	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenIssuer_Malformed(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer(testSecret, 30*time.Minute)

	for _, token := range []string{"", "garbage", "a.b.c", "header.payload"} {
		if _, _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestNewTokenIssuerWithAlgorithm(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		issuer, err := NewTokenIssuerWithAlgorithm(testSecret, alg, 30*time.Minute)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", alg, err)
		}

		token, err := issuer.Issue("alice")
		if err != nil {
			t.Fatalf("%s: Issue failed: %v", alg, err)
		}
		if subject, _, err := issuer.Verify(token); err != nil || subject != "alice" {
			t.Errorf("%s: Verify returned (%q, %v)", alg, subject, err)
		}
	}

	for _, alg := range []string{"", "none", "RS256", "ES256", "hs256"} {
		if _, err := NewTokenIssuerWithAlgorithm(testSecret, alg, 30*time.Minute); err == nil {
			t.Errorf("expected error for algorithm %q", alg)
		}
	}
}

func TestTokenIssuer_AlgorithmMismatch(t *testing.T) {
	t.Parallel()

	hs512, err := NewTokenIssuerWithAlgorithm(testSecret, "HS512", 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := hs512.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// An HS256 verifier must reject an HS512 token even with the right secret.
	hs256 := NewTokenIssuer(testSecret, 30*time.Minute)
	if _, _, err := hs256.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for algorithm mismatch, got %v", err)
	}
}

func TestTokenIssuer_Tampered(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer(testSecret, 30*time.Minute)

	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three JWT segments, got %d", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, _, err := issuer.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}
