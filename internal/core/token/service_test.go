package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueThenValidate(t *testing.T) {
	svc := NewService("secret", time.Hour)

	for _, username := range []string{"alice", "bob", "admin1"} {
		tok, err := svc.Issue(username)
		if err != nil {
			t.Fatalf("issue for %s: %v", username, err)
		}
		if !svc.Validate(tok) {
			t.Fatalf("freshly issued token for %s did not validate", username)
		}

		sub, err := svc.Subject(tok)
		if err != nil {
			t.Fatalf("subject for %s: %v", username, err)
		}
		if sub != username {
			t.Fatalf("expected subject %s, got %s", username, sub)
		}
	}
}

func TestIssueEmbedsExpiry(t *testing.T) {
	svc := NewService("secret", 30*time.Minute)

	tok, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Claims(tok)
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != 30*time.Minute {
		t.Fatalf("expected 30m between iat and exp, got %s", ttl)
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	svc := NewService("secret", time.Hour)
	expired := signedToken(t, "secret", "alice", -time.Minute)

	if svc.Validate(expired) {
		t.Fatalf("expired token validated")
	}
	if _, err := svc.Claims(expired); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestValidate_WrongKey(t *testing.T) {
	issuer := NewService("key-one", time.Hour)
	verifier := NewService("key-two", time.Hour)

	tok, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if verifier.Validate(tok) {
		t.Fatalf("token signed with a different key validated")
	}
	if _, err := verifier.Claims(tok); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestValidate_TamperedPayload(t *testing.T) {
	svc := NewService("secret", time.Hour)

	tok, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Flip one character of the encoded payload.
	b := []byte(tok)
	mid := len(b) / 2
	if b[mid] == 'A' {
		b[mid] = 'B'
	} else {
		b[mid] = 'A'
	}

	if svc.Validate(string(b)) {
		t.Fatalf("tampered token validated")
	}
}

func TestValidate_Garbage(t *testing.T) {
	svc := NewService("secret", time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		if svc.Validate(tok) {
			t.Fatalf("garbage input %q validated", tok)
		}
		if _, err := svc.Claims(tok); !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed for %q, got %v", tok, err)
		}
	}
}

func TestSubject_ExpiredTokenStillNamed(t *testing.T) {
	svc := NewService("secret", time.Hour)
	expired := signedToken(t, "secret", "alice", -time.Minute)

	sub, err := svc.Subject(expired)
	if err != nil {
		t.Fatalf("subject of expired token: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("expected alice, got %s", sub)
	}
	// The token is still unusable for authentication.
	if svc.Validate(expired) {
		t.Fatalf("expired token validated")
	}
}

func TestSubject_Failures(t *testing.T) {
	svc := NewService("secret", time.Hour)

	if _, err := svc.Subject("garbage"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}

	forged := signedToken(t, "other-key", "alice", time.Hour)
	if _, err := svc.Subject(forged); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}

	noSub := signedToken(t, "secret", "", time.Hour)
	if _, err := svc.Subject(noSub); !errors.Is(err, ErrNoSubject) {
		t.Fatalf("expected ErrNoSubject, got %v", err)
	}
}

func TestValidate_RejectsUnexpectedAlg(t *testing.T) {
	svc := NewService("secret", time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if svc.Validate(unsigned) {
		t.Fatalf("alg=none token validated")
	}
}

// signedToken builds an HS256 token directly so tests can control expiry.
func signedToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
