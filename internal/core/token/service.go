// Package token issues and validates the signed, time-bounded identity
// tokens exchanged on login. Tokens are stateless: validity is derived from
// the HMAC signature and the embedded expiry, never from a lookup.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 24 * time.Hour

// Failure kinds. Callers that only gate a request treat all of them as "not
// a valid token"; they stay distinct so logs and metrics can tell an expired
// replay from a forgery.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrNoSubject        = errors.New("token has no subject")
)

// Service signs and verifies identity tokens with a single process-wide
// symmetric key. The key is fixed at construction; rotation is out of scope,
// and losing it invalidates every outstanding token.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue produces a signed token asserting the given username as subject,
// issued now and expiring after the configured TTL.
func (s *Service) Issue(username string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate reports whether the token's signature verifies and its expiry has
// not passed. Every failure mode, including garbage input, collapses to
// false; Validate never returns an error.
func (s *Service) Validate(tok string) bool {
	_, err := s.Claims(tok)
	return err == nil
}

// Claims parses and fully validates the token, returning its claims or one
// of the typed failure kinds.
func (s *Service) Claims(tok string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tok, claims, s.keyFunc)
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

// Subject returns the token's subject claim. The signature must verify, but
// an expired token still yields its subject so callers can name the account
// behind a stale replay; they must still call Validate before trusting it.
func (s *Service) Subject(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tok, claims, s.keyFunc, jwt.WithoutClaimsValidation())
	if err != nil {
		return "", classify(err)
	}
	if claims.Subject == "" {
		return "", ErrNoSubject
	}
	return claims.Subject, nil
}

func (s *Service) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return s.secret, nil
}

// classify maps jwt parse errors onto this package's failure kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureInvalid
	default:
		return ErrMalformed
	}
}
