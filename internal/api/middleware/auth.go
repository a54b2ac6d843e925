package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/noman-nayyar/ecommerce-springboot/internal/api/metrics"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/domain"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/ports"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/token"
)

// identityKey is the echo context key the resolved identity lives under.
const identityKey = "auth_identity"

// IdentityFrom returns the identity attached by Authenticate, or nil when
// the request is unauthenticated.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}

// SetIdentity attaches an identity to the request context. Exposed for the
// authorization middleware's tests; production code attaches identities only
// through Authenticate.
func SetIdentity(c echo.Context, id *domain.Identity) {
	c.Set(identityKey, id)
}

// Authenticate resolves a bearer token into a request-scoped identity. It is
// strictly pass-through: a missing, malformed, expired, or unresolvable
// token leaves the request unauthenticated and forwards it anyway. Rejecting
// protected routes is the authorization middleware's job.
func Authenticate(tokens *token.Service, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, ok := bearerToken(c)
			if !ok {
				return next(c)
			}

			subject, err := tokens.Subject(tok)
			if err != nil {
				metrics.TokenValidationFailures.WithLabelValues(failureReason(err)).Inc()
				log.Debug().Err(err).Msg("bearer token rejected")
				return next(c)
			}

			// Idempotency guard: never re-resolve or overwrite an identity
			// attached earlier in the chain.
			if IdentityFrom(c) != nil {
				return next(c)
			}

			if _, err := tokens.Claims(tok); err != nil {
				metrics.TokenValidationFailures.WithLabelValues(failureReason(err)).Inc()
				log.Debug().Err(err).Str("subject", subject).Msg("bearer token failed validation")
				return next(c)
			}

			user, err := users.FindByUsername(c.Request().Context(), subject)
			if err != nil {
				// A valid token for a vanished user proceeds unauthenticated;
				// the response must not reveal whether the username exists.
				metrics.TokenValidationFailures.WithLabelValues("unknown_subject").Inc()
				if !errors.Is(err, domain.ErrUserNotFound) {
					log.Error().Err(err).Msg("credential store lookup failed")
				}
				return next(c)
			}

			SetIdentity(c, &domain.Identity{Username: user.Username, Roles: user.Roles})
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Absent or differently-schemed headers are not an error.
func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrSignatureInvalid):
		return "signature"
	case errors.Is(err, token.ErrNoSubject):
		return "no_subject"
	default:
		return "malformed"
	}
}
