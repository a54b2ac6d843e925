package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/noman-nayyar/ecommerce-springboot/internal/api/metrics"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/domain"
)

// Access is the requirement a rule imposes on matching requests.
type Access int

const (
	// Public requests pass without any identity.
	Public Access = iota
	// Authenticated requests need an identity with any role.
	Authenticated
	// RequireRole requests need an identity carrying the rule's role.
	RequireRole
)

// Rule maps a path pattern to an access requirement. Exactly one of Exact or
// Prefix should be set. Prefix matches whole path segments: "/api/user"
// covers "/api/user" and "/api/user/profile" but not "/api/userdata".
type Rule struct {
	Exact  string
	Prefix string
	Access Access
	Role   string
}

func (r Rule) matches(path string) bool {
	if r.Exact != "" {
		return path == r.Exact
	}
	if r.Prefix == "" {
		return false
	}
	p := strings.TrimSuffix(r.Prefix, "/")
	if p == "" {
		return true
	}
	return path == p || strings.HasPrefix(path, p+"/")
}

// Policy is a static, ordered rule table evaluated strictly top-to-bottom
// with first-match-wins semantics. Rule order is correctness-critical: a
// broad public rule placed before a role-restricted one silently opens the
// restricted routes, which is exactly the misconfiguration observed in the
// system this service replaces. Keep restrictive rules above broad ones.
type Policy struct {
	rules []Rule
}

func NewPolicy(rules []Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy is the production rule table: registration, login, assets
// and operational endpoints are public, admin and customer route groups
// require their roles, and everything else requires some authenticated
// identity.
func DefaultPolicy() *Policy {
	return NewPolicy([]Rule{
		{Exact: "/api/register", Access: Public},
		{Exact: "/api/register/admin", Access: Public},
		{Exact: "/api/login", Access: Public},
		{Prefix: "/static/", Access: Public},
		{Prefix: "/health", Access: Public},
		{Exact: "/metrics", Access: Public},
		{Prefix: "/swagger", Access: Public},
		{Prefix: "/api/admin", Access: RequireRole, Role: domain.RoleAdmin},
		{Prefix: "/api/user", Access: RequireRole, Role: domain.RoleCustomer},
		{Prefix: "/", Access: Authenticated},
	})
}

// Evaluate applies the first matching rule to the identity (nil when the
// request is unauthenticated). It returns nil to permit, or one of
// domain.ErrAuthenticationRequired / domain.ErrAuthorizationDenied.
// A path matching no rule is denied, never silently allowed.
func (p *Policy) Evaluate(path string, id *domain.Identity) error {
	for _, rule := range p.rules {
		if !rule.matches(path) {
			continue
		}
		switch rule.Access {
		case Public:
			return nil
		case Authenticated:
			if id == nil {
				return domain.ErrAuthenticationRequired
			}
			return nil
		case RequireRole:
			if id == nil {
				return domain.ErrAuthenticationRequired
			}
			if !id.HasRole(rule.Role) {
				return domain.ErrAuthorizationDenied
			}
			return nil
		}
	}
	if id == nil {
		return domain.ErrAuthenticationRequired
	}
	return nil
}

// Authorize enforces the policy before any route handler runs. Rejected
// requests never reach their target handler.
func Authorize(policy *Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := policy.Evaluate(c.Request().URL.Path, IdentityFrom(c))
			switch err {
			case nil:
				metrics.AuthzDecisions.WithLabelValues("allow").Inc()
				return next(c)
			case domain.ErrAuthenticationRequired:
				metrics.AuthzDecisions.WithLabelValues("unauthenticated").Inc()
			default:
				metrics.AuthzDecisions.WithLabelValues("denied").Inc()
			}
			return err
		}
	}
}
