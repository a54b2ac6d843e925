package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/noman-nayyar/ecommerce-springboot/internal/core/domain"
)

var (
	customerID = &domain.Identity{Username: "alice", Roles: []string{domain.RoleCustomer}}
	adminID    = &domain.Identity{Username: "root", Roles: []string{domain.RoleAdmin}}
)

func TestDefaultPolicy_Table(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		name string
		path string
		id   *domain.Identity
		want error
	}{
		{"register public", "/api/register", nil, nil},
		{"admin register public (flagged gap)", "/api/register/admin", nil, nil},
		{"login public", "/api/login", nil, nil},
		{"static assets public", "/static/css/site.css", nil, nil},
		{"health public", "/health/ready", nil, nil},
		{"metrics public", "/metrics", nil, nil},
		{"admin route no identity", "/api/admin/users", nil, domain.ErrAuthenticationRequired},
		{"admin route customer identity", "/api/admin/users", customerID, domain.ErrAuthorizationDenied},
		{"admin route admin identity", "/api/admin/users", adminID, nil},
		{"admin dashboard admin identity", "/api/admin/dashboard", adminID, nil},
		{"customer route no identity", "/api/user/profile", nil, domain.ErrAuthenticationRequired},
		{"customer route admin identity", "/api/user/profile", adminID, domain.ErrAuthorizationDenied},
		{"customer route customer identity", "/api/user/profile", customerID, nil},
		{"catch-all no identity", "/api/orders", nil, domain.ErrAuthenticationRequired},
		{"catch-all any identity", "/api/orders", customerID, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.Evaluate(tc.path, tc.id); got != tc.want {
				t.Fatalf("Evaluate(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

// Prefix rules bind whole path segments: an admin identity on
// "/api/userdata" must fall through to the catch-all, not hit the
// customer-role rule for "/api/user".
func TestPolicy_PrefixMatchesSegments(t *testing.T) {
	policy := DefaultPolicy()

	if err := policy.Evaluate("/api/userdata", adminID); err != nil {
		t.Fatalf("/api/userdata should pass the catch-all for any identity, got %v", err)
	}
	if err := policy.Evaluate("/api/userdata", nil); err != domain.ErrAuthenticationRequired {
		t.Fatalf("/api/userdata without identity should require authentication, got %v", err)
	}
	if err := policy.Evaluate("/api/user", adminID); err != domain.ErrAuthorizationDenied {
		t.Fatalf("/api/user itself should stay customer-gated, got %v", err)
	}
}

func TestPolicy_FirstMatchDeterminism(t *testing.T) {
	policy := DefaultPolicy()
	for i := 0; i < 100; i++ {
		if err := policy.Evaluate("/api/admin/users", customerID); err != domain.ErrAuthorizationDenied {
			t.Fatalf("evaluation %d diverged: %v", i, err)
		}
	}
}

// The system this service replaces shipped a broad allow-all rule ahead of
// its role rules. Under first-match-wins that opens every restricted route;
// this test pins the hazard so the ordering contract stays visible.
func TestPolicy_CatchAllBeforeRoleRulesShadowsThem(t *testing.T) {
	misordered := NewPolicy([]Rule{
		{Prefix: "/", Access: Public},
		{Prefix: "/api/admin", Access: RequireRole, Role: domain.RoleAdmin},
	})

	if err := misordered.Evaluate("/api/admin/users", nil); err != nil {
		t.Fatalf("misordered table should (dangerously) permit: got %v", err)
	}

	ordered := NewPolicy([]Rule{
		{Prefix: "/api/admin", Access: RequireRole, Role: domain.RoleAdmin},
		{Prefix: "/", Access: Public},
	})
	if err := ordered.Evaluate("/api/admin/users", nil); err != domain.ErrAuthenticationRequired {
		t.Fatalf("ordered table should require authentication: got %v", err)
	}
}

func TestPolicy_NoMatchDenies(t *testing.T) {
	empty := NewPolicy(nil)
	if err := empty.Evaluate("/anything", nil); err != domain.ErrAuthenticationRequired {
		t.Fatalf("unmatched path without identity should require authentication, got %v", err)
	}
	if err := empty.Evaluate("/anything", customerID); err != nil {
		t.Fatalf("unmatched path with identity should pass, got %v", err)
	}
}

func TestAuthorize_BlocksHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetIdentity(c, customerID)

	mw := Authorize(DefaultPolicy())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("handler must not run for a denied request")
		return nil
	})

	if err := handler(c); err != domain.ErrAuthorizationDenied {
		t.Fatalf("expected ErrAuthorizationDenied, got %v", err)
	}
}

func TestAuthorize_AllowsHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	SetIdentity(c, customerID)

	called := false
	mw := Authorize(DefaultPolicy())
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("handler not reached for a permitted request")
	}
}
