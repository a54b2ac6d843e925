package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/noman-nayyar/ecommerce-springboot/internal/api/middleware"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/domain"
)

// ctxIdentity extracts the identity attached by the authentication
// middleware. Handlers behind protected routes should never see a nil
// identity; finding one means the policy table let a request through that it
// should not have, so fail closed with 401.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return id, nil
}
