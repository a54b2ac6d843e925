package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/noman-nayyar/ecommerce-springboot/internal/api/metrics"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/domain"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/ports"
)

// UserHandler translates HTTP requests into user service calls. It is thin
// on purpose: all authentication decisions happen in the middleware chain
// before any of these methods run.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register creates a customer account.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	return h.register(c, domain.RoleCustomer)
}

// RegisterAdmin creates an admin account. Like the system it replaces, this
// endpoint is public: anyone can self-register as admin. That is a known
// security gap carried over deliberately rather than silently patched; see
// the policy notes in the middleware package.
//
// @Summary      Register a new admin (ungated)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/register/admin [post]
func (h *UserHandler) RegisterAdmin(c echo.Context) error {
	return h.register(c, domain.RoleAdmin)
}

func (h *UserHandler) register(c echo.Context, role string) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Register(c.Request().Context(), req.Username, req.Email, req.Password, role)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(role).Inc()
	return c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and returns a signed bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tok, user, err := h.userService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch err {
		case domain.ErrTooManyAttempts:
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: tok, User: user})
}

// Profile returns the caller's own record, resolved from the identity the
// middleware attached, never from any client-supplied id.
//
// @Summary      Own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/user/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Profile(c.Request().Context(), id.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// AdminDashboard greets an authenticated admin.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /api/admin/dashboard [get]
func (h *UserHandler) AdminDashboard(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Welcome to the admin dashboard, " + id.Username,
	})
}

// AdminUsers lists every registered user.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Router       /api/admin/users [get]
func (h *UserHandler) AdminUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
