package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noman-nayyar/ecommerce-springboot/internal/api/handler"
	"github.com/noman-nayyar/ecommerce-springboot/internal/api/middleware"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/ports"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/token"
)

// Deps carries everything the router needs; construction of services and
// repositories happens in main so their lifecycles (dispatcher workers,
// connections) stay in one place.
type Deps struct {
	DB        *mongo.Database
	Redis     *redis.Client
	Users     ports.UserService
	UserRepo  ports.UserRepository
	AuditRepo ports.AuditRepository
	Tokens    *token.Service
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// Authentication is pass-through; the authorization policy decides.
	// The two must run in this order on every route.
	e.Use(middleware.Authenticate(deps.Tokens, deps.UserRepo, deps.Log))
	e.Use(middleware.Authorize(middleware.DefaultPolicy()))

	userHandler := handler.NewUserHandler(deps.Users)
	auditHandler := handler.NewAuditHandler(deps.AuditRepo)

	// --- Public auth endpoints ---
	e.POST("/api/register", userHandler.Register)
	e.POST("/api/register/admin", userHandler.RegisterAdmin)
	e.POST("/api/login", userHandler.Login)

	// --- Customer routes ---
	e.GET("/api/user/profile", userHandler.Profile)

	// --- Admin routes ---
	e.GET("/api/admin/dashboard", userHandler.AdminDashboard)
	e.GET("/api/admin/users", userHandler.AdminUsers)
	e.GET("/api/admin/audit", auditHandler.Recent)

	// --- Static assets ---
	e.Static("/static", "static")

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
