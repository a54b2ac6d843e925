package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/noman-nayyar/ecommerce-springboot/docs" // swagger docs

	"github.com/noman-nayyar/ecommerce-springboot/internal/api"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/service"
	"github.com/noman-nayyar/ecommerce-springboot/internal/core/token"
	mongodb "github.com/noman-nayyar/ecommerce-springboot/internal/infrastructure/db/mongo"
	redisdb "github.com/noman-nayyar/ecommerce-springboot/internal/infrastructure/db/redis"
	"github.com/noman-nayyar/ecommerce-springboot/internal/infrastructure/queue"
	"github.com/noman-nayyar/ecommerce-springboot/internal/pkg/config"
	"github.com/noman-nayyar/ecommerce-springboot/pkg/logger"
)

// minSecretBytes is the recommended effective key material for the HMAC
// signing secret (256 bits).
const minSecretBytes = 32

// @title Ecommerce Auth API
// @version 1.0
// @description User registration, token-based login, and role-gated routes.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}
	if len(cfg.JWTSecret) < minSecretBytes {
		log.Warn().Int("bytes", len(cfg.JWTSecret)).Msg("JWT_SECRET is shorter than the recommended 256 bits")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = client.Disconnect(ctx) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	auditRepo := mongodb.NewAuditRepository(db)

	// Workers outlive the signal context so Stop can drain queued events
	// during shutdown.
	dispatcher := queue.NewDispatcher(0, service.NewAuditService(auditRepo, log), log)
	dispatcher.Start(context.Background())

	limiter := redisdb.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.LoginWindow())
	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL())
	userService := service.NewUserService(userRepo, tokens, limiter, dispatcher, log)

	e := api.NewRouter(api.Deps{
		DB:        db,
		Redis:     rdb,
		Users:     userService,
		UserRepo:  userRepo,
		AuditRepo: auditRepo,
		Tokens:    tokens,
		Log:       log,
	})

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	dispatcher.Stop()
}
