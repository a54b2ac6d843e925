package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	// JWTTTLMillis is the token time-to-live in milliseconds.
	JWTTTLMillis int64  `env:"JWT_TTL_MS, default=86400000"`
	LogLevel     string `env:"LOG_LEVEL, default=info"`

	Login LoginConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type LoginConfig struct {
	MaxAttempts   int64 `env:"LOGIN_MAX_ATTEMPTS,   default=5"`
	WindowSeconds int64 `env:"LOGIN_WINDOW_SECONDS, default=900"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ecommerce_auth"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// TokenTTL converts the configured millisecond TTL to a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTLMillis) * time.Millisecond
}

// LoginWindow converts the configured throttle window to a duration.
func (c *Config) LoginWindow() time.Duration {
	return time.Duration(c.Login.WindowSeconds) * time.Second
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
