package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig

	// ViewWorkers is the number of sharded workers registering post views.
	ViewWorkers int `env:"VIEW_WORKERS, default=8"`
}

type JWTConfig struct {
	// Secret signs both access and refresh tokens. Startup fails without it.
	Secret     string        `env:"JWT_SECRET, required"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL,  default=168h"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL, default=720h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, required"`
	Database string `env:"MONGO_DB,  default=blog_platform"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
// Missing required variables (JWT_SECRET, MONGO_URI) abort startup.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
