package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is shared by the three binaries; each reads only the sections it
// needs. An empty MONGO_URI or REDIS_ADDR disables that backend.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	DB       DBConfig
	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
}

type DBConfig struct {
	Driver string `env:"DB_DRIVER, default=sqlite"`
	DSN    string `env:"DB_DSN,    default=postblog.db"`
	Debug  bool   `env:"DB_DEBUG,  default=false"`
}

type AuthConfig struct {
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
	JWTSecret  string        `env:"JWT_SECRET"`
	JWTTTL     time.Duration `env:"JWT_TTL,     default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=postblog"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// UpstreamConfig locates the services behind the data-integration gateway.
type UpstreamConfig struct {
	UserServiceURL string        `env:"USER_SERVICE_URL, default=http://localhost:8081"`
	PostServiceURL string        `env:"POST_SERVICE_URL, default=http://localhost:8082"`
	Timeout        time.Duration `env:"UPSTREAM_TIMEOUT, default=5s"`
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadFrom is Load with an explicit lookuper, for tests.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
