package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Errorf("expected sqlite driver, got %q", cfg.DB.Driver)
	}
	if cfg.Auth.JWTTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %v", cfg.Auth.JWTTTL)
	}
	if cfg.Mongo.URI != "" || cfg.Redis.Addr != "" {
		t.Error("optional backends must be disabled by default")
	}
	if cfg.Upstream.Timeout != 5*time.Second {
		t.Errorf("expected 5s upstream timeout, got %v", cfg.Upstream.Timeout)
	}
	if cfg.IsProduction() {
		t.Error("default env must not be production")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":             "9000",
		"ENV":              "production",
		"DB_DRIVER":        "mysql",
		"DB_DSN":           "root:pw@tcp(db:3306)/users?parseTime=true",
		"BCRYPT_COST":      "12",
		"REDIS_ADDR":       "redis:6379",
		"USER_SERVICE_URL": "http://users:8080",
		"UPSTREAM_TIMEOUT": "250ms",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" || !cfg.IsProduction() {
		t.Errorf("unexpected port/env: %q/%q", cfg.Port, cfg.Env)
	}
	if cfg.DB.Driver != "mysql" || cfg.Auth.BcryptCost != 12 {
		t.Errorf("unexpected db/auth config: %+v %+v", cfg.DB, cfg.Auth)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("unexpected redis addr %q", cfg.Redis.Addr)
	}
	if cfg.Upstream.UserServiceURL != "http://users:8080" || cfg.Upstream.Timeout != 250*time.Millisecond {
		t.Errorf("unexpected upstream config: %+v", cfg.Upstream)
	}
}

func TestLoadFrom_BadDuration(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"JWT_TTL": "soon"}))
	if err == nil {
		t.Fatal("expected an error for an unparsable duration")
	}
}
