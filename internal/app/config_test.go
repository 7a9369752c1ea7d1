package app

import (
	"errors"
	"testing"
	"time"

	"github.com/yungbote/lifewheel-backend/internal/data/db"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := LoadConfig(logger.Nop()); !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	for _, name := range []string{"PORT", "ACCESS_TOKEN_TTL", "BCRYPT_COST", "DB_DRIVER", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(name, "")
	}
	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" || cfg.AccessTokenTTL != 24*time.Hour || cfg.BcryptCost != 12 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DB.Driver != db.DriverPostgres || cfg.Redis.Addr != "" {
		t.Fatalf("unexpected backing stores: %+v %+v", cfg.DB, cfg.Redis)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ACCESS_TOKEN_TTL", "600")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/lw.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AccessTokenTTL != 10*time.Minute {
		t.Fatalf("ttl: got %s", cfg.AccessTokenTTL)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.SQLitePath != "/tmp/lw.db" {
		t.Fatalf("db: got %+v", cfg.DB)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins: got %v", cfg.CORSOrigins)
	}
}
