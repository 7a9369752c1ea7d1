package app

import (
	"errors"
	"time"

	"github.com/yungbote/lifewheel-backend/internal/clients/redis"
	"github.com/yungbote/lifewheel-backend/internal/data/db"
	"github.com/yungbote/lifewheel-backend/internal/observability"
	"github.com/yungbote/lifewheel-backend/internal/platform/envutil"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	BcryptCost      int
	DebugMode       bool
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	// MetricsAddr serves /metrics on its own listener in addition to the API router.
	MetricsAddr string

	DB    db.Config
	Redis redis.Config
	Otel  observability.OtelConfig
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET_KEY is required")

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:            envutil.String("PORT", "8080", log),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "", nil),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", 24*time.Hour, log),
		BcryptCost:      envutil.Int("BCRYPT_COST", 12, log),
		DebugMode:       envutil.Bool("DEBUG_MODE", false, log),
		CORSOrigins:     envutil.List("CORS_ALLOWED_ORIGINS", nil),
		ShutdownTimeout: envutil.Seconds("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second, log),
		MetricsAddr:     envutil.String("METRICS_ADDR", "", log),

		DB: LoadDBConfig(log),

		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", nil),
			DB:       envutil.Int("REDIS_DB", 0, log),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "lifewheel-api", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", nil)),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true, log),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1.0, log),
		},
	}
	if cfg.JWTSecretKey == "" {
		return cfg, ErrMissingJWTSecret
	}
	return cfg, nil
}

// LoadDBConfig reads the database settings shared by the API and the seed binary.
func LoadDBConfig(log *logger.Logger) db.Config {
	return db.Config{
		Driver:          envutil.String("DB_DRIVER", db.DriverPostgres, log),
		DSN:             envutil.String("DATABASE_URL", "", nil),
		Host:            envutil.String("POSTGRES_HOST", "localhost", log),
		Port:            envutil.String("POSTGRES_PORT", "5432", log),
		User:            envutil.String("POSTGRES_USER", "postgres", log),
		Password:        envutil.String("POSTGRES_PASSWORD", "", nil),
		Name:            envutil.String("POSTGRES_NAME", "lifewheel", log),
		SSLMode:         envutil.String("POSTGRES_SSLMODE", "disable", log),
		SQLitePath:      envutil.String("SQLITE_PATH", "lifewheel.db", log),
		MaxOpenConns:    envutil.Int("DB_MAX_OPEN_CONNS", 25, log),
		MaxIdleConns:    envutil.Int("DB_MAX_IDLE_CONNS", 10, log),
		ConnMaxLifetime: envutil.Seconds("DB_CONN_MAX_LIFETIME", 300*time.Second, log),
	}
}
