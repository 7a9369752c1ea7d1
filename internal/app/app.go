package app

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lifewheel-backend/internal/clients/redis"
	"github.com/yungbote/lifewheel-backend/internal/data/db"
	"github.com/yungbote/lifewheel-backend/internal/data/repos"
	apphttp "github.com/yungbote/lifewheel-backend/internal/http"
	"github.com/yungbote/lifewheel-backend/internal/observability"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

// App owns every long-lived dependency of the API process.
type App struct {
	Log      *logger.Logger
	DB       *db.Service
	Redis    *goredis.Client
	Metrics  *observability.Metrics
	Cfg      Config
	Repos    repos.Set
	Services Services
	Server   *apphttp.Server

	otelShutdown observability.ShutdownFunc
	cancel       context.CancelFunc
}

func New() (*App, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	a := &App{Log: log, Cfg: cfg}

	a.otelShutdown = observability.InitOTel(context.Background(), log, cfg.Otel)

	if observability.Enabled() {
		a.Metrics = observability.New(prometheus.NewRegistry())
		log.Info("metrics enabled")
	}

	dbs, err := db.Open(log, cfg.DB)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	a.DB = dbs
	if err := dbs.AutoMigrateAll(); err != nil {
		a.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	a.Metrics.RegisterDBStats(log, dbs.DB(), dbs.Driver())

	rdb, err := redis.NewClient(log, cfg.Redis)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}
	a.Redis = rdb

	a.Repos = wireRepos(dbs.DB(), log)
	a.Services = wireServices(dbs.DB(), log, cfg, a.Repos, a.Metrics)
	handlers := wireHandlers(log, a.Services, dbs)
	mw := wireMiddleware(log, a.Services, rdb, a.Metrics)
	a.Server = wireServer(log, cfg, handlers, mw, a.Metrics)
	return a, nil
}

// Run serves HTTP until ctx is cancelled and the server has drained.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	defer cancel()

	if a.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Redis)
	}
	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)

	addr := ":" + a.Cfg.Port
	a.Log.Info("Starting HTTP server", "addr", addr)
	if err := a.Server.Run(ctx, addr, a.Cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	a.Log.Info("HTTP server stopped")
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
		a.Redis = nil
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
		a.DB = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
		a.otelShutdown = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
