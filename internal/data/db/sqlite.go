package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

// NewSQLiteService opens a file or in-memory SQLite database with foreign keys enforced.
// SQLite allows one writer, so the pool is pinned to a single connection.
func NewSQLiteService(logg *logger.Logger, cfg Config) (*Service, error) {
	serviceLog := logg.With("service", "SQLiteService")

	dsn := SQLiteDSN(cfg.SQLitePath)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: newGormLogger(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite %q: %w", cfg.SQLitePath, err)
	}

	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1
	cfg.ConnMaxLifetime = 0
	s := &Service{db: db, log: serviceLog, driver: DriverSQLite}
	if err := s.configurePool(cfg); err != nil {
		return nil, fmt.Errorf("configure sqlite pool: %w", err)
	}
	serviceLog.Info("Opened SQLite database", "path", cfg.SQLitePath)
	return s, nil
}

// SQLiteDSN builds a DSN with foreign keys on. An empty path or ":memory:" is an in-memory
// database; "memory:<name>" is a named shared-cache in-memory database.
func SQLiteDSN(path string) string {
	path = strings.TrimSpace(path)
	switch {
	case path == "" || path == ":memory:":
		return "file::memory:?_foreign_keys=on"
	case strings.HasPrefix(path, "memory:"):
		return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", strings.TrimPrefix(path, "memory:"))
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + "_foreign_keys=on&_busy_timeout=5000"
}
