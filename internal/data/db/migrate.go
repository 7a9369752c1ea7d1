package db

import (
	"fmt"

	"github.com/yungbote/lifewheel-backend/internal/domain"
	"gorm.io/gorm"
)

// AutoMigrateAll creates or updates every table, then the raw SQL indexes gorm tags cannot express.
func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureAssessmentIndexes(db)
}

// EnsureAssessmentIndexes adds the single in-progress assessment per user constraint.
// Partial indexes are supported by both Postgres and SQLite.
func EnsureAssessmentIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uq_assessment_user_in_progress
		ON assessments(user_id)
		WHERE status = 'in_progress';
	`).Error; err != nil {
		return fmt.Errorf("create uq_assessment_user_in_progress: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_assessment_user_started
		ON assessments(user_id, started_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_assessment_user_started: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Running migrations", "driver", s.driver)
	return AutoMigrateAll(s.db)
}
