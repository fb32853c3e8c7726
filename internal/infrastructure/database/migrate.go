package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/coursehub/payment-service/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.Payment{},
		&model.Course{},
		&model.User{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// Revenue queries only ever read completed rows
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_payments_completed_course ON payments (course_id, created_at) WHERE status = 'completed'`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_payments_user_created ON payments (user_id, created_at)`).Error; err != nil {
		return err
	}

	return nil
}
