package database

import (
	"github.com/mickychog/career-genius/internal/config"
	"github.com/mickychog/career-genius/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// Duplicate-key violations must surface as gorm.ErrDuplicatedKey so
		// the start/stocking conflict paths can detect them.
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Info("database connected",
		zap.String("host", cfg.Host),
		zap.String("dbname", cfg.DBName))
	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Option{},
		&models.TestSession{},
	); err != nil {
		return err
	}

	// Exactly one incomplete session per user at any time. AutoMigrate can't
	// express a partial index, so it is created directly.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_session_per_user
		 ON test_sessions (user_id) WHERE is_completed = false`,
	).Error; err != nil {
		return err
	}

	log.Info("database migrated")
	return nil
}
