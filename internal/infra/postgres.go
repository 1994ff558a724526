package infra

import (
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"tripplanner/internal/models/db_models"
)

// InitPostgresql opens the history database. It returns nil when no DSN is
// configured so the caller can fall back to a no-op repository.
func InitPostgresql(cfg *Config, logger *zap.Logger) *gorm.DB {
	if cfg.PostgresURL == "" {
		logger.Info("POSTGRES_URL not set, search history disabled")
		return nil
	}

	connectionPool, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{})
	if err != nil {
		logger.Error("error connecting to database, search history disabled", zap.Error(err))
		return nil
	}

	if err := connectionPool.AutoMigrate(&db_models.TripSearch{}); err != nil {
		logger.Error("error migrating trip_searches", zap.Error(err))
	}

	return connectionPool
}

func ClosePostgresql(db *gorm.DB, logger *zap.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("error getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("error closing database connection", zap.Error(err))
	} else {
		logger.Info("PostgreSQL database connection closed successfully")
	}
}
