package db_fx

import (
	"context"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"tripplanner/internal/infra"
)

var Module = fx.Provide(
	provideDB)

// provideDB may return nil; history falls back to a no-op repository then.
func provideDB(lc fx.Lifecycle, cfg *infra.Config, logger *zap.Logger) *gorm.DB {
	db := infra.InitPostgresql(cfg, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db, logger)
			return nil
		},
	})
	return db
}
