package history_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripplanner/internal/api/controllers"
	"tripplanner/internal/infra"
	"tripplanner/internal/repositories"
	"tripplanner/internal/services"
	"tripplanner/pkg/utils"
)

var Module = fx.Provide(
	provideTripSearchRepo, provideHistoryService, provideHistoryController,
)

func provideTripSearchRepo(db *gorm.DB) repositories.TripSearchRepository {
	if db == nil {
		return repositories.NewNoopTripSearchRepository()
	}
	return repositories.NewTripSearchRepository(db)
}

func provideHistoryService(repo repositories.TripSearchRepository, cfg *infra.Config) services.SearchHistoryServiceInterface {
	return services.NewSearchHistoryService(repo, utils.LoadLocation(cfg.TimeZone))
}

func provideHistoryController(historyService services.SearchHistoryServiceInterface) *controllers.HistoryController {
	return controllers.NewHistoryController(historyService)
}
