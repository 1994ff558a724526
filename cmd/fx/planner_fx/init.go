package planner_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"time"
	"tripplanner/internal/infra"
	"tripplanner/internal/services"
	"tripplanner/internal/view"
	"tripplanner/pkg/utils"
)

var Module = fx.Provide(
	provideValidator,
	provideSuggestionService,
	provideItineraryService,
	provideViewFactory,
)

func provideValidator(cfg *infra.Config) services.TripValidatorInterface {
	return services.NewTripValidator(utils.LoadLocation(cfg.TimeZone), time.Now)
}

func provideSuggestionService(backend services.TripBackendClient, pricing services.PricingProvider, logger *zap.Logger) services.SuggestionServiceInterface {
	return services.NewSuggestionService(backend, pricing, logger)
}

func provideItineraryService(backend services.TripBackendClient) services.ItineraryServiceInterface {
	return services.NewItineraryService(backend)
}

func provideViewFactory(
	validator services.TripValidatorInterface,
	suggestions services.SuggestionServiceInterface,
	itinerary services.ItineraryServiceInterface,
	history services.SearchHistoryServiceInterface,
	logger *zap.Logger,
) *view.Factory {
	return view.NewFactory(view.Dependencies{
		Validator:   validator,
		Suggestions: suggestions,
		Itinerary:   itinerary,
		History:     history,
		Logger:      logger,
	})
}
