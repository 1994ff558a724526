package backend_fx

import (
	"go.uber.org/fx"
	"tripplanner/internal/infra"
	"tripplanner/internal/services"
)

var Module = fx.Provide(provideBackendClient)

func provideBackendClient(cfg *infra.Config) services.TripBackendClient {
	return services.NewHTTPTripBackendClient(cfg.BackendURL, cfg.BackendTimeout)
}
