package config_fx

import (
	"go.uber.org/fx"
	"tripplanner/internal/infra"
)

var Module = fx.Provide(
	infra.LoadConfig, infra.NewLogger)
