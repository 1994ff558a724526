package controllers_fx

import (
	"go.uber.org/fx"
	"tripplanner/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewPlannerController))
