package controllers_fx

import (
	"go.uber.org/fx"

	"wayfarer/internal/api/controllers"
)

var Module = fx.Provide(
	controllers.NewPlanController,
	controllers.NewPOIsController,
	controllers.NewAuthController,
	controllers.NewHealthController,
)
