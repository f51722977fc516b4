package weather_fx

import (
	"os"

	"go.uber.org/fx"

	"wayfarer/internal/services"
)

var Module = fx.Provide(
	provideWeatherService)

func provideWeatherService() services.WeatherServiceInterface {
	return services.NewWeatherService(
		os.Getenv("QWEATHER_API_KEY"),
		os.Getenv("QWEATHER_API_HOST"),
	)
}
