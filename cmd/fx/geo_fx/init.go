package geo_fx

import (
	"time"

	"go.uber.org/fx"

	"wayfarer/internal/repositories"
	"wayfarer/internal/services"
	"wayfarer/pkg/utils"
)

var Module = fx.Provide(
	provideAmapClient, provideGeoResolver)

func provideAmapClient() services.AmapClientInterface {
	return services.NewAmapClient()
}

func provideGeoResolver(amap services.AmapClientInterface, poiRepo repositories.POIRepository) services.GeoResolverInterface {
	ttl := time.Duration(utils.EnvIntOrDefault("GEO_CACHE_TTL_MIN", 30)) * time.Minute
	return services.NewGeoResolver(amap, poiRepo, ttl)
}
