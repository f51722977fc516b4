package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"wayfarer/internal/repositories"
)

// GeoResolverInterface memoizes provider lookups. Negative results are
// cached too so a venue that cannot be resolved is not retried within the
// cache TTL.
type GeoResolverInterface interface {
	Resolve(ctx context.Context, address, cityHint string) (Coordinate, bool)
	OpenHours(ctx context.Context, nameOrAddress, cityHint string) (string, bool)
	DrivingDistance(ctx context.Context, origin, destination Coordinate) (DriveLeg, bool)
}

type geoKey struct {
	Query string
	City  string
}

type legKey struct {
	A string
	B string
}

type geoCacheEntry[V any] struct {
	Value     V
	Found     bool
	ExpiresAt time.Time
}

type geoCache[K comparable, V any] struct {
	mu    sync.RWMutex
	store map[K]geoCacheEntry[V]
	ttl   time.Duration
}

func newGeoCache[K comparable, V any](ttl time.Duration) *geoCache[K, V] {
	return &geoCache[K, V]{store: make(map[K]geoCacheEntry[V]), ttl: ttl}
}

func (c *geoCache[K, V]) get(k K) (V, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[k]
	if !ok || time.Now().After(e.ExpiresAt) {
		var zero V
		return zero, false, false
	}
	return e.Value, e.Found, true
}

func (c *geoCache[K, V]) set(k K, v V, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[k] = geoCacheEntry[V]{Value: v, Found: found, ExpiresAt: time.Now().Add(c.ttl)}
}

type GeoResolver struct {
	amap    AmapClientInterface
	poiRepo repositories.POIRepository

	coords    *geoCache[geoKey, Coordinate]
	hours     *geoCache[geoKey, string]
	distances *geoCache[legKey, DriveLeg]
}

// DefaultGeoCacheTTL bounds staleness of hours/coordinate verdicts when the
// resolver outlives a single annotation pass.
const DefaultGeoCacheTTL = 30 * time.Minute

func NewGeoResolver(amap AmapClientInterface, poiRepo repositories.POIRepository, ttl time.Duration) GeoResolverInterface {
	if ttl <= 0 {
		ttl = DefaultGeoCacheTTL
	}
	return &GeoResolver{
		amap:      amap,
		poiRepo:   poiRepo,
		coords:    newGeoCache[geoKey, Coordinate](ttl),
		hours:     newGeoCache[geoKey, string](ttl),
		distances: newGeoCache[legKey, DriveLeg](ttl),
	}
}

func (g *GeoResolver) Resolve(ctx context.Context, address, cityHint string) (Coordinate, bool) {
	if address == "" {
		return Coordinate{}, false
	}
	key := geoKey{Query: address, City: cityHint}
	if coord, found, hit := g.coords.get(key); hit {
		return coord, found
	}

	coord, found := g.amap.Geocode(ctx, address, cityHint)
	g.coords.set(key, coord, found)
	return coord, found
}

// OpenHours asks the live provider first and falls back to the local POI
// catalog by exact name. Misses are cached for the TTL.
func (g *GeoResolver) OpenHours(ctx context.Context, nameOrAddress, cityHint string) (string, bool) {
	if nameOrAddress == "" {
		return "", false
	}
	key := geoKey{Query: nameOrAddress, City: cityHint}
	if raw, found, hit := g.hours.get(key); hit {
		return raw, found
	}

	raw, found := g.amap.PlaceOpenHours(ctx, nameOrAddress, cityHint)
	if !found && g.poiRepo != nil {
		poi, err := g.poiRepo.GetByExactName(ctx, nameOrAddress)
		if err != nil {
			log.Printf("[GEO] catalog hours lookup failed: name=%s err=%v", nameOrAddress, err)
		} else if poi != nil && poi.BusinessHours != "" {
			raw, found = poi.BusinessHours, true
		}
	}

	g.hours.set(key, raw, found)
	return raw, found
}

func (g *GeoResolver) DrivingDistance(ctx context.Context, origin, destination Coordinate) (DriveLeg, bool) {
	key := legKey{
		A: fmt.Sprintf("%.6f,%.6f", origin.Lng, origin.Lat),
		B: fmt.Sprintf("%.6f,%.6f", destination.Lng, destination.Lat),
	}
	if leg, found, hit := g.distances.get(key); hit {
		return leg, found
	}

	leg, found := g.amap.DrivingDistance(ctx, origin, destination)
	g.distances.set(key, leg, found)
	return leg, found
}
