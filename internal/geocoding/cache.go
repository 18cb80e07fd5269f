package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/proteus/internal/models"
	gocache "github.com/patrickmn/go-cache"
)

// CachedProvider wraps a Provider with an in-memory TTL cache. Type-ahead
// queries repeat a lot while a user backspaces and retypes, and place
// details never change within a session, so caching keeps latency down and
// stays inside provider rate limits.
type CachedProvider struct {
	provider Provider
	cache    *gocache.Cache
	log      *slog.Logger
}

const (
	// DefaultCacheTTL is how long cached lookups stay fresh.
	DefaultCacheTTL = 5 * time.Minute
	// cacheCleanupInterval is how often expired entries are purged.
	cacheCleanupInterval = 10 * time.Minute
)

// NewCachedProvider wraps the given provider with an in-memory cache using
// the given TTL. A non-positive TTL falls back to DefaultCacheTTL.
func NewCachedProvider(provider Provider, ttl time.Duration, log *slog.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{
		provider: provider,
		cache:    gocache.New(ttl, cacheCleanupInterval),
		log:      log,
	}
}

// Autocomplete returns cached suggestions for the query when present,
// otherwise delegates to the wrapped provider and caches the result.
// Errors are never cached so a transient failure does not poison the query.
func (cp *CachedProvider) Autocomplete(ctx context.Context, query string) ([]models.Suggestion, error) {
	key := autocompleteKey(query)
	if cached, found := cp.cache.Get(key); found {
		cp.log.DebugContext(ctx, "Autocomplete cache hit", "query", query)
		suggestions, ok := cached.([]models.Suggestion)
		if ok {
			return suggestions, nil
		}
	}

	suggestions, err := cp.provider.Autocomplete(ctx, query)
	if err != nil {
		return nil, err
	}

	cp.cache.Set(key, suggestions, gocache.DefaultExpiration)
	return suggestions, nil
}

// ResolvePlace returns the cached place when present, otherwise delegates
// to the wrapped provider and caches the result.
func (cp *CachedProvider) ResolvePlace(ctx context.Context, placeID string) (*models.Place, error) {
	key := placeKey(placeID)
	if cached, found := cp.cache.Get(key); found {
		cp.log.DebugContext(ctx, "Place details cache hit", "place_id", placeID)
		place, ok := cached.(*models.Place)
		if ok {
			return place, nil
		}
	}

	place, err := cp.provider.ResolvePlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	cp.cache.Set(key, place, gocache.DefaultExpiration)
	return place, nil
}

// ReverseGeocode returns cached places for the coordinates when present,
// otherwise delegates to the wrapped provider and caches the result.
func (cp *CachedProvider) ReverseGeocode(ctx context.Context, coords models.Coordinates) ([]models.Place, error) {
	key := reverseKey(coords)
	if cached, found := cp.cache.Get(key); found {
		cp.log.DebugContext(ctx, "Reverse geocode cache hit",
			"lat", coords.Latitude, "lon", coords.Longitude)
		places, ok := cached.([]models.Place)
		if ok {
			return places, nil
		}
	}

	places, err := cp.provider.ReverseGeocode(ctx, coords)
	if err != nil {
		return nil, err
	}

	cp.cache.Set(key, places, gocache.DefaultExpiration)
	return places, nil
}

func autocompleteKey(query string) string {
	return "ac:" + strings.ToLower(strings.TrimSpace(query))
}

func placeKey(placeID string) string {
	return "place:" + placeID
}

func reverseKey(coords models.Coordinates) string {
	return fmt.Sprintf("rev:%.6f,%.6f", coords.Latitude, coords.Longitude)
}
