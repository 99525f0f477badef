package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/veloroute/internal/geocoding"
	"github.com/UnknownOlympus/veloroute/internal/metrics"
	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "veloroute:geocode:"

// GeocodeCache is a read-through Redis cache in front of a geocoding provider.
// Only successful lookups are cached; a Redis outage degrades to direct lookups.
type GeocodeCache struct {
	next    geocoding.Provider
	rdb     redis.Cmdable
	ttl     time.Duration
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewGeocodeCache wraps next with a cache whose entries expire after ttl.
func NewGeocodeCache(
	next geocoding.Provider,
	rdb redis.Cmdable,
	ttl time.Duration,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *GeocodeCache {
	return &GeocodeCache{next: next, rdb: rdb, ttl: ttl, log: log, metrics: metrics}
}

// Geocode returns the cached place for query or delegates to the wrapped provider.
func (gc *GeocodeCache) Geocode(ctx context.Context, query string) (*models.Place, error) {
	key := cacheKey(query)

	raw, err := gc.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var place models.Place
		if errDecode := json.Unmarshal(raw, &place); errDecode == nil {
			gc.metrics.GeocodeCache.WithLabelValues("hit").Inc()
			return &place, nil
		}
		gc.log.WarnContext(ctx, "Dropping undecodable geocode cache entry", "key", key)
		gc.metrics.GeocodeCache.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		gc.metrics.GeocodeCache.WithLabelValues("miss").Inc()
	default:
		gc.log.WarnContext(ctx, "Geocode cache unavailable", "error", err)
		gc.metrics.GeocodeCache.WithLabelValues("error").Inc()
	}

	place, err := gc.next.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(place)
	if err == nil {
		err = gc.rdb.Set(ctx, key, payload, gc.ttl).Err()
	}
	if err != nil {
		gc.log.WarnContext(ctx, "Failed to store geocode cache entry", "key", key, "error", err)
	}

	return place, nil
}

func cacheKey(query string) string {
	return keyPrefix + strings.ToLower(strings.Join(strings.Fields(query), " "))
}
