package cache_test

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/veloroute/internal/cache"
	"github.com/UnknownOlympus/veloroute/internal/geocoding"
	"github.com/UnknownOlympus/veloroute/internal/metrics"
	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/UnknownOlympus/veloroute/test/mocks"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*cache.GeocodeCache, *mocks.Provider, *miniredis.Miniredis, *metrics.Metrics) {
	t.Helper()
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	provider := mocks.NewProvider(t)
	m := metrics.NewMetrics(prometheus.NewRegistry())

	return cache.NewGeocodeCache(provider, rdb, time.Hour, slog.Default(), m), provider, srv, m
}

func TestGeocodeCache(t *testing.T) {
	ctx := t.Context()
	contres := &models.Place{Coordinate: models.Coordinate{Lat: 47.27, Lng: 1.5}, City: "Contres"}

	t.Run("miss then hit", func(t *testing.T) {
		gc, provider, srv, m := setup(t)

		provider.On("Geocode", ctx, "1 Rue Test 41700").Return(contres, nil).Once()

		first, err := gc.Geocode(ctx, "1 Rue Test 41700")
		require.NoError(t, err)
		assert.Equal(t, contres, first)

		second, err := gc.Geocode(ctx, "  1 rue test   41700 ")
		require.NoError(t, err)
		assert.Equal(t, contres, second)

		assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("miss")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("hit")), 0)

		raw, err := srv.Get("veloroute:geocode:1 rue test 41700")
		require.NoError(t, err)
		var stored models.Place
		require.NoError(t, json.Unmarshal([]byte(raw), &stored))
		assert.Equal(t, *contres, stored)
		assert.Equal(t, time.Hour, srv.TTL("veloroute:geocode:1 rue test 41700"))
	})

	t.Run("failures are not cached", func(t *testing.T) {
		gc, provider, srv, _ := setup(t)

		provider.On("Geocode", ctx, "nowhere").Return(nil, geocoding.ErrBANEmptyResponse).Twice()

		_, err := gc.Geocode(ctx, "nowhere")
		require.ErrorIs(t, err, geocoding.ErrNoResults)
		_, err = gc.Geocode(ctx, "nowhere")
		require.ErrorIs(t, err, geocoding.ErrNoResults)

		assert.False(t, srv.Exists("veloroute:geocode:nowhere"))
	})

	t.Run("redis outage falls through to provider", func(t *testing.T) {
		gc, provider, srv, m := setup(t)
		srv.Close()

		provider.On("Geocode", ctx, "1 Rue Test 41700").Return(contres, nil).Once()

		place, err := gc.Geocode(ctx, "1 Rue Test 41700")

		require.NoError(t, err)
		assert.Equal(t, contres, place)
		assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("error")), 0)
	})

	t.Run("corrupt entry is refreshed", func(t *testing.T) {
		gc, provider, srv, _ := setup(t)
		require.NoError(t, srv.Set("veloroute:geocode:contres", "{broken"))

		provider.On("Geocode", ctx, "Contres").Return(contres, nil).Once()

		place, err := gc.Geocode(ctx, "Contres")

		require.NoError(t, err)
		assert.Equal(t, contres, place)
	})
}
