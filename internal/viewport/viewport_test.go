package viewport_test

import (
	"testing"

	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/UnknownOlympus/veloroute/internal/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestCompute(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, ok := viewport.Compute(nil, viewport.DefaultPadding)
		assert.False(t, ok)
	})

	t.Run("single point is padded on every side", func(t *testing.T) {
		region, ok := viewport.Compute([]models.Coordinate{{Lat: 47.27, Lng: 1.5}}, 0.01)

		require.True(t, ok)
		assert.InDelta(t, 47.26, region.MinLat, eps)
		assert.InDelta(t, 47.28, region.MaxLat, eps)
		assert.InDelta(t, 1.49, region.MinLng, eps)
		assert.InDelta(t, 1.51, region.MaxLng, eps)
	})

	t.Run("route path", func(t *testing.T) {
		path := models.DefaultRoutePath().Points
		region, ok := viewport.Compute(path, 0)

		require.True(t, ok)
		for _, p := range path {
			assert.True(t, region.Contains(p), p)
		}
		assert.InDelta(t, 1.492724, region.MinLng, eps)
	})

	t.Run("idempotent", func(t *testing.T) {
		points := []models.Coordinate{{Lat: 47.27, Lng: 1.5}, {Lat: 47.3, Lng: 1.6}, {Lat: 47.25, Lng: 1.55}}

		first, _ := viewport.Compute(points, viewport.DefaultPadding)
		second, _ := viewport.Compute(points, viewport.DefaultPadding)

		assert.Equal(t, first, second)
	})

	t.Run("order independent", func(t *testing.T) {
		a := []models.Coordinate{{Lat: 47.27, Lng: 1.5}, {Lat: 47.3, Lng: 1.6}}
		b := []models.Coordinate{a[1], a[0]}

		ra, _ := viewport.Compute(a, viewport.DefaultPadding)
		rb, _ := viewport.Compute(b, viewport.DefaultPadding)

		assert.Equal(t, ra, rb)
	})
}

func TestRegion_Center(t *testing.T) {
	region := viewport.Region{MinLat: 47, MaxLat: 48, MinLng: 1, MaxLng: 2}

	center := region.Center()

	assert.InDelta(t, 47.5, center.Lat, eps)
	assert.InDelta(t, 1.5, center.Lng, eps)
	assert.False(t, region.Contains(models.Coordinate{Lat: 46.9, Lng: 1.5}))
}

func TestViewport_Fit(t *testing.T) {
	vp := viewport.New(viewport.DefaultPadding)

	_, ok := vp.Region()
	assert.False(t, ok)

	require.True(t, vp.Fit([]models.Coordinate{{Lat: 47.27, Lng: 1.5}}))
	before, ok := vp.Region()
	require.True(t, ok)

	assert.False(t, vp.Fit(nil))
	after, _ := vp.Region()
	assert.Equal(t, before, after)
}
