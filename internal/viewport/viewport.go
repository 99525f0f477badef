// Package viewport computes the padded map region enclosing a set of coordinates.
package viewport

import (
	"sync"

	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/twpayne/go-geom"
)

// DefaultPadding is the margin, in degrees, added to every side of a fitted region.
const DefaultPadding = 0.005

// Region is an axis-aligned lat/lng box.
type Region struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLng float64 `json:"minLng"`
	MaxLng float64 `json:"maxLng"`
}

// Compute returns the bounding region of points grown by padding degrees on each side.
// It reports false for an empty input.
func Compute(points []models.Coordinate, padding float64) (Region, bool) {
	if len(points) == 0 {
		return Region{}, false
	}

	coords := make([]geom.Coord, 0, len(points))
	for _, p := range points {
		coords = append(coords, geom.Coord{p.Lng, p.Lat})
	}

	bounds := geom.NewMultiPoint(geom.XY).MustSetCoords(coords).Bounds()

	return Region{
		MinLat: bounds.Min(1) - padding,
		MaxLat: bounds.Max(1) + padding,
		MinLng: bounds.Min(0) - padding,
		MaxLng: bounds.Max(0) + padding,
	}, true
}

// Center returns the midpoint of the region.
func (r Region) Center() models.Coordinate {
	return models.Coordinate{Lat: (r.MinLat + r.MaxLat) / 2, Lng: (r.MinLng + r.MaxLng) / 2}
}

// Contains reports whether c lies inside the region, edges included.
func (r Region) Contains(c models.Coordinate) bool {
	return c.Lat >= r.MinLat && c.Lat <= r.MaxLat && c.Lng >= r.MinLng && c.Lng <= r.MaxLng
}

// Viewport is the region currently shown by one map session.
type Viewport struct {
	mu      sync.RWMutex
	padding float64
	region  Region
	set     bool
}

func New(padding float64) *Viewport {
	return &Viewport{padding: padding}
}

// Fit moves the viewport onto points. An empty input leaves the viewport where it was.
func (v *Viewport) Fit(points []models.Coordinate) bool {
	region, ok := Compute(points, v.padding)
	if !ok {
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.region, v.set = region, true
	return true
}

// Region returns the current region, if one has been fitted.
func (v *Viewport) Region() (Region, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.region, v.set
}
