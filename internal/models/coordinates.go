package models

import "math"

// Coordinate represents a geographical point in WGS-84 degrees.
type Coordinate struct {
	Lat float64 `json:"lat"` // Latitude of the geographical point.
	Lng float64 `json:"lng"` // Longitude of the geographical point.
}

// DefaultFormPosition is the coordinate a fresh POI draft starts from (Selles-sur-Cher).
var DefaultFormPosition = Coordinate{Lat: 47.2750, Lng: 1.5540}

// Valid reports whether the coordinate is finite and inside WGS-84 ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Place is a resolved address: the top-ranked coordinate and its canonical city name.
type Place struct {
	Coordinate
	City string `json:"city"`
}
