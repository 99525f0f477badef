package models_test

import (
	"encoding/json"
	"testing"

	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoutePath(t *testing.T) {
	path := models.DefaultRoutePath()

	assert.Equal(t, "Châtillon-sur-Cher", path.Start)
	assert.Equal(t, "Gièvres", path.End)
	require.Len(t, path.Points, 30)
	assert.Equal(t, models.Coordinate{Lat: 47.271956, Lng: 1.492724}, path.Points[0])
	assert.Equal(t, models.Coordinate{Lat: 47.273287, Lng: 1.524511}, path.Points[29])
}

func TestRoutePath_GeoJSON(t *testing.T) {
	path := models.RoutePath{Points: []models.Coordinate{{Lat: 47.1, Lng: 1.5}, {Lat: 47.2, Lng: 1.6}}}

	raw, err := path.GeoJSON()
	require.NoError(t, err)

	var decoded struct {
		Type        string      `json:"type"`
		Coordinates [][]float64 `json:"coordinates"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "LineString", decoded.Type)
	assert.Equal(t, [][]float64{{1.5, 47.1}, {1.6, 47.2}}, decoded.Coordinates)
}
