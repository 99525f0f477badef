package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/UnknownOlympus/veloroute/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps geocoding services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = fmt.Errorf("get empty response from Google Maps API: %w", ErrNoResults)

// NewGoogleProvider wraps an initialized Google Maps client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode takes a context and a free-text query and returns the coordinates and locality
// of the first result of the Google Maps Geocoding API.
func (gp *GoogleProvider) Geocode(ctx context.Context, query string) (*models.Place, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "query", query)

	req := maps.GeocodingRequest{Address: query, Region: "fr", Language: "fr"}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrEmptyResponse
	}
	top := geocodeResponse[0]
	coords := top.Geometry.Location

	return &models.Place{
		Coordinate: models.Coordinate{Lat: coords.Lat, Lng: coords.Lng},
		City:       locality(top.AddressComponents),
	}, nil
}

// locality returns the long name of the first "locality" component, if any.
func locality(components []maps.AddressComponent) string {
	for _, c := range components {
		if slices.Contains(c.Types, "locality") {
			return c.LongName
		}
	}
	return ""
}
