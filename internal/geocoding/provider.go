package geocoding

import (
	"context"
	"errors"
	"net/http"

	"github.com/UnknownOlympus/veloroute/internal/models"
)

// Provider is an interface that defines a method for geocoding a free-text query.
// Geocode issues a single lookup and returns the top-ranked candidate only.
// Providers return an error wrapping ErrNoResults when the candidate list is empty.
type Provider interface {
	Geocode(ctx context.Context, query string) (*models.Place, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrNoResults is wrapped by every provider's empty-response error.
var ErrNoResults = errors.New("geocoding returned no results")
