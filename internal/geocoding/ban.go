package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/UnknownOlympus/veloroute/internal/models"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"golang.org/x/time/rate"
)

// BANBaseURL is the search endpoint of the French national address base.
const BANBaseURL = "https://api-adresse.data.gouv.fr/search/"

// BANProvider implements geocoding using api-adresse.data.gouv.fr.
// The service answers with a GeoJSON FeatureCollection ranked by score.
type BANProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the BAN search API
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

// Common errors for BAN provider.
var (
	ErrBANEmptyResponse = fmt.Errorf("BAN API returned empty response: %w", ErrNoResults)
	ErrBANEmptyQuery    = errors.New("BAN provider got empty query")
	ErrBANInvalidCoords = errors.New("BAN API returned invalid coordinates")
)

// NewBANProvider creates a new BAN geocoding provider limited to rateLimit requests per second.
func NewBANProvider(rateLimit int, log *slog.Logger) *BANProvider {
	const timeout = 10

	return &BANProvider{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: BANBaseURL,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}
}

// NewBANProviderWithClient allows injecting custom HTTP client.
func NewBANProviderWithClient(client HTTPClient, limiter *rate.Limiter, log *slog.Logger) *BANProvider {
	return &BANProvider{
		client:  client,
		baseURL: BANBaseURL,
		log:     log,
		limiter: limiter,
	}
}

// Geocode converts a free-text address into the top-ranked coordinate and its city.
func (bp *BANProvider) Geocode(ctx context.Context, query string) (*models.Place, error) {
	if err := bp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	bp.log.DebugContext(ctx, "Geocoding using BAN", "query", query)

	if query == "" {
		return nil, ErrBANEmptyQuery
	}

	reqURL, err := url.Parse(bp.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("q", query)
	params.Set("limit", "1")
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := bp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		bp.log.ErrorContext(ctx, "BAN API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("BAN API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var collection geojson.FeatureCollection
	if err = json.Unmarshal(body, &collection); err != nil {
		return nil, fmt.Errorf("failed to decode BAN response: %w", err)
	}

	if len(collection.Features) == 0 {
		return nil, ErrBANEmptyResponse
	}

	top := collection.Features[0]
	point, ok := top.Geometry.(*geom.Point)
	if !ok || point.Empty() {
		return nil, ErrBANInvalidCoords
	}

	city, _ := top.Properties["city"].(string)
	place := &models.Place{
		Coordinate: models.Coordinate{Lat: point.Y(), Lng: point.X()},
		City:       city,
	}

	bp.log.DebugContext(ctx, "BAN found result", "query", query, "lat", place.Lat, "lng", place.Lng, "city", city)

	return place, nil
}
