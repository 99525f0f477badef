package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/UnknownOlympus/veloroute/internal/geocoding"
	"github.com/UnknownOlympus/veloroute/internal/metrics"
	"github.com/UnknownOlympus/veloroute/internal/models"
)

// AddressResolver converts a POI form address into a coordinate and a city.
type AddressResolver struct {
	log          *slog.Logger       // Logger for resolver activity
	provider     geocoding.Provider // External geocoding service
	providerName string             // Provider name for metrics labeling
	metrics      *metrics.Metrics
}

// NewAddressResolver creates a resolver issuing one provider request per lookup.
func NewAddressResolver(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
) *AddressResolver {
	return &AddressResolver{
		log:          log,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
	}
}

// Resolve validates the query, issues a single lookup and returns the top-ranked place.
// Errors wrap models.ErrValidation, models.ErrNotFound or models.ErrResolverUnavailable.
func (ar *AddressResolver) Resolve(ctx context.Context, query models.AddressQuery) (models.Place, error) {
	if err := query.Validate(); err != nil {
		ar.metrics.GeocodeRequests.WithLabelValues("invalid").Inc()
		return models.Place{}, err
	}

	text := query.String()
	ar.log.DebugContext(ctx, "Resolving address", "query", text, "provider", ar.providerName)

	startTime := time.Now()
	place, err := ar.provider.Geocode(ctx, text)
	ar.metrics.RequestSeconds.WithLabelValues(ar.providerName).Observe(time.Since(startTime).Seconds())

	switch {
	case errors.Is(err, geocoding.ErrNoResults), err == nil && place == nil:
		ar.metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
		ar.log.InfoContext(ctx, "Address not found", "query", text)
		return models.Place{}, fmt.Errorf("%w: %q", models.ErrNotFound, text)
	case err != nil:
		ar.metrics.GeocodeRequests.WithLabelValues("failure").Inc()
		ar.log.ErrorContext(ctx, "Failed to geocode", "query", text, "error", err)
		return models.Place{}, fmt.Errorf("%w: %w", models.ErrResolverUnavailable, err)
	}

	ar.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	return *place, nil
}

// GeocodeSession serializes the lookups of one POI form.
// Every request takes a new token; only the latest token's result is delivered.
type GeocodeSession struct {
	resolver *AddressResolver
	latest   atomic.Uint64
}

func NewGeocodeSession(resolver *AddressResolver) *GeocodeSession {
	return &GeocodeSession{resolver: resolver}
}

// Resolve looks the query up and returns ErrSuperseded if a newer request was issued meanwhile.
// Invalid queries are rejected without taking a token.
func (gs *GeocodeSession) Resolve(ctx context.Context, query models.AddressQuery) (models.Place, error) {
	if err := query.Validate(); err != nil {
		return models.Place{}, err
	}

	token := gs.latest.Add(1)
	place, err := gs.resolver.Resolve(ctx, query)
	if gs.latest.Load() != token {
		return models.Place{}, ErrSuperseded
	}

	return place, err
}

// Apply resolves the draft's address fields and writes the result into it.
// The draft is left untouched on any error, stale results included.
func (gs *GeocodeSession) Apply(ctx context.Context, draft *models.Poi) error {
	place, err := gs.Resolve(ctx, models.QueryFromPoi(*draft))
	if err != nil {
		return err
	}

	draft.Position = place.Coordinate
	if place.City != "" {
		draft.City = place.City
	}

	return nil
}
