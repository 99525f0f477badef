package textgen

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/veloroute/internal/models"
)

// Generator produces short tourist descriptions for points of interest.
// One call is one request to the text-generation service; only the final text is consumed.
type Generator interface {
	PoiDescription(ctx context.Context, name string, poiType models.PoiType, city string) (string, error)
}

// ErrEmptyCompletion is returned when the service answers without any text.
var ErrEmptyCompletion = errors.New("text generation returned an empty completion")

// ErrGeneratorDisabled is returned by Offline.
var ErrGeneratorDisabled = errors.New("text generation is not configured")

// Offline is the generator used when no text-generation service is configured.
// Every request fails, so callers fall back to their offline text.
type Offline struct{}

func (Offline) PoiDescription(context.Context, string, models.PoiType, string) (string, error) {
	return "", ErrGeneratorDisabled
}
