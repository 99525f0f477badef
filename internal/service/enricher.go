package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/veloroute/internal/metrics"
	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/UnknownOlympus/veloroute/internal/textgen"
)

// FallbackDescription is shown when a description could not be generated. It is never persisted.
const FallbackDescription = "Description non disponible (Hors ligne)."

const textgenService = "textgen"

// PoiSaver persists a POI and returns the stored value.
type PoiSaver interface {
	Save(ctx context.Context, poi models.Poi) (models.Poi, error)
}

type attemptState int

const (
	attemptPending attemptState = iota
	attemptFailed
	attemptDone
)

// DescriptionEnricher fills in missing POI descriptions with generated text.
// Each POI id gets at most one generation request for the lifetime of the enricher.
type DescriptionEnricher struct {
	generator textgen.Generator
	pois      PoiSaver
	log       *slog.Logger
	metrics   *metrics.Metrics

	mu       sync.Mutex
	attempts map[string]attemptState
}

func NewDescriptionEnricher(
	generator textgen.Generator,
	pois PoiSaver,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *DescriptionEnricher {
	return &DescriptionEnricher{
		generator: generator,
		pois:      pois,
		log:       log,
		metrics:   metrics,
		attempts:  make(map[string]attemptState),
	}
}

// Describe returns the text to display for the selected POI.
//
// A POI that already has a description is returned as is. Otherwise the first call for an id
// generates a description and saves it onto the still-selected POI. Later calls for the same id
// issue no request and return FallbackDescription if the attempt failed, or "" otherwise.
// On generation failure the fallback is returned together with an error wrapping
// models.ErrEnrichmentUnavailable. If the selection moved while generating, ErrSuperseded is
// returned and nothing is written.
func (de *DescriptionEnricher) Describe(ctx context.Context, sel *Selection) (string, error) {
	poi, ok := sel.Current()
	if !ok {
		return "", fmt.Errorf("%w: no poi selected", models.ErrValidation)
	}
	if !poi.NeedsDescription() {
		return poi.Description, nil
	}

	if state, attempted := de.begin(poi.ID); attempted {
		if state == attemptFailed {
			return FallbackDescription, nil
		}
		return "", nil
	}

	de.log.DebugContext(ctx, "Generating description", "id", poi.ID, "name", poi.Name)

	startTime := time.Now()
	text, err := de.generator.PoiDescription(ctx, poi.Name, poi.Type, poi.City)
	de.metrics.RequestSeconds.WithLabelValues(textgenService).Observe(time.Since(startTime).Seconds())
	if err != nil {
		de.finish(poi.ID, attemptFailed)
		de.metrics.Enrichments.WithLabelValues("failure").Inc()
		de.log.WarnContext(ctx, "Description generation failed", "id", poi.ID, "error", err)
		return FallbackDescription, fmt.Errorf("%w: %w", models.ErrEnrichmentUnavailable, err)
	}

	current, ok := sel.Current()
	if !ok || current.ID != poi.ID {
		de.finish(poi.ID, attemptDone)
		de.metrics.Enrichments.WithLabelValues("superseded").Inc()
		de.log.InfoContext(ctx, "Discarding description for deselected POI", "id", poi.ID)
		return "", ErrSuperseded
	}

	current.Description = text
	saved, err := de.pois.Save(ctx, current)
	if err != nil {
		de.finish(poi.ID, attemptFailed)
		de.metrics.Enrichments.WithLabelValues("failure").Inc()
		return text, err
	}

	de.finish(poi.ID, attemptDone)
	de.metrics.Enrichments.WithLabelValues("success").Inc()
	sel.Update(saved)

	return saved.Description, nil
}

// begin records a pending attempt for id unless one already exists.
func (de *DescriptionEnricher) begin(id string) (attemptState, bool) {
	de.mu.Lock()
	defer de.mu.Unlock()

	if state, ok := de.attempts[id]; ok {
		return state, true
	}
	de.attempts[id] = attemptPending
	return attemptPending, false
}

func (de *DescriptionEnricher) finish(id string, state attemptState) {
	de.mu.Lock()
	defer de.mu.Unlock()
	de.attempts[id] = state
}
