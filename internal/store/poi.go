package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/UnknownOlympus/veloroute/internal/metrics"
	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/UnknownOlympus/veloroute/internal/repository"
)

// PoiStore is the in-memory POI collection kept in sync with the gateway.
// Only gateway-confirmed writes change the collection.
type PoiStore struct {
	gateway repository.Interface
	log     *slog.Logger
	metrics *metrics.Metrics

	mu   sync.RWMutex
	pois []models.Poi
}

// NewPoiStore creates an empty store backed by gateway.
func NewPoiStore(gateway repository.Interface, log *slog.Logger, metrics *metrics.Metrics) *PoiStore {
	return &PoiStore{gateway: gateway, log: log, metrics: metrics}
}

// Load replaces the collection with the gateway contents, in load order.
func (ps *PoiStore) Load(ctx context.Context) error {
	pois, err := ps.gateway.LoadAllPois(ctx)
	if err != nil {
		ps.observe("load", err)
		return fmt.Errorf("%w: failed to load pois: %w", models.ErrPersistence, err)
	}

	ps.mu.Lock()
	ps.pois = pois
	ps.mu.Unlock()

	ps.observe("load", nil)
	ps.metrics.PoisLoaded.Set(float64(len(pois)))
	ps.log.InfoContext(ctx, "POIs loaded", "count", len(pois))

	return nil
}

// List returns a copy of the collection in load order.
func (ps *PoiStore) List() []models.Poi {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return slices.Clone(ps.pois)
}

// Get returns the POI with the given id.
func (ps *PoiStore) Get(id string) (models.Poi, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if i := ps.indexOf(id); i >= 0 {
		return ps.pois[i], true
	}
	return models.Poi{}, false
}

// Save creates or updates poi through the gateway and returns the stored value.
// On failure the collection is left unchanged.
func (ps *PoiStore) Save(ctx context.Context, poi models.Poi) (models.Poi, error) {
	if err := poi.Validate(); err != nil {
		return models.Poi{}, err
	}

	id, err := ps.gateway.UpsertPoi(ctx, poi)
	if err != nil {
		ps.observe("save", err)
		ps.log.ErrorContext(ctx, "Failed to save POI", "id", poi.ID, "name", poi.Name, "error", err)
		return models.Poi{}, fmt.Errorf("%w: failed to save poi: %w", models.ErrPersistence, err)
	}
	if poi.IsNew() {
		poi.ID = id
	}

	ps.mu.Lock()
	if i := ps.indexOf(poi.ID); i >= 0 {
		ps.pois[i] = poi
	} else {
		ps.pois = append(ps.pois, poi)
	}
	count := len(ps.pois)
	ps.mu.Unlock()

	ps.observe("save", nil)
	ps.metrics.PoisLoaded.Set(float64(count))

	return poi, nil
}

// Delete removes the POI once the gateway confirms the deletion.
func (ps *PoiStore) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: poi id is required", models.ErrValidation)
	}

	if err := ps.gateway.DeletePoi(ctx, id); err != nil {
		ps.observe("delete", err)
		ps.log.ErrorContext(ctx, "Failed to delete POI", "id", id, "error", err)
		return fmt.Errorf("%w: failed to delete poi: %w", models.ErrPersistence, err)
	}

	ps.mu.Lock()
	ps.pois = slices.DeleteFunc(ps.pois, func(p models.Poi) bool { return p.ID == id })
	count := len(ps.pois)
	ps.mu.Unlock()

	ps.observe("delete", nil)
	ps.metrics.PoisLoaded.Set(float64(count))

	return nil
}

// indexOf must be called with mu held.
func (ps *PoiStore) indexOf(id string) int {
	return slices.IndexFunc(ps.pois, func(p models.Poi) bool { return p.ID == id })
}

func (ps *PoiStore) observe(op string, err error) {
	ps.metrics.StoreOperations.WithLabelValues("poi", op, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
