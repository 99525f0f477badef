package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/veloroute/internal/metrics"
	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/UnknownOlympus/veloroute/internal/repository"
)

// RouteStore holds the route summary and partner logos.
// Updates are optimistic: the local copy changes before the remote write.
type RouteStore struct {
	gateway repository.Interface
	log     *slog.Logger
	metrics *metrics.Metrics

	mu   sync.RWMutex
	info *models.RouteInfo
}

func NewRouteStore(gateway repository.Interface, log *slog.Logger, metrics *metrics.Metrics) *RouteStore {
	return &RouteStore{gateway: gateway, log: log, metrics: metrics}
}

// Load fetches the remote record. A missing record leaves the store empty.
func (rs *RouteStore) Load(ctx context.Context) error {
	info, err := rs.gateway.LoadRouteInfo(ctx)
	if errors.Is(err, repository.ErrRouteInfoNotFound) {
		rs.log.InfoContext(ctx, "No route info stored yet")
		rs.observe("load", nil)
		return nil
	}
	if err != nil {
		rs.observe("load", err)
		return fmt.Errorf("%w: failed to load route info: %w", models.ErrPersistence, err)
	}

	rs.mu.Lock()
	rs.info = &info
	rs.mu.Unlock()

	rs.observe("load", nil)
	return nil
}

// Get returns the current route info and whether one exists.
func (rs *RouteStore) Get() (models.RouteInfo, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	if rs.info == nil {
		return models.RouteInfo{}, false
	}
	info := *rs.info
	info.PartnerLogos = append(models.Logos(nil), rs.info.PartnerLogos...)
	return info, true
}

// Update replaces the whole record locally, then writes it to the gateway.
// The local copy stays updated when the write fails.
func (rs *RouteStore) Update(ctx context.Context, info models.RouteInfo) error {
	info.PartnerLogos = append(models.Logos(nil), info.PartnerLogos...)

	rs.mu.Lock()
	rs.info = &info
	rs.mu.Unlock()

	if err := rs.gateway.SaveRouteInfo(ctx, info); err != nil {
		rs.observe("update", err)
		rs.log.ErrorContext(ctx, "Failed to save route info", "error", err)
		return fmt.Errorf("%w: failed to save route info: %w", models.ErrPersistence, err)
	}

	rs.observe("update", nil)
	return nil
}

func (rs *RouteStore) observe(op string, err error) {
	rs.metrics.StoreOperations.WithLabelValues("route", op, status(err)).Inc()
}
