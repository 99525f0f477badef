package service

import (
	"sync"

	"github.com/UnknownOlympus/veloroute/internal/models"
)

// Selection is the POI currently opened in the detail view of one session.
type Selection struct {
	mu  sync.RWMutex
	poi *models.Poi
}

func NewSelection() *Selection {
	return &Selection{}
}

// Select makes poi the current selection.
func (s *Selection) Select(poi models.Poi) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poi = &poi
}

// Clear drops the current selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poi = nil
}

// Current returns the selected POI, if any.
func (s *Selection) Current() (models.Poi, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.poi == nil {
		return models.Poi{}, false
	}
	return *s.poi, true
}

// Update refreshes the selection with poi when it is still the selected id.
func (s *Selection) Update(poi models.Poi) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poi == nil || s.poi.ID != poi.ID {
		return false
	}
	s.poi = &poi
	return true
}
