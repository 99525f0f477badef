package models

import "errors"

// Error taxonomy shared by the stores, the resolver and the enricher.
// Callers match with errors.Is; the concrete cause is wrapped behind the sentinel.
var (
	// ErrValidation means caller-supplied input is insufficient. Never retried.
	ErrValidation = errors.New("validation error")
	// ErrNotFound means the resolver found nothing for the query.
	ErrNotFound = errors.New("address not found")
	// ErrResolverUnavailable means the geocoding service could not be reached or failed.
	ErrResolverUnavailable = errors.New("geocoding service unavailable")
	// ErrPersistence means the remote store rejected or failed a call.
	ErrPersistence = errors.New("persistence error")
	// ErrEnrichmentUnavailable means the text-generation service failed.
	ErrEnrichmentUnavailable = errors.New("enrichment service unavailable")
)
