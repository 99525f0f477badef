package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/UnknownOlympus/veloroute/internal/service"
)

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, models.ErrResolverUnavailable),
		errors.Is(err, models.ErrPersistence),
		errors.Is(err, models.ErrEnrichmentUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeProblem(w http.ResponseWriter, log *slog.Logger, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	body := problem{Type: "about:blank", Title: http.StatusText(status), Status: status, Detail: detail}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("write JSON problem response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	writeProblem(w, log, statusFor(err), err.Error())
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("write JSON response failed", "error", err)
	}
}
