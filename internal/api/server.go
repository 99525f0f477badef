// Package api exposes the POI and route stores over HTTP/JSON.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the API routes on top of the request middlewares.
func NewRouter(h *Handlers, log *slog.Logger) http.Handler {
	mux := chi.NewRouter()

	mux.Use(chimw.RealIP)
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(Logger(log))

	mux.Route("/api", func(r chi.Router) {
		r.Get("/pois", h.listPois)
		r.Post("/pois", h.savePoi)
		r.Delete("/pois/{id}", h.deletePoi)
		r.Post("/pois/{id}/select", h.selectPoi)

		r.Get("/route", h.getRoute)
		r.Put("/route", h.putRoute)
		r.Get("/route/path", h.routePath)
		r.Put("/route/logos/urls", h.replaceLogoURLs)
		r.Post("/route/logos", h.uploadLogos)
		r.Delete("/route/logos/{index}", h.deleteLogo)

		r.Get("/viewport", h.viewport)
		r.Post("/geocode", h.geocode)
	})

	return mux
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Logger writes one structured line per request.
func Logger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}

			log.InfoContext(r.Context(), "http_request",
				"route", route,
				"method", r.Method,
				"status", status,
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}
