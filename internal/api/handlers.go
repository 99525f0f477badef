package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/UnknownOlympus/veloroute/internal/service"
	"github.com/UnknownOlympus/veloroute/internal/store"
	"github.com/UnknownOlympus/veloroute/internal/viewport"
	"github.com/go-chi/chi/v5"
)

// maxUploadBytes bounds a whole multipart logo upload.
const maxUploadBytes = 8 * models.MaxInlineLogoBytes

// Handlers serves one editing session: a single selection, geocode session and viewport.
type Handlers struct {
	Pois      *store.PoiStore
	Route     *store.RouteStore
	Path      models.RoutePath
	Geocoder  *service.GeocodeSession
	Enricher  *service.DescriptionEnricher
	Selection *service.Selection
	Viewport  *viewport.Viewport
	Log       *slog.Logger
}

type selectResponse struct {
	Poi         models.Poi `json:"poi"`
	Description string     `json:"description"`
	Fallback    bool       `json:"fallback,omitempty"`
}

type logoURLsRequest struct {
	URLs []string `json:"urls"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %w", models.ErrValidation, err)
	}
	return nil
}

func (h *Handlers) listPois(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.Log, http.StatusOK, h.Pois.List())
}

func (h *Handlers) savePoi(w http.ResponseWriter, r *http.Request) {
	var poi models.Poi
	if err := decode(r, &poi); err != nil {
		writeError(w, h.Log, err)
		return
	}

	status := http.StatusOK
	if poi.IsNew() {
		status = http.StatusCreated
	}

	saved, err := h.Pois.Save(r.Context(), poi)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Selection.Update(saved)

	writeJSON(w, h.Log, status, saved)
}

func (h *Handlers) deletePoi(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Pois.Delete(r.Context(), id); err != nil {
		writeError(w, h.Log, err)
		return
	}

	if current, ok := h.Selection.Current(); ok && current.ID == id {
		h.Selection.Clear()
	}
	w.WriteHeader(http.StatusNoContent)
}

// selectPoi opens a POI in the detail view and fills in its description when missing.
// A failed generation still answers 200 with the fallback text.
func (h *Handlers) selectPoi(w http.ResponseWriter, r *http.Request) {
	poi, ok := h.Pois.Get(chi.URLParam(r, "id"))
	if !ok {
		writeProblem(w, h.Log, http.StatusNotFound, "poi not found")
		return
	}
	h.Selection.Select(poi)

	text, err := h.Enricher.Describe(r.Context(), h.Selection)
	if err != nil && !errors.Is(err, models.ErrEnrichmentUnavailable) {
		writeError(w, h.Log, err)
		return
	}

	current, _ := h.Selection.Current()
	writeJSON(w, h.Log, http.StatusOK, selectResponse{
		Poi:         current,
		Description: text,
		Fallback:    text == service.FallbackDescription,
	})
}

func (h *Handlers) getRoute(w http.ResponseWriter, _ *http.Request) {
	info, ok := h.Route.Get()
	if !ok {
		writeProblem(w, h.Log, http.StatusNotFound, "route info not set")
		return
	}
	writeJSON(w, h.Log, http.StatusOK, info)
}

func (h *Handlers) putRoute(w http.ResponseWriter, r *http.Request) {
	var info models.RouteInfo
	if err := decode(r, &info); err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.updateRoute(w, r, info)
}

func (h *Handlers) replaceLogoURLs(w http.ResponseWriter, r *http.Request) {
	var req logoURLsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	info, _ := h.Route.Get()
	info.PartnerLogos = info.PartnerLogos.ReplaceURLs(req.URLs)
	h.updateRoute(w, r, info)
}

// uploadLogos appends every file of the "logos" form field as an inline logo.
func (h *Handlers) uploadLogos(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeProblem(w, h.Log, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	files := r.MultipartForm.File["logos"]
	if len(files) == 0 {
		writeProblem(w, h.Log, http.StatusBadRequest, "no logo file uploaded")
		return
	}

	uploaded := make([]models.Logo, 0, len(files))
	for _, fh := range files {
		file, err := fh.Open()
		if err != nil {
			writeProblem(w, h.Log, http.StatusBadRequest, "unreadable logo file")
			return
		}
		logo, err := models.InlineLogoFromReader(file)
		_ = file.Close()
		if err != nil {
			writeError(w, h.Log, fmt.Errorf("%s: %w", fh.Filename, err))
			return
		}
		uploaded = append(uploaded, logo)
	}

	info, _ := h.Route.Get()
	info.PartnerLogos = info.PartnerLogos.AppendInline(uploaded...)
	h.updateRoute(w, r, info)
}

func (h *Handlers) deleteLogo(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeProblem(w, h.Log, http.StatusBadRequest, "index must be a number")
		return
	}

	info, _ := h.Route.Get()
	logos, err := info.PartnerLogos.Remove(index)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	info.PartnerLogos = logos
	h.updateRoute(w, r, info)
}

// updateRoute saves info; the local copy is updated even if the remote write fails.
func (h *Handlers) updateRoute(w http.ResponseWriter, r *http.Request, info models.RouteInfo) {
	if err := h.Route.Update(r.Context(), info); err != nil {
		writeError(w, h.Log, err)
		return
	}
	current, _ := h.Route.Get()
	writeJSON(w, h.Log, http.StatusOK, current)
}

func (h *Handlers) routePath(w http.ResponseWriter, _ *http.Request) {
	body, err := h.Path.GeoJSON()
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	if _, err = w.Write(body); err != nil {
		h.Log.Error("failed to write route path body", "error", err)
	}
}

// viewport fits the session viewport on the requested scope: route (default), pois or all.
// An empty scope keeps the previous region.
func (h *Handlers) viewport(w http.ResponseWriter, r *http.Request) {
	var points []models.Coordinate

	scope := r.URL.Query().Get("scope")
	switch scope {
	case "", "route":
		points = h.Path.Points
	case "pois":
		points = h.poiPositions()
	case "all":
		points = append(append(points, h.Path.Points...), h.poiPositions()...)
	default:
		writeProblem(w, h.Log, http.StatusBadRequest, "scope must be one of route, pois, all")
		return
	}

	h.Viewport.Fit(points)
	region, ok := h.Viewport.Region()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, h.Log, http.StatusOK, region)
}

func (h *Handlers) poiPositions() []models.Coordinate {
	pois := h.Pois.List()
	points := make([]models.Coordinate, 0, len(pois))
	for _, p := range pois {
		points = append(points, p.Position)
	}
	return points
}

func (h *Handlers) geocode(w http.ResponseWriter, r *http.Request) {
	var query models.AddressQuery
	if err := decode(r, &query); err != nil {
		writeError(w, h.Log, err)
		return
	}

	place, err := h.Geocoder.Resolve(r.Context(), query)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, h.Log, http.StatusOK, place)
}
