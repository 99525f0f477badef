package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/UnknownOlympus/veloroute/internal/api"
	"github.com/UnknownOlympus/veloroute/internal/geocoding"
	"github.com/UnknownOlympus/veloroute/internal/metrics"
	"github.com/UnknownOlympus/veloroute/internal/models"
	"github.com/UnknownOlympus/veloroute/internal/service"
	"github.com/UnknownOlympus/veloroute/internal/store"
	"github.com/UnknownOlympus/veloroute/internal/viewport"
	"github.com/UnknownOlympus/veloroute/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type fixture struct {
	router    http.Handler
	gateway   *mocks.Interface
	provider  *mocks.Provider
	generator *mocks.Generator
	pois      *store.PoiStore
	route     *store.RouteStore
}

func village(id string) models.Poi {
	return models.Poi{
		ID:       id,
		Name:     "Gièvres",
		Type:     models.PoiTypeVillage,
		Position: models.Coordinate{Lat: 47.2781, Lng: 1.6689},
		City:     "Gièvres",
	}
}

func newFixture(t *testing.T, pois ...models.Poi) fixture {
	t.Helper()

	log := slog.Default()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	gateway := mocks.NewInterface(t)
	provider := mocks.NewProvider(t)
	generator := mocks.NewGenerator(t)

	poiStore := store.NewPoiStore(gateway, log, m)
	routeStore := store.NewRouteStore(gateway, log, m)
	gateway.On("LoadAllPois", mock.Anything).Return(pois, nil).Once()
	require.NoError(t, poiStore.Load(t.Context()))

	h := &api.Handlers{
		Pois:      poiStore,
		Route:     routeStore,
		Path:      models.DefaultRoutePath(),
		Geocoder:  service.NewGeocodeSession(service.NewAddressResolver(log, provider, "ban", m)),
		Enricher:  service.NewDescriptionEnricher(generator, poiStore, log, m),
		Selection: service.NewSelection(),
		Viewport:  viewport.New(viewport.DefaultPadding),
		Log:       log,
	}

	return fixture{
		router:    api.NewRouter(h, log),
		gateway:   gateway,
		provider:  provider,
		generator: generator,
		pois:      poiStore,
		route:     routeStore,
	}
}

func (f fixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, target, &payload)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestPoiRoutes(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		fx := newFixture(t, village("a"), village("b"))

		rec := fx.do(t, http.MethodGet, "/api/pois", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		pois := decodeBody[[]models.Poi](t, rec)
		require.Len(t, pois, 2)
		assert.Equal(t, "a", pois[0].ID)
	})

	t.Run("create", func(t *testing.T) {
		fx := newFixture(t)
		draft := village("")
		fx.gateway.On("UpsertPoi", mock.Anything, draft).Return("generated", nil).Once()

		rec := fx.do(t, http.MethodPost, "/api/pois", draft)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "generated", decodeBody[models.Poi](t, rec).ID)
	})

	t.Run("invalid poi", func(t *testing.T) {
		fx := newFixture(t)

		rec := fx.do(t, http.MethodPost, "/api/pois", models.Poi{Name: "x", Type: "museum"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	})

	t.Run("persistence failure", func(t *testing.T) {
		fx := newFixture(t, village("a"))
		fx.gateway.On("UpsertPoi", mock.Anything, mock.Anything).Return("", assert.AnError).Once()

		rec := fx.do(t, http.MethodPost, "/api/pois", village("a"))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		fx := newFixture(t, village("a"))
		fx.gateway.On("DeletePoi", mock.Anything, "a").Return(nil).Once()

		rec := fx.do(t, http.MethodDelete, "/api/pois/a", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, fx.pois.List())
	})
}

func TestSelectPoi(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		fx := newFixture(t)

		rec := fx.do(t, http.MethodPost, "/api/pois/missing/select", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("generates and saves description", func(t *testing.T) {
		poi := village("a")
		fx := newFixture(t, poi)
		fx.generator.On("PoiDescription", mock.Anything, poi.Name, poi.Type, poi.City).
			Return("Village fleuri.", nil).Once()
		fx.gateway.On("UpsertPoi", mock.Anything, mock.Anything).Return("a", nil).Once()

		rec := fx.do(t, http.MethodPost, "/api/pois/a/select", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "Village fleuri.", body["description"])
		assert.Nil(t, body["fallback"])
	})

	t.Run("generation failure degrades to fallback", func(t *testing.T) {
		poi := village("a")
		fx := newFixture(t, poi)
		fx.generator.On("PoiDescription", mock.Anything, poi.Name, poi.Type, poi.City).
			Return("", assert.AnError).Once()

		rec := fx.do(t, http.MethodPost, "/api/pois/a/select", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, service.FallbackDescription, body["description"])
		assert.Equal(t, true, body["fallback"])

		rec = fx.do(t, http.MethodPost, "/api/pois/a/select", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		fx.generator.AssertNumberOfCalls(t, "PoiDescription", 1)
	})
}

func TestRouteRoutes(t *testing.T) {
	t.Run("absent route info", func(t *testing.T) {
		fx := newFixture(t)

		rec := fx.do(t, http.MethodGet, "/api/route", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("put then get", func(t *testing.T) {
		fx := newFixture(t)
		info := models.RouteInfo{Distance: "18 km", PartnerLogos: models.Logos{models.URLLogo("https://example.org/a.png")}}
		fx.gateway.On("SaveRouteInfo", mock.Anything, info).Return(nil).Once()

		rec := fx.do(t, http.MethodPut, "/api/route", info)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = fx.do(t, http.MethodGet, "/api/route", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "18 km", got["distance"])
		assert.Equal(t, []any{"https://example.org/a.png"}, got["partnerLogos"])
	})

	t.Run("failed write keeps local copy", func(t *testing.T) {
		fx := newFixture(t)
		fx.gateway.On("SaveRouteInfo", mock.Anything, mock.Anything).Return(assert.AnError).Once()

		rec := fx.do(t, http.MethodPut, "/api/route", models.RouteInfo{Duration: "2h"})

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		info, ok := fx.route.Get()
		require.True(t, ok)
		assert.Equal(t, "2h", info.Duration)
	})

	t.Run("replace logo urls keeps inline logos", func(t *testing.T) {
		fx := newFixture(t)
		fx.gateway.On("SaveRouteInfo", mock.Anything, mock.Anything).Return(nil)
		start := models.RouteInfo{PartnerLogos: models.Logos{
			models.URLLogo("https://old.example/a.png"),
			models.InlineLogo("data:image/png;base64,AAAA"),
		}}
		require.NoError(t, fx.route.Update(t.Context(), start))

		rec := fx.do(t, http.MethodPut, "/api/route/logos/urls", map[string][]string{
			"urls": {"https://new.example/b.png", "", "data:text/html;base64,PHA+"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		info, _ := fx.route.Get()
		assert.Equal(t, []string{"https://new.example/b.png", "data:image/png;base64,AAAA"}, info.PartnerLogos.Strings())
	})

	t.Run("upload inline logo", func(t *testing.T) {
		fx := newFixture(t)
		fx.gateway.On("SaveRouteInfo", mock.Anything, mock.Anything).Return(nil).Once()

		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		part, err := form.CreateFormFile("logos", "logo.png")
		require.NoError(t, err)
		_, err = part.Write(pngHeader)
		require.NoError(t, err)
		require.NoError(t, form.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/route/logos", &body)
		req.Header.Set("Content-Type", form.FormDataContentType())
		rec := httptest.NewRecorder()
		fx.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		info, _ := fx.route.Get()
		require.Len(t, info.PartnerLogos, 1)
		assert.Equal(t, models.LogoInline, info.PartnerLogos[0].Kind)
		assert.True(t, strings.HasPrefix(info.PartnerLogos[0].Value, "data:image/png;base64,"))
	})

	t.Run("upload non image", func(t *testing.T) {
		fx := newFixture(t)

		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		part, err := form.CreateFormFile("logos", "notes.txt")
		require.NoError(t, err)
		_, err = part.Write([]byte("just some text"))
		require.NoError(t, err)
		require.NoError(t, form.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/route/logos", &body)
		req.Header.Set("Content-Type", form.FormDataContentType())
		rec := httptest.NewRecorder()
		fx.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete logo", func(t *testing.T) {
		fx := newFixture(t)
		fx.gateway.On("SaveRouteInfo", mock.Anything, mock.Anything).Return(nil)
		require.NoError(t, fx.route.Update(t.Context(), models.RouteInfo{PartnerLogos: models.Logos{
			models.URLLogo("https://a.example"),
			models.URLLogo("https://b.example"),
		}}))

		rec := fx.do(t, http.MethodDelete, "/api/route/logos/0", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		info, _ := fx.route.Get()
		assert.Equal(t, []string{"https://b.example"}, info.PartnerLogos.Strings())

		rec = fx.do(t, http.MethodDelete, "/api/route/logos/5", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = fx.do(t, http.MethodDelete, "/api/route/logos/x", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("route path as geojson", func(t *testing.T) {
		fx := newFixture(t)

		rec := fx.do(t, http.MethodGet, "/api/route/path", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "LineString", body["type"])
	})
}

func TestViewportRoute(t *testing.T) {
	t.Run("route scope", func(t *testing.T) {
		fx := newFixture(t)

		rec := fx.do(t, http.MethodGet, "/api/viewport?scope=route", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		region := decodeBody[viewport.Region](t, rec)
		assert.InDelta(t, 1.492724-viewport.DefaultPadding, region.MinLng, 1e-9)
		assert.InDelta(t, 1.524511+viewport.DefaultPadding, region.MaxLng, 1e-9)
	})

	t.Run("empty poi scope with no prior region", func(t *testing.T) {
		fx := newFixture(t)

		rec := fx.do(t, http.MethodGet, "/api/viewport?scope=pois", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("empty scope keeps previous region", func(t *testing.T) {
		fx := newFixture(t)

		first := fx.do(t, http.MethodGet, "/api/viewport", nil)
		require.Equal(t, http.StatusOK, first.Code)
		second := fx.do(t, http.MethodGet, "/api/viewport?scope=pois", nil)
		require.Equal(t, http.StatusOK, second.Code)

		assert.Equal(t, decodeBody[viewport.Region](t, first), decodeBody[viewport.Region](t, second))
	})

	t.Run("all scope includes pois", func(t *testing.T) {
		fx := newFixture(t, village("a"))

		rec := fx.do(t, http.MethodGet, "/api/viewport?scope=all", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		region := decodeBody[viewport.Region](t, rec)
		assert.True(t, region.Contains(village("a").Position))
	})

	t.Run("unknown scope", func(t *testing.T) {
		fx := newFixture(t)

		rec := fx.do(t, http.MethodGet, "/api/viewport?scope=world", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGeocodeRoute(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		fx := newFixture(t)
		fx.provider.On("Geocode", mock.Anything, "1 Rue Test 41700").
			Return(&models.Place{Coordinate: models.Coordinate{Lat: 47.27, Lng: 1.5}, City: "Contres"}, nil).Once()

		rec := fx.do(t, http.MethodPost, "/api/geocode", models.AddressQuery{Address: "1 Rue Test", ZipCode: "41700"})

		require.Equal(t, http.StatusOK, rec.Code)
		place := decodeBody[models.Place](t, rec)
		assert.Equal(t, "Contres", place.City)
		assert.InDelta(t, 47.27, place.Lat, 1e-9)
	})

	t.Run("not found", func(t *testing.T) {
		fx := newFixture(t)
		fx.provider.On("Geocode", mock.Anything, "nowhere").Return(nil, geocoding.ErrNoResults).Once()

		rec := fx.do(t, http.MethodPost, "/api/geocode", models.AddressQuery{Address: "nowhere"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing address", func(t *testing.T) {
		fx := newFixture(t)

		rec := fx.do(t, http.MethodPost, "/api/geocode", models.AddressQuery{City: "Contres"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service down", func(t *testing.T) {
		fx := newFixture(t)
		fx.provider.On("Geocode", mock.Anything, "1 Rue Test").Return(nil, assert.AnError).Once()

		rec := fx.do(t, http.MethodPost, "/api/geocode", models.AddressQuery{Address: "1 Rue Test"})

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
