package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	GeocodeRequests *prometheus.CounterVec
	RequestSeconds  *prometheus.HistogramVec
	GeocodeCache    *prometheus.CounterVec
	Enrichments     *prometheus.CounterVec
	StoreOperations *prometheus.CounterVec
	PoisLoaded      prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		GeocodeRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "veloroute_geocode_requests_total",
			Help: "Total number of address resolutions by outcome.",
		}, []string{"status"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veloroute_external_request_duration_seconds",
			Help:    "Duration of requests to external geocoding and text-generation services.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service"}),
		GeocodeCache: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "veloroute_geocode_cache_total",
			Help: "Geocode cache lookups by result.",
		}, []string{"result"}),
		Enrichments: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "veloroute_description_enrichments_total",
			Help: "Description enrichment attempts by outcome.",
		}, []string{"status"}),
		StoreOperations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "veloroute_store_operations_total",
			Help: "POI and route store operations by outcome.",
		}, []string{"store", "op", "status"}),
		PoisLoaded: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "veloroute_pois",
			Help: "Current number of POIs held by the store.",
		}),
	}
}
