package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SuggestionQueries   *prometheus.CounterVec
	PlacesResolved      *prometheus.CounterVec
	GeolocationAttempts *prometheus.CounterVec
	APIErrors           *prometheus.CounterVec
	RequestSeconds      *prometheus.HistogramVec
	ActiveLookups       prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		SuggestionQueries: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "proteus_suggestion_queries_total",
			Help: "Total number of autocomplete suggestion queries.",
		}, []string{"outcome"}),
		PlacesResolved: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "proteus_places_resolved_total",
			Help: "Total number of suggestion selections resolved to a place.",
		}, []string{"outcome"}),
		GeolocationAttempts: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "proteus_geolocation_attempts_total",
			Help: "Total number of device geolocation attempts.",
		}, []string{"outcome"}),
		APIErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "proteus_provider_api_errors_total",
			Help: "Total number of errors received from the places provider API.",
		}, []string{"provider"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "proteus_provider_request_duration_seconds",
			Help:    "Duration of requests to the places provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
		ActiveLookups: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "proteus_active_lookups",
			Help: "Current number of in-flight provider lookups.",
		}),
	}
}
