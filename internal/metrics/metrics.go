package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ProviderRequests *prometheus.CounterVec
	RequestSeconds   *prometheus.HistogramVec
	Resolutions      *prometheus.CounterVec
	PostalLookups    *prometheus.CounterVec
	ActiveWorkers    prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ProviderRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoding_provider_requests_total",
			Help: "Total number of candidate queries sent to a geocoding provider, by outcome.",
		}, []string{"provider", "outcome"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geocoding_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		Resolutions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "address_resolutions_total",
			Help: "Total number of address resolution attempts, by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		PostalLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "postal_lookups_total",
			Help: "Total number of postal code lookups, by outcome.",
		}, []string{"outcome"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "revalidation_active_workers",
			Help: "Current number of workers re-resolving pending submissions.",
		}),
	}
}
