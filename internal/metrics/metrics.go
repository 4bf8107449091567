package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	SourceFetchesTotal     prometheus.Counter
	SourceFetchErrorsTotal prometheus.Counter

	CurrenciesNotFoundTotal prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_cache_hits_total",
				Help: "Total number of rate requests served from the cached snapshot",
			},
		),

		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_cache_misses_total",
				Help: "Total number of rate requests that found no fresh snapshot",
			},
		),

		SourceFetchesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "source_fetches_total",
				Help: "Total number of upstream rate fetches issued",
			},
		),

		SourceFetchErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "source_fetch_errors_total",
				Help: "Total number of upstream rate fetches that failed",
			},
		),

		CurrenciesNotFoundTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "currencies_not_found_total",
				Help: "Total number of requested currencies absent from the source snapshot",
			},
		),
	}
}
