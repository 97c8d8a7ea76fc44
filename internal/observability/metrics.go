package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments the service exports on /metrics.
type Metrics struct {
	ParsesTotal     prometheus.Counter
	ParseDuration   prometheus.Histogram
	TaggerFallbacks prometheus.Counter
	UnknownTerms    prometheus.Counter
	TableReloads    *prometheus.CounterVec
}

// NewMetrics registers the service instruments with reg and returns them.
// Pass prometheus.DefaultRegisterer outside of tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ParsesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "talentquery_parses_total",
			Help: "Number of queries parsed.",
		}),
		ParseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "talentquery_parse_duration_seconds",
			Help:    "Wall time spent parsing one query.",
			Buckets: prometheus.DefBuckets,
		}),
		TaggerFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "talentquery_tagger_fallbacks_total",
			Help: "Times the LLM tagger failed and the keyword tagger was used instead.",
		}),
		UnknownTerms: factory.NewCounter(prometheus.CounterOpts{
			Name: "talentquery_unknown_terms_total",
			Help: "Entity terms not present in the lookup tables, recorded for curation.",
		}),
		TableReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "talentquery_table_reloads_total",
			Help: "Lookup table reload attempts by result.",
		}, []string{"result"}),
	}
}

// ObserveReload counts one table reload attempt.
func (m *Metrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.TableReloads.WithLabelValues(result).Inc()
}
