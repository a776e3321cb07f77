package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sales_commission"

// Calculation outcomes.
const (
	StatusOK           = "ok"
	StatusInvalidInput = "invalid_input"
	StatusUnavailable  = "data_unavailable"
	StatusError        = "error"
)

// CommissionMetrics holds the service instruments. A nil *CommissionMetrics
// is valid and records nothing.
type CommissionMetrics struct {
	calculations     *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	results          prometheus.Histogram
	fallbackRules    *prometheus.CounterVec
	providerFallback *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	archiveFailures  prometheus.Counter
}

// New builds the instruments and registers them on registerer. A nil
// registerer falls back to the default one.
func New(registerer prometheus.Registerer) *CommissionMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &CommissionMetrics{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Commission calculation runs by data source and outcome.",
		}, []string{"source", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "End-to-end latency of a calculation run including data fetch.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_results",
			Help:      "Salespeople reported per calculation run.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		fallbackRules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_rule_applied_total",
			Help:      "Results whose total matched no tier and used the fallback policy.",
		}, []string{"policy"}),
		providerFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_fallback_total",
			Help:      "Reads served by the static data set after the primary provider failed.",
		}, []string{"provider", "input"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Reference data cache lookups by input and result.",
		}, []string{"input", "result"}),
		archiveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_failures_total",
			Help:      "Calculation runs that could not be archived.",
		}),
	}

	registerer.MustRegister(
		m.calculations,
		m.duration,
		m.results,
		m.fallbackRules,
		m.providerFallback,
		m.cacheLookups,
		m.archiveFailures,
	)
	return m
}

// ObserveCalculation records one run.
func (m *CommissionMetrics) ObserveCalculation(source, status string, elapsed time.Duration, results int) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(source, status).Inc()
	m.duration.WithLabelValues(source).Observe(elapsed.Seconds())
	if status == StatusOK {
		m.results.Observe(float64(results))
	}
}

func (m *CommissionMetrics) AddFallbackRules(policy string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.fallbackRules.WithLabelValues(policy).Add(float64(n))
}

func (m *CommissionMetrics) IncProviderFallback(provider, input string) {
	if m == nil {
		return
	}
	m.providerFallback.WithLabelValues(provider, input).Inc()
}

// IncCacheLookup counts a hit when hit is true and a miss otherwise.
func (m *CommissionMetrics) IncCacheLookup(input string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(input, result).Inc()
}

func (m *CommissionMetrics) IncArchiveFailure() {
	if m == nil {
		return
	}
	m.archiveFailures.Inc()
}
