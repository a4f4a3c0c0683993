package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers calls to the annotation provider.
type Metrics struct {
	CallDuration *prometheus.HistogramVec
	CallOutcomes *prometheus.CounterVec
	CacheLookups *prometheus.CounterVec
	BreakerOpen  prometheus.Gauge
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kycflow_annotation_duration_seconds",
			Help:    "Duration of annotation calls (classify, extract)",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
		CallOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kycflow_annotation_calls_total",
			Help: "Annotation calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kycflow_annotation_cache_lookups_total",
			Help: "Annotation cache lookups by operation and result",
		}, []string{"operation", "result"}),
		BreakerOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "kycflow_annotation_breaker_open",
			Help: "1 while the annotation circuit breaker is open",
		}),
	}
}

// ObserveCall records one call; outcome is "ok" or an error category.
func (m *Metrics) ObserveCall(op, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.CallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.CallOutcomes.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) ObserveCacheLookup(op string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(op, result).Inc()
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}
