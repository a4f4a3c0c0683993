package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks reviewer activity on cases.
type Metrics struct {
	DecisionsTotal    *prometheus.CounterVec
	ReviewsTotal      *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec
}

// New creates case metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kycflow_case_decisions_total",
			Help: "Reviewer decisions applied to cases",
		}, []string{"decision"}),
		ReviewsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kycflow_case_reviews_total",
			Help: "Bank statement and occupation form reviews by outcome",
		}, []string{"kind", "status"}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kycflow_case_status_transitions_total",
			Help: "Automatic case status transitions",
		}, []string{"from", "to"}),
	}
}

func (m *Metrics) IncrementDecision(decision string) {
	if m == nil {
		return
	}
	m.DecisionsTotal.WithLabelValues(decision).Inc()
}

// IncrementReview counts a review; kind is "bank_statement" or "occupation_form".
func (m *Metrics) IncrementReview(kind, status string) {
	if m == nil {
		return
	}
	m.ReviewsTotal.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) IncrementTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}
