package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks document ingestion.
type Metrics struct {
	UploadsTotal *prometheus.CounterVec
	UploadBytes  prometheus.Histogram
	DeletesTotal prometheus.Counter
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kycflow_document_uploads_total",
			Help: "Document uploads by outcome",
		}, []string{"outcome"}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kycflow_document_upload_bytes",
			Help:    "Size of accepted uploads",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 7),
		}),
		DeletesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "kycflow_document_deletes_total",
			Help: "Documents deleted",
		}),
	}
}

// IncrementUpload counts an upload attempt. outcome is "accepted",
// "rejected" or "failed".
func (m *Metrics) IncrementUpload(outcome string) {
	if m == nil {
		return
	}
	m.UploadsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveUploadSize(n int64) {
	if m == nil {
		return
	}
	m.UploadBytes.Observe(float64(n))
}

func (m *Metrics) IncrementDelete() {
	if m == nil {
		return
	}
	m.DeletesTotal.Inc()
}
