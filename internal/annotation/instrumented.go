package annotation

import (
	"context"
	"log/slog"
	"time"

	"kycflow/internal/annotation/metrics"
	"kycflow/internal/cases/models"
	"kycflow/pkg/requestcontext"
)

// Instrumented records latency and outcome for every call to inner.
type Instrumented struct {
	inner   Annotator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewInstrumented(inner Annotator, m *metrics.Metrics, logger *slog.Logger) *Instrumented {
	if logger == nil {
		logger = slog.Default()
	}
	return &Instrumented{inner: inner, metrics: m, logger: logger}
}

func (a *Instrumented) Classify(ctx context.Context, in Input) (*models.Classification, error) {
	start := time.Now()
	res, err := a.inner.Classify(ctx, in)
	a.record(ctx, "classify", in, start, err)
	return res, err
}

func (a *Instrumented) Extract(ctx context.Context, in Input) (*models.Extraction, error) {
	start := time.Now()
	res, err := a.inner.Extract(ctx, in)
	a.record(ctx, "extract", in, start, err)
	return res, err
}

func (a *Instrumented) record(ctx context.Context, op string, in Input, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(CategoryOf(err))
	}
	a.metrics.ObserveCall(op, outcome, start)
	a.logger.DebugContext(ctx, "annotation call",
		"request_id", requestcontext.RequestID(ctx),
		"operation", op,
		"case_id", in.CaseID.String(),
		"document_id", in.DocumentID.String(),
		"outcome", outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
