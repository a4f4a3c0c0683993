package annotation

import (
	"context"
	"log/slog"

	"kycflow/internal/cases/models"
	"kycflow/pkg/platform/circuit"
	"kycflow/pkg/requestcontext"
)

// FallbackAnnotator always calls primary. Once the breaker has seen enough
// consecutive provider outages, failed primary calls are answered by
// fallback instead of failing the upload; bad_data answers never trip it.
type FallbackAnnotator struct {
	primary  Annotator
	fallback Annotator
	breaker  *circuit.Breaker
	logger   *slog.Logger
	onChange func(open bool)
}

type FallbackOption func(*FallbackAnnotator)

func WithFallbackLogger(logger *slog.Logger) FallbackOption {
	return func(f *FallbackAnnotator) { f.logger = logger }
}

// WithBreakerObserver is called on every open/close transition.
func WithBreakerObserver(fn func(open bool)) FallbackOption {
	return func(f *FallbackAnnotator) { f.onChange = fn }
}

func NewFallbackAnnotator(primary, fallback Annotator, breaker *circuit.Breaker, opts ...FallbackOption) *FallbackAnnotator {
	f := &FallbackAnnotator{primary: primary, fallback: fallback, breaker: breaker, logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *FallbackAnnotator) Classify(ctx context.Context, in Input) (*models.Classification, error) {
	res, err := f.primary.Classify(ctx, in)
	if err == nil {
		f.success(ctx)
		return res, nil
	}
	if !f.failure(ctx, "classify", err) {
		return nil, err
	}
	return f.fallback.Classify(ctx, in)
}

func (f *FallbackAnnotator) Extract(ctx context.Context, in Input) (*models.Extraction, error) {
	res, err := f.primary.Extract(ctx, in)
	if err == nil {
		f.success(ctx)
		return res, nil
	}
	if !f.failure(ctx, "extract", err) {
		return nil, err
	}
	return f.fallback.Extract(ctx, in)
}

func (f *FallbackAnnotator) success(ctx context.Context) {
	if _, change := f.breaker.RecordSuccess(); change.Closed {
		f.logger.InfoContext(ctx, "annotation circuit closed",
			"request_id", requestcontext.RequestID(ctx),
			"breaker", f.breaker.Name(),
		)
		f.notify(false)
	}
}

// failure reports whether the fallback should answer this call.
func (f *FallbackAnnotator) failure(ctx context.Context, op string, err error) bool {
	if CategoryOf(err) != ErrorProviderOutage || ctx.Err() != nil {
		return false
	}
	useFallback, change := f.breaker.RecordFailure()
	if change.Opened {
		f.logger.WarnContext(ctx, "annotation circuit opened",
			"request_id", requestcontext.RequestID(ctx),
			"breaker", f.breaker.Name(),
			"operation", op,
			"error", err,
		)
		f.notify(true)
	}
	return useFallback && f.fallback != nil
}

func (f *FallbackAnnotator) notify(open bool) {
	if f.onChange != nil {
		f.onChange(open)
	}
}
