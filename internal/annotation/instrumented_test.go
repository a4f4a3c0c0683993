package annotation_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"kycflow/internal/annotation"
	"kycflow/internal/annotation/metrics"
	"kycflow/internal/annotation/mocks"
	"kycflow/internal/cases/models"
)

func TestInstrumentedRecordsOutcomes(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockAnnotator(ctrl)
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	sut := annotation.NewInstrumented(inner, m, nil)

	inner.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(&models.Classification{DocumentType: "Other"}, nil)
	inner.EXPECT().Extract(gomock.Any(), gomock.Any()).
		Return(nil, annotation.NewProviderError(annotation.ErrorBadData, "vertex", "extract", "bad", nil))

	_, _ = sut.Classify(context.Background(), annotation.Input{})
	_, _ = sut.Extract(context.Background(), annotation.Input{})

	assert.Equal(t, 1.0, promtest.ToFloat64(m.CallOutcomes.WithLabelValues("classify", "ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.CallOutcomes.WithLabelValues("extract", "bad_data")))
}
