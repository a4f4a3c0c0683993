package annotation_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kycflow/internal/annotation"
	"kycflow/internal/annotation/mocks"
	"kycflow/internal/cases/models"
	"kycflow/pkg/platform/circuit"
)

func TestFallbackAnnotator(t *testing.T) {
	outage := annotation.NewProviderError(annotation.ErrorProviderOutage, "vertex", "classify", "down", nil)
	badData := annotation.NewProviderError(annotation.ErrorBadData, "vertex", "classify", "garbage", nil)
	in := annotation.Input{Filename: "passport.pdf"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("outages below threshold fail the call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		primary := mocks.NewMockAnnotator(ctrl)
		primary.EXPECT().Classify(gomock.Any(), in).Return(nil, outage)

		sut := annotation.NewFallbackAnnotator(primary, annotation.NewStaticAnnotator(),
			circuit.New("annotation", circuit.WithFailureThreshold(2)), annotation.WithFallbackLogger(logger))
		_, err := sut.Classify(context.Background(), in)
		require.ErrorIs(t, err, outage)
	})

	t.Run("open breaker answers from fallback until primary recovers", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		primary := mocks.NewMockAnnotator(ctrl)
		var transitions []bool
		breaker := circuit.New("annotation", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
		sut := annotation.NewFallbackAnnotator(primary, annotation.NewStaticAnnotator(), breaker,
			annotation.WithFallbackLogger(logger),
			annotation.WithBreakerObserver(func(open bool) { transitions = append(transitions, open) }),
		)

		primary.EXPECT().Classify(gomock.Any(), in).Return(nil, outage).Times(3)
		_, err := sut.Classify(context.Background(), in)
		require.Error(t, err)

		for i := 0; i < 2; i++ {
			got, err := sut.Classify(context.Background(), in)
			require.NoError(t, err)
			assert.Equal(t, "Passport", got.DocumentType)
		}
		assert.True(t, breaker.IsOpen())

		primary.EXPECT().Classify(gomock.Any(), in).Return(&models.Classification{DocumentType: "National ID", Confidence: 0.97}, nil)
		got, err := sut.Classify(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "National ID", got.DocumentType)
		assert.False(t, breaker.IsOpen())
		assert.Equal(t, []bool{true, false}, transitions)
	})

	t.Run("bad data never trips the breaker", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		primary := mocks.NewMockAnnotator(ctrl)
		primary.EXPECT().Extract(gomock.Any(), in).Return(nil, badData).Times(3)
		breaker := circuit.New("annotation", circuit.WithFailureThreshold(1))
		sut := annotation.NewFallbackAnnotator(primary, annotation.NewStaticAnnotator(), breaker, annotation.WithFallbackLogger(logger))

		for i := 0; i < 3; i++ {
			_, err := sut.Extract(context.Background(), in)
			require.ErrorIs(t, err, badData)
		}
		assert.False(t, breaker.IsOpen())
	})
}

func TestResilientAnnotatorCachesOnlyPrimaryAnswers(t *testing.T) {
	outage := annotation.NewProviderError(annotation.ErrorProviderOutage, "vertex", "classify", "down", nil)
	in := annotation.Input{Filename: "passport.pdf", Content: []byte("same bytes")}
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockAnnotator(ctrl)
	cache := newMemoryCache()
	breaker := circuit.New("annotation", circuit.WithFailureThreshold(1), circuit.WithSuccessThreshold(1))
	sut := annotation.NewResilientAnnotator(primary, annotation.NewStaticAnnotator(), breaker, annotation.ChainConfig{
		Cache:    cache,
		CacheTTL: time.Hour,
	})

	primary.EXPECT().Classify(gomock.Any(), in).Return(nil, outage)
	got, err := sut.Classify(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Passport", got.DocumentType, "fallback answers during the outage")
	assert.True(t, breaker.IsOpen())
	assert.Empty(t, cache.entries, "fallback labels are never cached")

	primary.EXPECT().Classify(gomock.Any(), in).Return(&models.Classification{DocumentType: "National ID", Confidence: 0.97}, nil).Times(1)
	got, err = sut.Classify(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "National ID", got.DocumentType, "recovered primary is consulted for the same bytes")
	assert.False(t, breaker.IsOpen())

	got, err = sut.Classify(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "National ID", got.DocumentType, "primary answer is served from cache")
	assert.Len(t, cache.entries, 1)
}

func TestResilientAnnotatorWithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockAnnotator(ctrl)
	in := annotation.Input{Filename: "bill.pdf"}
	sut := annotation.NewResilientAnnotator(primary, annotation.NewStaticAnnotator(), circuit.New("annotation"), annotation.ChainConfig{})

	primary.EXPECT().Classify(gomock.Any(), in).Return(&models.Classification{DocumentType: "Utility Bill"}, nil).Times(2)
	for i := 0; i < 2; i++ {
		got, err := sut.Classify(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "Utility Bill", got.DocumentType)
	}
}
