package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakerLifecycle(t *testing.T) {
	b := New("annotation", WithFailureThreshold(2), WithSuccessThreshold(2))
	assert.Equal(t, "annotation", b.Name())
	assert.Equal(t, StateClosed, b.State())

	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())

	// already open: fallback without another transition
	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened)

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerCountsAreConsecutive(t *testing.T) {
	b := New("annotation", WithFailureThreshold(3))
	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.False(t, b.IsOpen())
}

func TestBreakerIgnoresNonPositiveThresholds(t *testing.T) {
	b := New("x", WithFailureThreshold(0), WithSuccessThreshold(-1))
	for i := 0; i < 4; i++ {
		b.RecordFailure()
	}
	assert.False(t, b.IsOpen())
	b.RecordFailure()
	assert.True(t, b.IsOpen())
}
