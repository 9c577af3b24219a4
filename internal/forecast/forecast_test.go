package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMAFirstSampleSetsLevel(t *testing.T) {
	e := NewEMA(0.3)

	_, seen := e.Predict()
	assert.False(t, seen)

	assert.Equal(t, 40.0, e.Update(40))
	level, seen := e.Predict()
	require.True(t, seen)
	assert.Equal(t, 40.0, level)
}

func TestEMASmoothing(t *testing.T) {
	e := NewEMA(0.3)
	e.Update(0)
	got := e.Update(100)
	assert.InDelta(t, 30, got, 1e-9)

	// The level keeps chasing the input without overshooting it.
	for i := 0; i < 50; i++ {
		got = e.Update(100)
	}
	assert.Greater(t, got, 99.0)
	assert.LessOrEqual(t, got, 100.0)
}

func TestKalmanConvergesToSteadySignal(t *testing.T) {
	k := NewKalman1D(1e-3, 1e-2)

	var got float64
	for i := 0; i < 100; i++ {
		got = k.Update(2.5)
	}
	assert.InDelta(t, 2.5, got, 1e-6)
}

func TestKalmanDampsSpike(t *testing.T) {
	k := NewKalman1D(1e-3, 1e-1)
	for i := 0; i < 50; i++ {
		k.Update(1.0)
	}
	got := k.Update(5.0)
	assert.Less(t, got, 2.0, "one outlier should not yank the estimate")
	assert.Greater(t, got, 1.0)
}
