package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescue-gcs/internal/mapview"
)

func fixedPos(lat, lng float64) LastPositionFunc {
	return func() (float64, float64, bool) { return lat, lng, true }
}

func noPos() (float64, float64, bool) { return 0, 0, false }

func TestEstimateWalkingPaceETA(t *testing.T) {
	e := NewEstimator(mapview.NewTile(), fixedPos(0, 0), 1.2)

	// ~150 m at the equator; 150 / 1.2 m/s / 60 ≈ 2.08 minutes.
	est := e.Estimate(0, 0.001349)
	require.NotNil(t, est)
	assert.InDelta(t, 150, est.DistanceMeters, 0.5)
	require.NotNil(t, est.ETAMinutes)
	assert.InDelta(t, 2.08, *est.ETAMinutes, 0.02)
}

func TestEstimateWithoutPositionIsNoOp(t *testing.T) {
	backend := mapview.NewTile()
	e := NewEstimator(backend, noPos, 1.2)

	assert.Nil(t, e.Estimate(10, 10))
	assert.Nil(t, e.Current())
}

func TestTargetingSingleShot(t *testing.T) {
	backend := mapview.NewTile()
	e := NewEstimator(backend, fixedPos(0, 0), 1.2)

	// Clicks while disarmed change nothing.
	backend.Click(0, 0.001)
	assert.Nil(t, e.Current())

	e.Arm()
	require.True(t, e.Armed())
	backend.Click(0, 0.001349)

	// The click consumed the armed state and produced a route.
	assert.False(t, e.Armed())
	first := e.Current()
	require.NotNil(t, first)

	// A second click without re-arming is ignored.
	backend.Click(0, 0.01)
	assert.Equal(t, first.Target, e.Current().Target)
}

func TestRouteReplacedOnNewTarget(t *testing.T) {
	e := NewEstimator(mapview.NewTile(), fixedPos(0, 0), 1.2)

	e.Estimate(0, 0.001)
	second := e.Estimate(0, 0.002)
	require.NotNil(t, second)
	assert.Equal(t, second.Target, e.Current().Target)
}

func TestAdaptiveETAUsesHarmonicMean(t *testing.T) {
	e := NewEstimator(mapview.NewTile(), fixedPos(0, 0), 1.2)

	// Mostly slow with one fast spike; the harmonic mean stays near the
	// slow speeds instead of being dragged up by the spike.
	for i := 0; i < 9; i++ {
		e.RecordSpeed(0.5)
	}
	e.RecordSpeed(10)

	est := e.Estimate(0, 0.001349)
	require.NotNil(t, est)
	require.NotNil(t, est.AdaptiveETAMin)
	nominal := *est.ETAMinutes
	assert.Greater(t, *est.AdaptiveETAMin, nominal, "slow observed speeds should extend the ETA")
}

func TestRecordSpeedWindowBounded(t *testing.T) {
	e := NewEstimator(mapview.NewTile(), fixedPos(0, 0), 1.2)
	for i := 0; i < 100; i++ {
		e.RecordSpeed(1)
	}
	e.mu.Lock()
	n := len(e.speeds)
	e.mu.Unlock()
	assert.Equal(t, speedWindow, n)
}

func TestResetClearsOverlayAndArming(t *testing.T) {
	e := NewEstimator(mapview.NewTile(), fixedPos(0, 0), 1.2)
	e.Arm()
	e.Estimate(0, 0.001)
	e.Reset()

	assert.False(t, e.Armed())
	assert.Nil(t, e.Current())
}
