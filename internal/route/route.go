// Package route owns target selection and ETA estimation. Targeting is
// single-shot: arming makes the next map click set the target, draw the
// route and disarm again. Each new target replaces the previous overlay.
package route

import (
	"math"
	"sync"

	"rescue-gcs/internal/mapview"
)

// speedWindow is how many recent speed samples feed the adaptive ETA.
const speedWindow = 30

// minSpeedMps keeps the adaptive ETA finite when the vehicle is stopped.
const minSpeedMps = 0.05

// Estimate is the current route overlay. ETAMinutes is nil when the
// distance came back non-finite; the console shows "unknown" rather than a
// number.
type Estimate struct {
	From           Point    `json:"from"`
	Target         Point    `json:"target"`
	DistanceMeters float64  `json:"distanceMeters"`
	ETAMinutes     *float64 `json:"etaMinutes"`
	AdaptiveETAMin *float64 `json:"adaptiveEtaMinutes,omitempty"`
}

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LastPositionFunc reports the vehicle's last trail point, ok=false when no
// position has been seen yet.
type LastPositionFunc func() (lat, lng float64, ok bool)

type Estimator struct {
	backend  mapview.Backend
	lastPos  LastPositionFunc
	speedMps float64

	mu      sync.Mutex
	armed   bool
	current *Estimate
	speeds  []float64
}

func NewEstimator(backend mapview.Backend, lastPos LastPositionFunc, speedMps float64) *Estimator {
	e := &Estimator{
		backend:  backend,
		lastPos:  lastPos,
		speedMps: speedMps,
	}
	backend.OnUserClick(e.handleClick)
	return e
}

// Arm puts the estimator into targeting mode for exactly one click.
func (e *Estimator) Arm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.armed = true
}

func (e *Estimator) Armed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.armed
}

// handleClick consumes the armed state whether or not a route can be drawn;
// every route requires re-arming.
func (e *Estimator) handleClick(lat, lng float64) {
	e.mu.Lock()
	if !e.armed {
		e.mu.Unlock()
		return
	}
	e.armed = false
	e.mu.Unlock()

	e.Estimate(lat, lng)
}

// Estimate draws a straight route from the last known position to the
// target and computes the ETA at the nominal traverse speed. Without a
// known position this is a guarded no-op, not an error.
func (e *Estimator) Estimate(targetLat, targetLng float64) *Estimate {
	fromLat, fromLng, ok := e.lastPos()
	if !ok {
		return nil
	}

	dist := e.backend.DrawRoute(fromLat, fromLng, targetLat, targetLng)

	est := &Estimate{
		From:           Point{fromLat, fromLng},
		Target:         Point{targetLat, targetLng},
		DistanceMeters: dist,
	}
	if !math.IsNaN(dist) && !math.IsInf(dist, 0) {
		eta := dist / e.speedMps / 60
		est.ETAMinutes = &eta
		if adaptive, seen := e.adaptiveETAMinutes(dist); seen {
			est.AdaptiveETAMin = &adaptive
		}
	}

	e.mu.Lock()
	e.current = est
	e.mu.Unlock()
	return est
}

// Current returns the live route overlay, nil when none is set.
func (e *Estimator) Current() *Estimate {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil
	}
	c := *e.current
	return &c
}

// Reset clears the overlay and targeting state at session start.
func (e *Estimator) Reset() {
	e.mu.Lock()
	e.armed = false
	e.current = nil
	e.mu.Unlock()
	e.backend.ClearRoute()
}

// RecordSpeed feeds an observed ground speed sample into the adaptive ETA
// window. Negative samples clamp to zero.
func (e *Estimator) RecordSpeed(mps float64) {
	if mps < 0 {
		mps = 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speeds = append(e.speeds, mps)
	if len(e.speeds) > speedWindow {
		e.speeds = e.speeds[1:]
	}
}

// adaptiveETAMinutes estimates against the harmonic mean of recent speeds;
// a few fast spikes cannot inflate it the way they would an arithmetic mean.
func (e *Estimator) adaptiveETAMinutes(distanceM float64) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.speeds) == 0 {
		return 0, false
	}
	var invSum float64
	var n int
	for _, s := range e.speeds {
		if s <= 0 {
			continue
		}
		invSum += 1 / math.Max(minSpeedMps, s)
		n++
	}
	v := minSpeedMps
	if n > 0 {
		v = math.Max(float64(n)/invSum, minSpeedMps)
	}
	return distanceM / v / 60, true
}
