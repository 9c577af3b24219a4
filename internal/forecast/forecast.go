// Package forecast holds the small online estimators used to steady noisy
// telemetry for display: an exponential moving average for the quality
// trend and a one-dimensional Kalman filter for vibration smoothing.
package forecast

import "sync"

// EMA is an online exponential moving average. Alpha in (0,1]; higher
// reacts faster to new samples.
type EMA struct {
	mu    sync.Mutex
	alpha float64
	level float64
	seen  bool
}

func NewEMA(alpha float64) *EMA {
	return &EMA{alpha: alpha}
}

func (e *EMA) Update(v float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.seen {
		e.level = v
		e.seen = true
	} else {
		e.level = e.alpha*v + (1-e.alpha)*e.level
	}
	return e.level
}

// Predict returns the current level and whether any sample has been seen.
// An EMA forecasts the same value any number of steps ahead.
func (e *EMA) Predict() (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level, e.seen
}

// Kalman1D smooths a single noisy channel. q is process noise, r is
// measurement noise; tune r toward the observed sensor variance.
type Kalman1D struct {
	mu   sync.Mutex
	q, r float64
	x, p float64
	seen bool
}

func NewKalman1D(q, r float64) *Kalman1D {
	return &Kalman1D{q: q, r: r, p: 1}
}

func (k *Kalman1D) Update(z float64) float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.seen {
		k.x = z
		k.p = 1
		k.seen = true
	}
	k.p += k.q
	gain := k.p / (k.p + k.r)
	k.x += gain * (z - k.x)
	k.p *= 1 - gain
	return k.x
}
