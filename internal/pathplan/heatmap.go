package pathplan

import (
	"sync"
	"time"
)

// Heatmap accumulates risk observations on a grid and decays them over
// time, so stale hazards fade out of planning instead of blocking routes
// forever.
type Heatmap struct {
	mu          sync.Mutex
	rows, cols  int
	decayPerSec float64
	grid        [][]float64
	last        time.Time
	now         func() time.Time
}

func NewHeatmap(rows, cols int, decayPerSec float64) *Heatmap {
	h := &Heatmap{
		rows:        rows,
		cols:        cols,
		decayPerSec: decayPerSec,
		grid:        make([][]float64, rows),
		now:         time.Now,
	}
	for r := range h.grid {
		h.grid[r] = make([]float64, cols)
	}
	h.last = h.now()
	return h
}

func (h *Heatmap) decayLocked() {
	now := h.now()
	dt := now.Sub(h.last).Seconds()
	h.last = now
	if dt <= 0 {
		return
	}
	factor := 1 - h.decayPerSec*dt
	if factor < 0 {
		factor = 0
	}
	for r := range h.grid {
		for c := range h.grid[r] {
			h.grid[r][c] *= factor
		}
	}
}

// Reinforce raises the risk at the given cells. Out-of-range cells are
// ignored.
func (h *Heatmap) Reinforce(cells []Cell, amount float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.decayLocked()
	for _, c := range cells {
		if c.Row >= 0 && c.Row < h.rows && c.Col >= 0 && c.Col < h.cols {
			h.grid[c.Row][c.Col] += amount
		}
	}
}

// Snapshot returns a copy of the decayed grid.
func (h *Heatmap) Snapshot() [][]float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.decayLocked()
	out := make([][]float64, h.rows)
	for r := range out {
		out[r] = append([]float64(nil), h.grid[r]...)
	}
	return out
}
