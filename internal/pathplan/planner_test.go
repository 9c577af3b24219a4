package pathplan

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyGrid(n int) Grid {
	g := make(Grid, n)
	for r := range g {
		g[r] = make([]float64, n)
	}
	return g
}

func TestFindPathThroughWallGap(t *testing.T) {
	occ := emptyGrid(10)
	for r := 0; r < 10; r++ {
		occ[r][5] = 1
	}
	occ[4][5] = 0
	occ[5][5] = 0

	path, cost := FindPath(occ, Cell{0, 0}, Cell{9, 9}, Options{})
	require.NotNil(t, path)
	assert.False(t, math.IsInf(cost, 1))
	assert.Equal(t, Cell{0, 0}, path[0])
	assert.Equal(t, Cell{9, 9}, path[len(path)-1])

	// The path must pass through the gap, not the wall.
	for _, c := range path {
		assert.Less(t, occ[c.Row][c.Col], 1.0, "path crosses a blocked cell at %v", c)
	}
}

func TestFindPathUnreachable(t *testing.T) {
	occ := emptyGrid(8)
	for r := 0; r < 8; r++ {
		occ[r][4] = 1
	}

	path, cost := FindPath(occ, Cell{0, 0}, Cell{0, 7}, Options{})
	assert.Nil(t, path)
	assert.True(t, math.IsInf(cost, 1))
}

func TestFindPathBlockedEndpoints(t *testing.T) {
	occ := emptyGrid(4)
	occ[0][0] = 1

	path, _ := FindPath(occ, Cell{0, 0}, Cell{3, 3}, Options{})
	assert.Nil(t, path)
}

func TestFindPathAvoidsRiskBand(t *testing.T) {
	occ := emptyGrid(9)
	risk := make([][]float64, 9)
	for r := range risk {
		risk[r] = make([]float64, 9)
	}
	// A high-risk horizontal band across the middle, lighter at the edge.
	for c := 0; c < 8; c++ {
		risk[4][c] = 10
	}

	path, _ := FindPath(occ, Cell{0, 4}, Cell{8, 4}, Options{Risk: risk, RiskWeight: 1})
	require.NotNil(t, path)

	crossedHot := false
	for _, c := range path {
		if risk[c.Row][c.Col] >= 10 {
			crossedHot = true
		}
	}
	assert.False(t, crossedHot, "planner should detour around the risk band: %v", path)
}

func TestPruneCollinear(t *testing.T) {
	path := []Cell{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {3, 4}, {3, 5}}
	pruned := pruneCollinear(path)
	assert.Equal(t, []Cell{{0, 0}, {3, 3}, {3, 5}}, pruned)

	short := []Cell{{0, 0}, {1, 0}}
	assert.Equal(t, short, pruneCollinear(short))
}

func TestOctileHeuristic(t *testing.T) {
	assert.Equal(t, 0.0, octile(Cell{3, 3}, Cell{3, 3}))
	assert.Equal(t, 4.0, octile(Cell{0, 0}, Cell{0, 4}))
	assert.InDelta(t, 4*math.Sqrt2, octile(Cell{0, 0}, Cell{4, 4}), 1e-9)
}

func TestHeatmapReinforceAndDecay(t *testing.T) {
	h := NewHeatmap(4, 4, 0.01)

	now := time.Now()
	h.now = func() time.Time { return now }
	h.last = now

	h.Reinforce([]Cell{{1, 1}, {99, 0}}, 2) // out-of-range cell ignored
	grid := h.Snapshot()
	assert.Equal(t, 2.0, grid[1][1])
	assert.Equal(t, 0.0, grid[0][0])

	// 10 seconds later the cell has decayed by ~10%.
	now = now.Add(10 * time.Second)
	grid = h.Snapshot()
	assert.InDelta(t, 1.8, grid[1][1], 1e-9)
}

func TestHeatmapDecayFloorsAtZero(t *testing.T) {
	h := NewHeatmap(2, 2, 0.01)
	now := time.Now()
	h.now = func() time.Time { return now }
	h.last = now

	h.Reinforce([]Cell{{0, 0}}, 5)
	// Far beyond full decay; factor clamps at zero rather than going
	// negative.
	now = now.Add(time.Hour)
	assert.Equal(t, 0.0, h.Snapshot()[0][0])
}
