// Package pathplan offers risk-aware grid path planning as an alternative
// to the straight-line route: A* over an occupancy grid with 8-way movement,
// cost weighting from a decaying risk heatmap, and collinear pruning of the
// resulting path.
package pathplan

import (
	"container/heap"
	"math"
)

// Cell addresses a grid cell as (row, col).
type Cell struct {
	Row int
	Col int
}

// Grid is an occupancy grid: 0 free, >=1 blocked, fractional values between
// count as terrain cost.
type Grid [][]float64

type pqItem struct {
	f, g float64
	cell Cell
}

type priorityQueue []pqItem

func (q priorityQueue) Len() int           { return len(q) }
func (q priorityQueue) Less(i, j int) bool { return q[i].f < q[j].f }
func (q priorityQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x any)        { *q = append(*q, x.(pqItem)) }
func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

var steps = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// octile is the admissible heuristic for 8-connected grids.
func octile(a, b Cell) float64 {
	dx := math.Abs(float64(a.Row - b.Row))
	dy := math.Abs(float64(a.Col - b.Col))
	lo := math.Min(dx, dy)
	hi := math.Max(dx, dy)
	return math.Sqrt2*lo + (hi - lo)
}

// Options tunes the planner. RiskWeight scales the heatmap contribution and
// DiagonalPenalty discourages zig-zag paths.
type Options struct {
	Risk            [][]float64
	RiskWeight      float64
	DiagonalPenalty float64
}

// FindPath runs A* from start to goal. It returns the path including both
// endpoints and its accumulated cost; an unreachable goal yields a nil path
// and +Inf.
func FindPath(occ Grid, start, goal Cell, opt Options) ([]Cell, float64) {
	rows := len(occ)
	if rows == 0 || len(occ[0]) == 0 {
		return nil, math.Inf(1)
	}
	cols := len(occ[0])

	blocked := func(c Cell) bool { return occ[c.Row][c.Col] >= 1.0 }
	inside := func(r, c int) bool { return r >= 0 && r < rows && c >= 0 && c < cols }

	if !inside(start.Row, start.Col) || !inside(goal.Row, goal.Col) ||
		blocked(start) || blocked(goal) {
		return nil, math.Inf(1)
	}

	g := make([][]float64, rows)
	cameFrom := make([][]*Cell, rows)
	for r := range g {
		g[r] = make([]float64, cols)
		cameFrom[r] = make([]*Cell, cols)
		for c := range g[r] {
			g[r][c] = math.Inf(1)
		}
	}
	g[start.Row][start.Col] = 0

	pq := &priorityQueue{{f: octile(start, goal), g: 0, cell: start}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if cur.cell == goal {
			break
		}
		if cur.g > g[cur.cell.Row][cur.cell.Col] {
			continue
		}

		for _, d := range steps {
			nr, nc := cur.cell.Row+d[0], cur.cell.Col+d[1]
			if !inside(nr, nc) {
				continue
			}
			next := Cell{nr, nc}
			if blocked(next) {
				continue
			}

			stepCost := 1.0
			diagonal := d[0] != 0 && d[1] != 0
			if diagonal {
				stepCost = math.Sqrt2
			}
			cost := stepCost + math.Max(0, occ[nr][nc])
			if opt.Risk != nil {
				cost += opt.RiskWeight * math.Max(0, opt.Risk[nr][nc])
			}
			if diagonal {
				cost += opt.DiagonalPenalty
			}

			ng := cur.g + cost
			if ng < g[nr][nc] {
				g[nr][nc] = ng
				from := cur.cell
				cameFrom[nr][nc] = &from
				heap.Push(pq, pqItem{f: ng + octile(next, goal), g: ng, cell: next})
			}
		}
	}

	total := g[goal.Row][goal.Col]
	if math.IsInf(total, 1) {
		return nil, total
	}

	var path []Cell
	for at := &goal; at != nil; at = cameFrom[at.Row][at.Col] {
		path = append(path, *at)
	}
	reverse(path)
	return pruneCollinear(path), total
}

func reverse(p []Cell) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

// pruneCollinear drops intermediate cells whose step direction repeats,
// keeping both endpoints.
func pruneCollinear(path []Cell) []Cell {
	if len(path) <= 2 {
		return path
	}
	pruned := []Cell{path[0]}
	for i := 1; i < len(path)-1; i++ {
		prev, cur, next := path[i-1], path[i], path[i+1]
		if cur.Row-prev.Row == next.Row-cur.Row && cur.Col-prev.Col == next.Col-cur.Col {
			continue
		}
		pruned = append(pruned, cur)
	}
	return append(pruned, path[len(path)-1])
}
