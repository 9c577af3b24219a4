// Package predict recommends a rescue-team size from a survivor count.
package predict

import "math"

// Recommend maps survivors to rescuers. Small counts always get a minimum
// team; above six the count scales slightly past headcount. Fractional and
// negative inputs are floored and clamped so the automatic sensor path and
// the operator's manual override produce identical output for identical
// input.
func Recommend(survivors float64) int {
	n := int(math.Floor(survivors))
	if n < 0 {
		n = 0
	}
	switch {
	case n <= 2:
		return 2
	case n <= 4:
		return 4
	case n <= 6:
		return 6
	default:
		return int(math.Ceil(float64(n) * 1.2))
	}
}
