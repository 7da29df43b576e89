// Package stats provides the pure numeric kernel for stake
// distribution analysis: Gini coefficient, Nakamoto coefficient, and
// top-N concentration. All functions silently drop non-positive and
// non-finite inputs and never fail.
package stats

import (
	"math"
	"sort"
)

// controlThreshold is the share of total stake that defines control
// for the Nakamoto coefficient.
const controlThreshold = 0.51

// filterPositive returns the positive, finite entries of values.
func filterPositive(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Gini computes the Gini coefficient of the positive entries of
// values. It returns 0 when fewer than two positive entries remain:
// no inequality is measurable with 0 or 1 participant. The result is
// clamped to [0,1] to absorb floating-point drift.
func Gini(values []float64) float64 {
	vs := filterPositive(values)
	n := len(vs)
	if n < 2 {
		return 0
	}

	var total float64
	for _, v := range vs {
		total += v
	}
	mean := total / float64(n)
	if mean == 0 {
		return 0
	}

	// Relative mean absolute difference over all ordered pairs.
	var sumDiff float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sumDiff += math.Abs(vs[i] - vs[j])
		}
	}

	g := sumDiff / (2 * float64(n) * float64(n) * mean)
	if g < 0 {
		return 0
	}
	if g > 1 {
		return 1
	}
	return g
}

// Nakamoto computes the minimum number of top stakers whose combined
// stake reaches 51% of the total. It returns 0 when there are no
// positive entries, and the full count if floating error keeps the
// running sum below the threshold even after summing everything.
func Nakamoto(values []float64) int {
	vs := filterPositive(values)
	if len(vs) == 0 {
		return 0
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(vs)))

	var total float64
	for _, v := range vs {
		total += v
	}

	var running float64
	for i, v := range vs {
		running += v
		if running >= total*controlThreshold {
			return i + 1
		}
	}
	return len(vs)
}

// TopNPercent returns the percentage of total stake held by the n
// largest positive entries of values. It returns 0 when no positive
// entries remain or the total is 0.
func TopNPercent(values []float64, n int) float64 {
	vs := filterPositive(values)
	if len(vs) == 0 || n <= 0 {
		return 0
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(vs)))

	var total float64
	for _, v := range vs {
		total += v
	}
	if total == 0 {
		return 0
	}

	if n > len(vs) {
		n = len(vs)
	}
	var top float64
	for _, v := range vs[:n] {
		top += v
	}
	return top / total * 100
}
