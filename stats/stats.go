// Package stats provides the grouped dispersion primitives shared by the
// fairness scorers: mean absolute deviation within groups and a coefficient
// of variation folded into a bounded score.
package stats

import (
	"fmt"
	"math"
)

// GroupedMAD computes, for each group, the mean absolute deviation of its
// values from the group mean, and returns the mean of those per-group
// deviations. values[i] belongs to the group identified by groups[i].
// NaN values and mismatched lengths are rejected rather than coerced.
func GroupedMAD(values []float64, groups []int) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("grouped MAD of empty input")
	}
	if len(values) != len(groups) {
		return 0, fmt.Errorf("grouped MAD: %d values but %d group keys", len(values), len(groups))
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i, v := range values {
		if math.IsNaN(v) {
			return 0, fmt.Errorf("grouped MAD: NaN value at index %d (group %d)", i, groups[i])
		}
		sums[groups[i]] += v
		counts[groups[i]]++
	}

	devSums := make(map[int]float64)
	for i, v := range values {
		g := groups[i]
		mean := sums[g] / float64(counts[g])
		devSums[g] += math.Abs(v - mean)
	}

	var total float64
	for g, devSum := range devSums {
		total += devSum / float64(counts[g])
	}
	return total / float64(len(devSums)), nil
}

// CVScore converts a set of per-group ratios into a fairness score via the
// coefficient of variation: cv = populationStd/mean, score = 1/(1+cv).
// Identical ratios give cv 0 and score 1. A zero mean or fewer than two
// usable values count as infinite dispersion: cv = +Inf, score 0.
// NaN entries are excluded before aggregation.
func CVScore(ratios []float64) (score, cv float64) {
	clean := ratios[:0:0]
	for _, r := range ratios {
		if !math.IsNaN(r) {
			clean = append(clean, r)
		}
	}
	if len(clean) < 2 {
		return 0, math.Inf(1)
	}

	// Identical ratios are exactly zero dispersion. Computed up front so
	// float summation error cannot leak into the score (summing three 0.8s
	// already drifts the mean off 0.8).
	allEqual := true
	for _, r := range clean[1:] {
		if r != clean[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		if clean[0] == 0 {
			return 0, math.Inf(1)
		}
		return 1, 0
	}

	var sum float64
	for _, r := range clean {
		sum += r
	}
	mean := sum / float64(len(clean))
	if mean == 0 {
		return 0, math.Inf(1)
	}

	var sqSum float64
	for _, r := range clean {
		d := r - mean
		sqSum += d * d
	}
	std := math.Sqrt(sqSum / float64(len(clean)))

	cv = std / mean
	return 1 / (1 + cv), cv
}

// Mean returns the arithmetic mean of values, or 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
