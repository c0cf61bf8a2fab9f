// Package stats summarizes how long stays last.
package stats

import (
	"slices"
	"time"
)

// Summary describes a set of durations
type Summary struct {
	Count  int           `json:"count"`
	Total  time.Duration `json:"total"`
	Mean   time.Duration `json:"mean"`
	Median time.Duration `json:"median"`
	P90    time.Duration `json:"p90"`
	Max    time.Duration `json:"max"`
}

// Summarize computes the summary of values. The input is not modified.
func Summarize(values []time.Duration) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var total time.Duration
	for _, v := range sorted {
		total += v
	}

	return Summary{
		Count:  len(sorted),
		Total:  total,
		Mean:   total / time.Duration(len(sorted)),
		Median: Quantile(sorted, 0.5),
		P90:    Quantile(sorted, 0.9),
		Max:    sorted[len(sorted)-1],
	}
}

// Quantile interpolates linearly between the closest ranks of sorted.
// q is clamped to [0, 1].
func Quantile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	q = min(max(q, 0), 1)

	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + time.Duration(frac*float64(sorted[lower+1]-sorted[lower]))
}
