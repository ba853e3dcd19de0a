// Package score converts backend similarity scores into display percentages.
package score

import "math"

const maxPercent = 100

// Normalize maps a raw similarity score of ambiguous unit onto an integer
// percent. Values above 1 are already percents; anything else is a fraction.
// The result is clamped to [0, 100] and non-finite input yields 0.
func Normalize(raw float64) int {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}
	var pct float64
	if raw > 1 {
		pct = math.Round(raw)
	} else {
		pct = math.Round(raw * maxPercent)
	}
	switch {
	case pct < 0:
		return 0
	case pct > maxPercent:
		return maxPercent
	}
	return int(pct)
}

// NormalizePtr is Normalize for optional scores; nil reports false.
func NormalizePtr(raw *float64) (int, bool) {
	if raw == nil {
		return 0, false
	}
	return Normalize(*raw), true
}

// Best returns the index of the highest normalized score, or -1 when no score is present.
func Best(scores []*float64) int {
	best, idx := -1, -1
	for i, s := range scores {
		if v, ok := NormalizePtr(s); ok && v > best {
			best, idx = v, i
		}
	}
	return idx
}
