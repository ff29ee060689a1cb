// Package activity implements the pre-flight market activity filter that
// decides whether recent volatility justifies an oracle call.
package activity

import "github.com/dyike/ChartPilotGo/internal/models"

// RangeRatioThreshold is the average per-bar (high-low)/open ratio above
// which the market counts as active. Comparison is strict.
const RangeRatioThreshold = 0.00015

// minBars is the sample size below which the filter never blocks.
const minBars = 3

// IsActive reports whether the given bars show enough movement to be worth
// an expensive analysis call. With fewer than three bars there is not enough
// evidence to block, so the answer is true. Bars with a zero open are a
// caller-side precondition violation.
func IsActive(bars []models.OHLCBar) bool {
	if len(bars) < minBars {
		return true
	}

	sum := 0.0
	for _, b := range bars {
		sum += (b.High - b.Low) / b.Open
	}
	avg := sum / float64(len(bars))

	return avg > RangeRatioThreshold
}
