package screening

import (
	"time"

	"CoinScreen/internal/domain/models"
)

// anchorIndex returns the index of the last point dated at or before
// anchor, or -1 when the series starts after it. A zero anchor selects
// the most recent point.
func anchorIndex(series []models.PricePoint, anchor time.Time) int {
	if len(series) == 0 {
		return -1
	}
	if anchor.IsZero() {
		return len(series) - 1
	}
	// series is time-ordered; walk back from the end, horizons are small
	// relative to series length so this stays cheap.
	for i := len(series) - 1; i >= 0; i-- {
		if !series[i].Date.After(anchor) {
			return i
		}
	}
	return -1
}

// CumulativeReturn computes the percentage change over one horizon.
//
// Backward: the anchor point is the fixed end, the start sits `days`
// index steps earlier. Forward: the anchor point is the fixed start, the
// end sits `days` steps later. Steps are index steps, not calendar
// days; the series is already restricted to available trading days.
//
// The result is undefined (not zero) when either endpoint falls outside
// the series or the start price is zero. The returned end date is the
// window's reference date for trend lookups; it is only meaningful when
// the return is defined.
func CumulativeReturn(series []models.PricePoint, spec models.TimeframeSpec, days int) (models.Return, time.Time) {
	idx := anchorIndex(series, spec.Anchor)
	if idx < 0 {
		return models.UndefinedReturn(), time.Time{}
	}

	var startIdx, endIdx int
	switch spec.Direction {
	case models.DirectionForward:
		startIdx = idx
		endIdx = idx + days
	default: // backward
		endIdx = idx
		startIdx = idx - days
	}

	if startIdx < 0 || endIdx >= len(series) {
		return models.UndefinedReturn(), time.Time{}
	}

	start := series[startIdx].Price
	end := series[endIdx].Price
	if start == 0 {
		return models.UndefinedReturn(), time.Time{}
	}

	return models.DefinedReturn((end - start) / start * 100), series[endIdx].Date
}
