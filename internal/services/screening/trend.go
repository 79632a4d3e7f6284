package screening

import (
	"time"

	"CoinScreen/internal/domain/models"
)

// TrendScoreAt sums the signed tier weights of the signal dated nearest
// to ref. Missing tiers contribute 0; covered is false when the coin has
// no signal at all near ref, which callers may surface for diagnostics
// but must not score differently from an all-neutral signal.
func TrendScoreAt(signals []models.TrendSignal, ref time.Time) (score int, covered bool) {
	if len(signals) == 0 || ref.IsZero() {
		return 0, false
	}
	return nearestSignal(signals, ref).TrendScore()
}

// nearestSignal picks the signal whose date is closest to ref. The
// series is time-ordered, so binary search narrows it to two candidates.
func nearestSignal(signals []models.TrendSignal, ref time.Time) models.TrendSignal {
	lo, hi := 0, len(signals)
	for lo < hi {
		mid := (lo + hi) / 2
		if signals[mid].Date.Before(ref) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	// lo is the first signal not before ref; the one preceding it may be
	// closer.
	if lo == len(signals) {
		return signals[lo-1]
	}
	if lo == 0 {
		return signals[0]
	}
	if ref.Sub(signals[lo-1].Date) <= signals[lo].Date.Sub(ref) {
		return signals[lo-1]
	}
	return signals[lo]
}
