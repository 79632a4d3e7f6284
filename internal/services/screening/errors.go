package screening

import "errors"

var (
	// ErrInvalidTimeframeSpec is fatal for the whole run: an empty or
	// non-positive horizon list, or an anchor date outside the series
	// bounds of every coin.
	ErrInvalidTimeframeSpec = errors.New("screening: invalid timeframe spec")

	// ErrEmptyUniverse means no coin had usable data for any horizon.
	// The engine still returns a result carrying the skip diagnostics.
	ErrEmptyUniverse = errors.New("screening: no coin has data for any timeframe")

	// ErrEmptyInput is returned by the ranker when the metric map is
	// empty. The engine recovers by skipping that horizon's aggregation.
	ErrEmptyInput = errors.New("screening: empty ranking input")
)
