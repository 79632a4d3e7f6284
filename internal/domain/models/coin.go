package models

import "time"

// Coin identifies one asset in the screening universe. The ID is the
// stable key used everywhere (ranking, tie-breaks, storage); Symbol and
// Name are for display only.
type Coin struct {
	ID     string
	Symbol string
	Name   string
}

// PricePoint is one (date, price) observation for a coin. Prices are
// denominated in a single caller-chosen unit (e.g. BTC) for the whole
// run; the series holds strictly one point per day.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// TrendSignal carries the signed above/below moving-average weights for
// one coin on one date. A nil tier means insufficient history for that
// average: no signal, which is not the same as a neutral 0.
type TrendSignal struct {
	Date   time.Time
	Fast   *int
	Medium *int
	Slow   *int
}

// TrendScore sums the present tiers. Missing tiers contribute nothing.
// covered reports whether at least one tier carried a signal.
func (s TrendSignal) TrendScore() (score int, covered bool) {
	for _, tier := range []*int{s.Fast, s.Medium, s.Slow} {
		if tier != nil {
			score += *tier
			covered = true
		}
	}
	return score, covered
}

// Tick is one live price update from a market stream. Timestamp is
// unix seconds.
type Tick struct {
	CoinID    string
	Price     float64
	Volume    float64
	Timestamp int64
}
