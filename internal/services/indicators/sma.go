package indicators

import (
	"errors"

	"CoinScreen/internal/domain/models"
)

// Default SMA periods for the three trend tiers.
const (
	DefaultFastPeriod   = 6
	DefaultMediumPeriod = 11
	DefaultSlowPeriod   = 21
)

// Periods holds the moving-average window of each trend tier.
type Periods struct {
	Fast   int `yaml:"fast" json:"fast"`
	Medium int `yaml:"medium" json:"medium"`
	Slow   int `yaml:"slow" json:"slow"`
}

// DefaultPeriods returns the 6/11/21 day preset.
func DefaultPeriods() Periods {
	return Periods{Fast: DefaultFastPeriod, Medium: DefaultMediumPeriod, Slow: DefaultSlowPeriod}
}

// SMA computes the simple moving average of the last `period` prices.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// TrendSignals derives the signed above/below signals for every date of
// a price series. A day gets ±weight per tier depending on whether the
// close sits above or below that tier's SMA; days without enough history
// for a tier leave it absent rather than neutral.
func TrendSignals(series []models.PricePoint, periods Periods, scoring models.ScoringConfig) []models.TrendSignal {
	if len(series) == 0 {
		return nil
	}
	closes := make([]float64, len(series))
	for i, p := range series {
		closes[i] = p.Price
	}

	out := make([]models.TrendSignal, len(series))
	for i := range series {
		sig := models.TrendSignal{Date: series[i].Date}
		window := closes[:i+1]
		sig.Fast = tierSignal(window, periods.Fast, scoring.TrendFastWeight)
		sig.Medium = tierSignal(window, periods.Medium, scoring.TrendMediumWeight)
		sig.Slow = tierSignal(window, periods.Slow, scoring.TrendSlowWeight)
		out[i] = sig
	}
	return out
}

// tierSignal returns ±weight for one tier, or nil when the window is
// too short.
func tierSignal(window []float64, period, weight int) *int {
	avg, err := SMA(window, period)
	if err != nil {
		return nil
	}
	v := weight
	if window[len(window)-1] < avg {
		v = -weight
	}
	return &v
}
