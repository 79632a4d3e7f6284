package models

import "time"

// Direction selects which endpoint of the analysis window is fixed.
type Direction string

const (
	// DirectionBackward measures each horizon ending at the anchor date
	// (the most recent day is the fixed endpoint).
	DirectionBackward Direction = "backward"
	// DirectionForward measures each horizon starting at the anchor date.
	DirectionForward Direction = "forward"
)

// OrderBy selects the leaderboard sort key.
type OrderBy string

const (
	OrderByTotalScore    OrderBy = "total_score"
	OrderByAverageReturn OrderBy = "average_return"
	OrderByBestRank      OrderBy = "best_rank"
)

// TimeframeSpec describes the horizons of one analysis run: an ordered,
// de-duplicated list of window lengths in trading days, the direction,
// and the anchor date.
type TimeframeSpec struct {
	Days      []int
	Direction Direction
	Anchor    time.Time
}

// RankBucket maps ranks up to and including Max to Score.
type RankBucket struct {
	Max   int `yaml:"max" json:"max"`
	Score int `yaml:"score" json:"score"`
}

// ScoringConfig carries every adjustable knob of the scoring heuristic.
type ScoringConfig struct {
	// Buckets must be ordered by ascending Max; ranks beyond the last
	// bucket score 0.
	Buckets []RankBucket `yaml:"buckets" json:"buckets"`
	// Signed weights applied to the three moving-average tiers.
	TrendFastWeight   int `yaml:"trend_fast_weight" json:"trend_fast_weight"`
	TrendMediumWeight int `yaml:"trend_medium_weight" json:"trend_medium_weight"`
	TrendSlowWeight   int `yaml:"trend_slow_weight" json:"trend_slow_weight"`
}

// DefaultScoringConfig returns the stock preset: top-10 scores 3,
// 11–15 scores 2, 16–20 scores 1, trend tiers weigh 1/2/3.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Buckets: []RankBucket{
			{Max: 10, Score: 3},
			{Max: 15, Score: 2},
			{Max: 20, Score: 1},
		},
		TrendFastWeight:   1,
		TrendMediumWeight: 2,
		TrendSlowWeight:   3,
	}
}

// Return is a cumulative return that may be undefined when the price
// series cannot cover the requested horizon. Undefined is a distinct
// state, never encoded as 0.0.
type Return struct {
	Value   float64
	Defined bool
}

// DefinedReturn wraps a concrete percentage value.
func DefinedReturn(v float64) Return { return Return{Value: v, Defined: true} }

// UndefinedReturn marks a horizon the series cannot cover.
func UndefinedReturn() Return { return Return{} }
