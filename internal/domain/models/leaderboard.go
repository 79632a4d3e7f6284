package models

import "time"

// TimeframeResult is the per-(coin, horizon) outcome of one run. Rank
// and score fields are only meaningful when CumulativeReturn.Defined;
// an undefined return excludes the coin from that horizon's ranking and
// zeroes every score for it.
type TimeframeResult struct {
	CoinID           string  `json:"coin_id"`
	TimeframeDays    int     `json:"timeframe_days"`
	CumulativeReturn Return  `json:"-"`
	ReturnPct        float64 `json:"return_pct"`
	ReturnDefined    bool    `json:"return_defined"`
	RankPosition     int     `json:"rank_position"`
	RankScore        int     `json:"rank_score"`
	TrendScore       int     `json:"trend_score"`
	TrendCovered     bool    `json:"trend_covered"`
	MomentumScore    float64 `json:"momentum_score"`
	CombinedScore    float64 `json:"combined_score"`
}

// TimeframeBreakdown is the compact per-horizon view embedded in a
// leaderboard entry.
type TimeframeBreakdown struct {
	TimeframeDays int     `json:"timeframe_days"`
	ReturnPct     float64 `json:"return_pct"`
	ReturnDefined bool    `json:"return_defined"`
	RankPosition  int     `json:"rank_position"`
	CombinedScore float64 `json:"combined_score"`
}

// LeaderboardEntry is one coin's aggregated line on the final board.
type LeaderboardEntry struct {
	CoinID        string               `json:"coin_id"`
	TotalScore    float64              `json:"total_score"`
	AverageReturn float64              `json:"average_return"`
	BestRank      int                  `json:"best_rank"`
	Timeframes    []TimeframeBreakdown `json:"timeframes"`
	FinalRank     int                  `json:"final_rank"`
}

// SkippedCoin records a coin dropped from the run and why. Skips are
// reported, never silent.
type SkippedCoin struct {
	CoinID string `json:"coin_id"`
	Reason string `json:"reason"`
}

// DistributionStats summarizes one metric across all per-timeframe
// results.
type DistributionStats struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// Statistics aggregates run-level distribution figures.
type Statistics struct {
	TotalAnalyses int               `json:"total_analyses"`
	UniqueCoins   int               `json:"unique_coins"`
	ScoreStats    DistributionStats `json:"score_stats"`
	ReturnStats   DistributionStats `json:"return_stats"`
}

// ScreeningResult is the complete output of one analysis run.
type ScreeningResult struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	// Results holds every per-(coin, timeframe) record, ordered by
	// timeframe then coin ID, for persistence and export.
	Results    []TimeframeResult `json:"results,omitempty"`
	Skipped    []SkippedCoin     `json:"skipped"`
	Statistics Statistics        `json:"statistics"`
	AnchorDate time.Time         `json:"anchor_date"`
	Direction  Direction         `json:"direction"`
	Timeframes []int             `json:"timeframes"`
	OrderBy    OrderBy           `json:"order_by"`
	TotalCoins int               `json:"total_coins"`
	ComputedAt time.Time         `json:"computed_at"`
}
