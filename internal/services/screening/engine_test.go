package screening

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"CoinScreen/internal/domain/models"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(models.DefaultScoringConfig(), opts...)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func TestComputeLeaderboardTwoCoinsBackward(t *testing.T) {
	in := Input{
		Coins: []models.Coin{{ID: "x"}, {ID: "y"}},
		Prices: map[string][]models.PricePoint{
			"x": dailySeries(100, 110),
			"y": dailySeries(100, 95),
		},
		Spec:    models.TimeframeSpec{Days: []int{1}, Direction: models.DirectionBackward, Anchor: day(1)},
		OrderBy: models.OrderByTotalScore,
	}

	res, err := newTestEngine(t).ComputeLeaderboard(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Leaderboard) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(res.Leaderboard))
	}
	if res.Leaderboard[0].CoinID != "x" || res.Leaderboard[0].FinalRank != 1 {
		t.Fatalf("expected x on top, got %+v", res.Leaderboard[0])
	}

	byCoin := resultsFor(res, 1)
	if !approx(byCoin["x"].ReturnPct, 10.0) || !approx(byCoin["y"].ReturnPct, -5.0) {
		t.Fatalf("unexpected returns: %+v", byCoin)
	}
	if byCoin["x"].RankPosition != 1 || byCoin["y"].RankPosition != 2 {
		t.Fatalf("unexpected ranks: %+v", byCoin)
	}
	// Both land in the top-10 bucket on a 2-coin universe.
	if byCoin["x"].RankScore != 3 || byCoin["y"].RankScore != 3 {
		t.Fatalf("unexpected rank scores: %+v", byCoin)
	}
	// First timeframe carries no momentum component.
	if byCoin["x"].MomentumScore != 0 {
		t.Fatalf("first timeframe must have momentum 0")
	}
	if !approx(byCoin["x"].CombinedScore, float64(byCoin["x"].RankScore+byCoin["x"].TrendScore)) {
		t.Fatalf("first-timeframe combined score must be rank+trend only")
	}
}

func TestComputeLeaderboardDominance(t *testing.T) {
	// 25 coins with strictly ordered daily growth: coin i outperforms
	// coin i+1 on every horizon, so ranks and totals must follow.
	const n = 25
	coins := make([]models.Coin, n)
	prices := make(map[string][]models.PricePoint, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("c%02d", i)
		coins[i] = models.Coin{ID: id}
		growth := 1.20 - float64(i)*0.01
		series := make([]float64, 7)
		p := 100.0
		for d := range series {
			series[d] = p
			p *= growth
		}
		prices[id] = dailySeries(series...)
	}

	in := Input{
		Coins:   coins,
		Prices:  prices,
		Spec:    models.TimeframeSpec{Days: []int{1, 3, 5}, Direction: models.DirectionBackward},
		OrderBy: models.OrderByTotalScore,
	}
	res, err := newTestEngine(t).ComputeLeaderboard(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, d := range []int{1, 3, 5} {
		byCoin := resultsFor(res, d)
		for i := 0; i < n-1; i++ {
			a := byCoin[fmt.Sprintf("c%02d", i)]
			b := byCoin[fmt.Sprintf("c%02d", i+1)]
			if a.RankPosition > b.RankPosition {
				t.Fatalf("timeframe %d: c%02d ranked below c%02d", d, i, i+1)
			}
		}
	}

	// Bucket boundaries bite on a 25-coin universe.
	byCoin := resultsFor(res, 1)
	if byCoin["c09"].RankScore != 3 || byCoin["c10"].RankScore != 2 ||
		byCoin["c15"].RankScore != 1 || byCoin["c20"].RankScore != 0 {
		t.Fatalf("bucket boundaries wrong: %d %d %d %d",
			byCoin["c09"].RankScore, byCoin["c10"].RankScore,
			byCoin["c15"].RankScore, byCoin["c20"].RankScore)
	}

	totals := make(map[string]float64, n)
	for _, e := range res.Leaderboard {
		totals[e.CoinID] = e.TotalScore
	}
	for i := 0; i < n-1; i++ {
		if totals[fmt.Sprintf("c%02d", i)] < totals[fmt.Sprintf("c%02d", i+1)] {
			t.Fatalf("c%02d total below c%02d", i, i+1)
		}
	}
}

func TestComputeLeaderboardIdempotent(t *testing.T) {
	in := Input{
		Coins: []models.Coin{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Prices: map[string][]models.PricePoint{
			"a": dailySeries(100, 105, 112, 118),
			"b": dailySeries(100, 104, 112, 119),
			"c": dailySeries(100, 90, 85, 99),
		},
		Trends: map[string][]models.TrendSignal{
			"a": {{Date: day(3), Fast: intp(1), Medium: intp(2), Slow: intp(3)}},
			"b": {{Date: day(3), Fast: intp(-1), Medium: intp(2), Slow: intp(-3)}},
		},
		Spec:    models.TimeframeSpec{Days: []int{1, 2, 3}, Direction: models.DirectionBackward},
		OrderBy: models.OrderByTotalScore,
	}
	e := newTestEngine(t, WithWorkers(4))

	first, err := e.ComputeLeaderboard(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.ComputeLeaderboard(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first.Leaderboard, second.Leaderboard) {
		t.Fatalf("leaderboard not idempotent")
	}
	if !reflect.DeepEqual(first.Results, second.Results) {
		t.Fatalf("results not idempotent")
	}
	if !reflect.DeepEqual(first.Skipped, second.Skipped) {
		t.Fatalf("skips not idempotent")
	}
}

func TestComputeLeaderboardSinglePricePointSkipped(t *testing.T) {
	in := Input{
		Coins: []models.Coin{{ID: "full"}, {ID: "stub"}},
		Prices: map[string][]models.PricePoint{
			"full": dailySeries(100, 110, 121),
			"stub": dailySeries(42),
		},
		Spec:    models.TimeframeSpec{Days: []int{1, 2}, Direction: models.DirectionBackward},
		OrderBy: models.OrderByTotalScore,
	}
	res, err := newTestEngine(t).ComputeLeaderboard(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Leaderboard) != 1 || res.Leaderboard[0].CoinID != "full" {
		t.Fatalf("expected only full on the board, got %+v", res.Leaderboard)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].CoinID != "stub" {
		t.Fatalf("expected stub skipped with a diagnostic, got %+v", res.Skipped)
	}
	for _, r := range res.Results {
		if r.CoinID == "stub" && r.ReturnDefined {
			t.Fatalf("stub must have undefined returns everywhere")
		}
	}
}

func TestComputeLeaderboardNoTrendData(t *testing.T) {
	in := Input{
		Coins: []models.Coin{{ID: "w"}, {ID: "v"}},
		Prices: map[string][]models.PricePoint{
			"w": dailySeries(100, 120, 130, 150),
			"v": dailySeries(100, 101, 103, 104),
		},
		Trends: map[string][]models.TrendSignal{
			"v": {{Date: day(3), Fast: intp(1), Medium: intp(2), Slow: intp(3)}},
		},
		Spec:    models.TimeframeSpec{Days: []int{1, 2, 3}, Direction: models.DirectionBackward},
		OrderBy: models.OrderByTotalScore,
	}
	res, err := newTestEngine(t).ComputeLeaderboard(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range res.Results {
		if r.CoinID != "w" {
			continue
		}
		if r.TrendScore != 0 || r.TrendCovered {
			t.Fatalf("coin without trend data must score 0 uncovered, got %+v", r)
		}
		if r.ReturnDefined && !approx(r.CombinedScore, float64(r.RankScore)+r.MomentumScore) {
			t.Fatalf("combined score must not carry a trend component: %+v", r)
		}
	}
}

func TestComputeLeaderboardOrderModes(t *testing.T) {
	// spike wins on average return, steady wins on score via trend.
	in := Input{
		Coins: []models.Coin{{ID: "spike"}, {ID: "steady"}},
		Prices: map[string][]models.PricePoint{
			"spike":  dailySeries(100, 150),
			"steady": dailySeries(100, 110),
		},
		Trends: map[string][]models.TrendSignal{
			"spike":  {{Date: day(1), Fast: intp(-1), Medium: intp(-2), Slow: intp(-3)}},
			"steady": {{Date: day(1), Fast: intp(1), Medium: intp(2), Slow: intp(3)}},
		},
		Spec:    models.TimeframeSpec{Days: []int{1}, Direction: models.DirectionBackward},
		OrderBy: models.OrderByTotalScore,
	}
	e := newTestEngine(t)

	byScore, err := e.ComputeLeaderboard(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in.OrderBy = models.OrderByAverageReturn
	byReturn, err := e.ComputeLeaderboard(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if byScore.Leaderboard[0].CoinID != "steady" {
		t.Fatalf("total_score ordering should favor steady, got %s", byScore.Leaderboard[0].CoinID)
	}
	if byReturn.Leaderboard[0].CoinID != "spike" {
		t.Fatalf("average_return ordering should favor spike, got %s", byReturn.Leaderboard[0].CoinID)
	}
}

func TestComputeLeaderboardBestRankOrdering(t *testing.T) {
	in := Input{
		Coins: []models.Coin{{ID: "a"}, {ID: "b"}},
		Prices: map[string][]models.PricePoint{
			"a": dailySeries(100, 90, 140),
			"b": dailySeries(100, 120, 150),
		},
		Spec:    models.TimeframeSpec{Days: []int{1, 2}, Direction: models.DirectionBackward},
		OrderBy: models.OrderByBestRank,
	}
	res, err := newTestEngine(t).ComputeLeaderboard(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Both coins reach rank 1 somewhere; best_rank ties break by coin ID.
	if res.Leaderboard[0].CoinID != "a" {
		t.Fatalf("best_rank tie must break by coin id, got %s", res.Leaderboard[0].CoinID)
	}
}

func TestComputeLeaderboardInvalidSpec(t *testing.T) {
	e := newTestEngine(t)
	base := Input{
		Coins:  []models.Coin{{ID: "a"}},
		Prices: map[string][]models.PricePoint{"a": dailySeries(100, 110)},
	}

	in := base
	in.Spec = models.TimeframeSpec{Direction: models.DirectionBackward}
	if _, err := e.ComputeLeaderboard(context.Background(), in); !errors.Is(err, ErrInvalidTimeframeSpec) {
		t.Fatalf("empty timeframes: expected ErrInvalidTimeframeSpec, got %v", err)
	}

	in = base
	in.Spec = models.TimeframeSpec{Days: []int{1, 0}, Direction: models.DirectionBackward}
	if _, err := e.ComputeLeaderboard(context.Background(), in); !errors.Is(err, ErrInvalidTimeframeSpec) {
		t.Fatalf("non-positive timeframe: expected ErrInvalidTimeframeSpec, got %v", err)
	}

	in = base
	in.Spec = models.TimeframeSpec{Days: []int{1}, Direction: models.DirectionForward}
	if _, err := e.ComputeLeaderboard(context.Background(), in); !errors.Is(err, ErrInvalidTimeframeSpec) {
		t.Fatalf("forward without anchor: expected ErrInvalidTimeframeSpec, got %v", err)
	}

	in = base
	in.Spec = models.TimeframeSpec{Days: []int{1}, Direction: models.DirectionBackward, Anchor: day(-10)}
	if _, err := e.ComputeLeaderboard(context.Background(), in); !errors.Is(err, ErrInvalidTimeframeSpec) {
		t.Fatalf("anchor outside all series: expected ErrInvalidTimeframeSpec, got %v", err)
	}
}

func TestComputeLeaderboardEmptyUniverse(t *testing.T) {
	in := Input{
		Coins:   []models.Coin{{ID: "a"}, {ID: "b"}},
		Prices:  map[string][]models.PricePoint{},
		Spec:    models.TimeframeSpec{Days: []int{1}, Direction: models.DirectionBackward},
		OrderBy: models.OrderByTotalScore,
	}
	res, err := newTestEngine(t).ComputeLeaderboard(context.Background(), in)
	if !errors.Is(err, ErrEmptyUniverse) {
		t.Fatalf("expected ErrEmptyUniverse, got %v", err)
	}
	if res == nil || len(res.Leaderboard) != 0 {
		t.Fatalf("empty universe must still return an empty board")
	}
	if len(res.Skipped) != 2 {
		t.Fatalf("every coin must be reported skipped, got %+v", res.Skipped)
	}
}

func TestComputeLeaderboardCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := Input{
		Coins:   []models.Coin{{ID: "a"}},
		Prices:  map[string][]models.PricePoint{"a": dailySeries(100, 110)},
		Spec:    models.TimeframeSpec{Days: []int{1}, Direction: models.DirectionBackward},
		OrderBy: models.OrderByTotalScore,
	}
	res, err := newTestEngine(t).ComputeLeaderboard(ctx, in)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res != nil {
		t.Fatalf("cancelled run must not return a partial board")
	}
}

func TestComputeLeaderboardStatistics(t *testing.T) {
	in := Input{
		Coins: []models.Coin{{ID: "a"}, {ID: "b"}},
		Prices: map[string][]models.PricePoint{
			"a": dailySeries(100, 110),
			"b": dailySeries(100, 90),
		},
		Spec:    models.TimeframeSpec{Days: []int{1}, Direction: models.DirectionBackward},
		OrderBy: models.OrderByTotalScore,
	}
	res, err := newTestEngine(t).ComputeLeaderboard(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := res.Statistics
	if s.TotalAnalyses != 2 || s.UniqueCoins != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if !approx(s.ReturnStats.Mean, 0) || !approx(s.ReturnStats.Max, 10) || !approx(s.ReturnStats.Min, -10) {
		t.Fatalf("unexpected return stats: %+v", s.ReturnStats)
	}
	if !approx(s.ReturnStats.Std, 10) {
		t.Fatalf("expected std 10, got %v", s.ReturnStats.Std)
	}
	if math.IsNaN(s.ScoreStats.Median) {
		t.Fatalf("median must be defined")
	}
}

// resultsFor indexes the flat result list by coin for one timeframe.
func resultsFor(res *models.ScreeningResult, days int) map[string]models.TimeframeResult {
	out := make(map[string]models.TimeframeResult)
	for _, r := range res.Results {
		if r.TimeframeDays == days {
			out[r.CoinID] = r
		}
	}
	return out
}
