package screening

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"CoinScreen/internal/domain/models"
	domsvc "CoinScreen/internal/domain/service"
)

// Engine runs the multi-timeframe screening pipeline: cumulative
// returns, per-horizon ranking, bucket/trend/momentum scoring, and
// leaderboard aggregation. It is a pure computation with no I/O and no
// state between runs, so identical inputs always produce an identical
// board.
type Engine struct {
	scoring models.ScoringConfig
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the per-coin fan-out width. Values below 2 keep the
// run single-threaded.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine creates an engine with the given scoring preset. Empty
// bucket rules fall back to the stock preset; unordered rules are
// rejected.
func NewEngine(scoring models.ScoringConfig, opts ...Option) (*Engine, error) {
	if len(scoring.Buckets) == 0 {
		scoring.Buckets = models.DefaultScoringConfig().Buckets
	}
	if !ValidBuckets(scoring.Buckets) {
		return nil, fmt.Errorf("bucket rules must be strictly ordered by max rank")
	}
	e := &Engine{scoring: scoring, workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Input aliases the domain-level run input so callers can depend on the
// domain interface while package-local code stays short.
type Input = domsvc.ScreenInput

var _ domsvc.Screener = (*Engine)(nil)

// coinWindow is the per-coin outcome of one horizon's window
// resolution.
type coinWindow struct {
	ret     models.Return
	endDate time.Time
	trend   int
	covered bool
}

// ComputeLeaderboard executes one full run. It returns either a
// complete result or an error: cancellation between horizons yields
// ctx.Err() with no partial board, an unusable spec yields
// ErrInvalidTimeframeSpec, and a universe with no data yields the
// diagnostic-only result together with ErrEmptyUniverse.
func (e *Engine) ComputeLeaderboard(ctx context.Context, in Input) (*models.ScreeningResult, error) {
	days, err := normalizeDays(in.Spec.Days)
	if err != nil {
		return nil, err
	}
	if in.Spec.Direction == models.DirectionForward && in.Spec.Anchor.IsZero() {
		return nil, fmt.Errorf("%w: forward direction requires an anchor date", ErrInvalidTimeframeSpec)
	}
	if err := e.checkAnchorBounds(in); err != nil {
		return nil, err
	}

	resultsByCoin := make(map[string][]models.TimeframeResult, len(in.Coins))
	for _, c := range in.Coins {
		resultsByCoin[c.ID] = make([]models.TimeframeResult, 0, len(days))
	}

	var prevRanks map[string]int
	var prevReturns map[string]models.Return

	for _, d := range days {
		// Coarse cancellation checkpoint: abort between horizons, never
		// hand back a half-aggregated board.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		windows := e.resolveWindows(in, d)

		metric := make(map[string]float64)
		returns := make(map[string]models.Return, len(windows))
		for id, w := range windows {
			returns[id] = w.ret
			if w.ret.Defined {
				metric[id] = w.ret.Value
			}
		}

		ranks, err := RankByMetric(metric)
		if err != nil {
			// Nothing rankable on this horizon; every coin records an
			// undefined result and the horizon drops out of aggregation.
			for _, c := range in.Coins {
				resultsByCoin[c.ID] = append(resultsByCoin[c.ID], models.TimeframeResult{
					CoinID:        c.ID,
					TimeframeDays: d,
				})
			}
			prevRanks, prevReturns = nil, nil
			continue
		}

		var momentum map[string]MomentumScore
		if prevRanks != nil {
			momentum = MomentumScores(e.scoring.Buckets, prevRanks, ranks, prevReturns, returns)
		}

		for _, c := range in.Coins {
			w := windows[c.ID]
			res := models.TimeframeResult{
				CoinID:           c.ID,
				TimeframeDays:    d,
				CumulativeReturn: w.ret,
			}
			if w.ret.Defined {
				res.ReturnPct = w.ret.Value
				res.ReturnDefined = true
				res.RankPosition = ranks[c.ID]
				res.RankScore = BucketScore(e.scoring.Buckets, res.RankPosition)
				res.TrendScore = w.trend
				res.TrendCovered = w.covered
				if m, ok := momentum[c.ID]; ok {
					res.MomentumScore = m.Total()
				}
				res.CombinedScore = float64(res.RankScore+res.TrendScore) + res.MomentumScore
			}
			resultsByCoin[c.ID] = append(resultsByCoin[c.ID], res)
		}

		prevRanks, prevReturns = ranks, returns
	}

	entries, skipped := BuildLeaderboard(resultsByCoin, in.OrderBy)
	result := &models.ScreeningResult{
		Leaderboard: entries,
		Results:     flattenResults(resultsByCoin, days),
		Skipped:     skipped,
		Statistics:  ComputeStatistics(resultsByCoin),
		AnchorDate:  in.Spec.Anchor,
		Direction:   in.Spec.Direction,
		Timeframes:  days,
		OrderBy:     in.OrderBy,
		TotalCoins:  len(in.Coins),
		ComputedAt:  time.Now().UTC(),
	}
	if len(entries) == 0 {
		return result, ErrEmptyUniverse
	}
	return result, nil
}

// resolveWindows computes the return window and trend score for every
// coin on one horizon. Coins are independent here, so the work fans out
// over the configured worker count.
func (e *Engine) resolveWindows(in Input, days int) map[string]coinWindow {
	windows := make([]coinWindow, len(in.Coins))

	resolve := func(i int) {
		c := in.Coins[i]
		ret, endDate := CumulativeReturn(in.Prices[c.ID], in.Spec, days)
		w := coinWindow{ret: ret, endDate: endDate}
		if ret.Defined {
			w.trend, w.covered = TrendScoreAt(in.Trends[c.ID], endDate)
		}
		windows[i] = w
	}

	if e.workers < 2 || len(in.Coins) < 2 {
		for i := range in.Coins {
			resolve(i)
		}
	} else {
		var wg sync.WaitGroup
		idx := make(chan int)
		for w := 0; w < e.workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range idx {
					resolve(i)
				}
			}()
		}
		for i := range in.Coins {
			idx <- i
		}
		close(idx)
		wg.Wait()
	}

	out := make(map[string]coinWindow, len(in.Coins))
	for i, c := range in.Coins {
		out[c.ID] = windows[i]
	}
	return out
}

// checkAnchorBounds fails the run when the anchor date precedes every
// coin's series, meaning no window can be resolved anywhere.
func (e *Engine) checkAnchorBounds(in Input) error {
	if in.Spec.Anchor.IsZero() {
		return nil
	}
	for _, c := range in.Coins {
		if anchorIndex(in.Prices[c.ID], in.Spec.Anchor) >= 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: anchor date outside series bounds for every coin", ErrInvalidTimeframeSpec)
}

// flattenResults orders the per-coin result groups by timeframe then
// coin ID for the serialization boundary.
func flattenResults(resultsByCoin map[string][]models.TimeframeResult, days []int) []models.TimeframeResult {
	ids := make([]string, 0, len(resultsByCoin))
	for id := range resultsByCoin {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.TimeframeResult, 0, len(ids)*len(days))
	for i, d := range days {
		for _, id := range ids {
			results := resultsByCoin[id]
			if i < len(results) && results[i].TimeframeDays == d {
				out = append(out, results[i])
			}
		}
	}
	return out
}

// normalizeDays sorts and de-duplicates the horizon list, rejecting
// empty or non-positive input.
func normalizeDays(days []int) ([]int, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no timeframes", ErrInvalidTimeframeSpec)
	}
	seen := make(map[int]struct{}, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d <= 0 {
			return nil, fmt.Errorf("%w: timeframe %d is not positive", ErrInvalidTimeframeSpec, d)
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Ints(out)
	return out, nil
}
