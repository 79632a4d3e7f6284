package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"CoinScreen/internal/domain/models"
	drepo "CoinScreen/internal/domain/repository"
	domsvc "CoinScreen/internal/domain/service"
	"CoinScreen/internal/services/indicators"
	"CoinScreen/internal/services/screening"
	pkgcache "CoinScreen/pkg/cache"
	applogger "CoinScreen/pkg/logger"
	"CoinScreen/pkg/util"
)

// RunParams describes one requested screening run.
type RunParams struct {
	CoinIDs []string
	Spec    models.TimeframeSpec
	OrderBy models.OrderBy
}

// ScreeningRunner orchestrates a run end to end: load each coin's daily
// series, derive trend signals, hand everything to the screener, then
// cache, archive, and announce the outcome.
type ScreeningRunner struct {
	prices   drepo.PriceSeriesProvider
	screener domsvc.Screener
	results  drepo.ResultStore
	pub      drepo.Publisher
	cache    *pkgcache.LayeredCache
	metrics  drepo.Metrics
	l        *applogger.Logger

	periods  indicators.Periods
	scoring  models.ScoringConfig
	cacheTTL time.Duration
}

// NewScreeningRunner creates a runner. results, pub, and cache may be
// nil; the corresponding step is skipped.
func NewScreeningRunner(
	prices drepo.PriceSeriesProvider,
	screener domsvc.Screener,
	results drepo.ResultStore,
	pub drepo.Publisher,
	cache *pkgcache.LayeredCache,
	metrics drepo.Metrics,
	l *applogger.Logger,
	periods indicators.Periods,
	scoring models.ScoringConfig,
	cacheTTL time.Duration,
) *ScreeningRunner {
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Hour
	}
	return &ScreeningRunner{
		prices:   prices,
		screener: screener,
		results:  results,
		pub:      pub,
		cache:    cache,
		metrics:  metrics,
		l:        l,
		periods:  periods,
		scoring:  scoring,
		cacheTTL: cacheTTL,
	}
}

// Run executes one screening run. A run over a universe with no usable
// data returns the diagnostic result together with the screener's
// error; such runs are not cached, archived, or published.
func (r *ScreeningRunner) Run(ctx context.Context, params RunParams) (*models.ScreeningResult, error) {
	start := time.Now()

	key := r.runKey(params)
	if r.cache != nil {
		var cached models.ScreeningResult
		if err := r.cache.Get(ctx, key, &cached); err == nil {
			if r.l != nil {
				r.l.Debug("screening run cache hit", applogger.String("key", key))
			}
			return &cached, nil
		}
	}

	series, err := r.prices.GetPriceSeriesBatch(ctx, params.CoinIDs, 0)
	if err != nil {
		r.metrics.RecordError("load_prices")
		return nil, fmt.Errorf("load price series: %w", err)
	}

	coins := make([]models.Coin, len(params.CoinIDs))
	trends := make(map[string][]models.TrendSignal, len(params.CoinIDs))
	for i, id := range params.CoinIDs {
		coins[i] = models.Coin{ID: id}
		trends[id] = indicators.TrendSignals(series[id], r.periods, r.scoring)
	}

	res, err := r.screener.ComputeLeaderboard(ctx, domsvc.ScreenInput{
		Coins:   coins,
		Prices:  series,
		Trends:  trends,
		Spec:    params.Spec,
		OrderBy: params.OrderBy,
	})
	if err != nil {
		if !errors.Is(err, screening.ErrEmptyUniverse) {
			r.metrics.RecordError("screening")
		}
		return res, err
	}

	r.metrics.RecordRun(string(res.Direction), len(res.Leaderboard), len(res.Skipped))
	r.metrics.RecordLatency("screening_run", time.Since(start).Seconds())

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, res, r.cacheTTL); err != nil && r.l != nil {
			r.l.Warn("screening run cache set failed", applogger.Error(err))
		}
	}
	if r.results != nil {
		if err := r.results.SaveRun(ctx, res); err != nil {
			r.metrics.RecordError("save_run")
			if r.l != nil {
				r.l.Error("screening run archive failed", applogger.Error(err))
			}
		}
	}
	if r.pub != nil {
		if err := r.pub.PublishLeaderboard(ctx, res); err != nil {
			r.metrics.RecordError("publish_leaderboard")
			if r.l != nil {
				r.l.Error("leaderboard publish failed", applogger.Error(err))
			}
		}
	}

	if r.l != nil {
		r.l.Info("screening run complete",
			applogger.String("direction", string(res.Direction)),
			applogger.Int("coins", res.TotalCoins),
			applogger.Int("ranked", len(res.Leaderboard)),
			applogger.Int("skipped", len(res.Skipped)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return res, nil
}

// Latest returns the most recent archived run for a direction, or nil
// when none exists.
func (r *ScreeningRunner) Latest(ctx context.Context, direction models.Direction, anchor time.Time) (*models.ScreeningResult, error) {
	if r.results == nil {
		return nil, nil
	}
	return r.results.LatestRun(ctx, direction, anchor)
}

// runKey builds the deterministic cache key of a run: same universe,
// spec, and ordering hit the same entry.
func (r *ScreeningRunner) runKey(params RunParams) string {
	days := make([]string, len(params.Spec.Days))
	for i, d := range params.Spec.Days {
		days[i] = fmt.Sprintf("%d", d)
	}
	anchor := ""
	if !params.Spec.Anchor.IsZero() {
		anchor = util.Day(params.Spec.Anchor).Format(util.DateLayout)
	}
	return pkgcache.GenerateKeyWithParams("coinscreen:run",
		string(params.Spec.Direction),
		anchor,
		strings.Join(days, "-"),
		string(params.OrderBy),
		pkgcache.HashKey(strings.Join(params.CoinIDs, ",")),
	)
}
