package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinScreen/internal/domain/models"
	drepo "CoinScreen/internal/domain/repository"
	"CoinScreen/internal/service/coingecko"
	applogger "CoinScreen/pkg/logger"
)

// HistorySync backfills the screening universe: it discovers the top
// coins by market cap and loads each coin's full daily close history
// into the store. Per-coin failures are logged and skipped so one bad
// asset never aborts a whole sync.
type HistorySync struct {
	gecko   *coingecko.Client
	store   drepo.TickStore
	metrics drepo.Metrics
	l       *applogger.Logger

	vsCurrency string
	pages      int
	perPage    int
}

// NewHistorySync creates a backfill job over the configured universe.
func NewHistorySync(gecko *coingecko.Client, store drepo.TickStore, metrics drepo.Metrics, l *applogger.Logger, vsCurrency string, pages, perPage int) *HistorySync {
	if vsCurrency == "" {
		vsCurrency = "btc"
	}
	return &HistorySync{
		gecko:      gecko,
		store:      store,
		metrics:    metrics,
		l:          l,
		vsCurrency: vsCurrency,
		pages:      pages,
		perPage:    perPage,
	}
}

// Run fetches the universe and backfills every coin's history. It
// returns the universe so callers can screen immediately after.
func (h *HistorySync) Run(ctx context.Context) ([]models.Coin, error) {
	start := time.Now()

	coins, err := h.gecko.TopCoins(ctx, h.vsCurrency, h.pages, h.perPage)
	if err != nil {
		h.metrics.RecordError("universe_fetch")
		return nil, fmt.Errorf("fetch universe: %w", err)
	}

	synced, failed := 0, 0
	for _, c := range coins {
		select {
		case <-ctx.Done():
			return coins, ctx.Err()
		default:
		}

		points, err := h.gecko.MarketChart(ctx, c.ID, h.vsCurrency)
		if err != nil {
			failed++
			h.metrics.RecordError("history_fetch")
			if h.l != nil {
				h.l.Warn("history fetch failed",
					applogger.String("coin", c.ID),
					applogger.Error(err),
				)
			}
			continue
		}
		if err := h.store.StoreDailyCloses(ctx, c.ID, points); err != nil {
			failed++
			h.metrics.RecordError("history_store")
			if h.l != nil {
				h.l.Error("history store failed",
					applogger.String("coin", c.ID),
					applogger.Error(err),
				)
			}
			continue
		}
		synced++
	}

	if h.l != nil {
		h.l.Info("history sync complete",
			applogger.Int("coins", len(coins)),
			applogger.Int("synced", synced),
			applogger.Int("failed", failed),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return coins, nil
}
