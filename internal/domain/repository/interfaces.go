package repository

import (
	"context"
	"time"

	"CoinScreen/internal/domain/models"
)

// MarketStream is a live price feed (websocket) for the universe.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// PriceSeriesProvider supplies time-ordered daily price series, one
// point per day, restricted to the days the coin actually traded.
type PriceSeriesProvider interface {
	GetPriceSeries(ctx context.Context, coinID string, limitDays int) ([]models.PricePoint, error)
	GetPriceSeriesBatch(ctx context.Context, coinIDs []string, limitDays int) (map[string][]models.PricePoint, error)
}

// TickStore persists live ticks and backfilled daily closes.
type TickStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreTicks(ctx context.Context, ticks []*models.Tick) error
	StoreDailyCloses(ctx context.Context, coinID string, points []models.PricePoint) error
	Health(ctx context.Context) error // ping
	Close() error
}

// ResultStore persists the outcome of screening runs.
type ResultStore interface {
	SaveRun(ctx context.Context, res *models.ScreeningResult) error
	LatestRun(ctx context.Context, direction models.Direction, anchor time.Time) (*models.ScreeningResult, error)
	Health(ctx context.Context) error
	Close() error
}

// Publisher announces completed leaderboards to downstream consumers
// (dashboards, alerting).
type Publisher interface {
	PublishLeaderboard(ctx context.Context, res *models.ScreeningResult) error
	Close() error
}

// Metrics records operational counters for collection and screening.
type Metrics interface {
	RecordTickStored(source, coinID string)
	RecordError(kind string)
	RecordLastPrice(coinID string, price float64)
	RecordLatency(op string, seconds float64)
	RecordRun(direction string, ranked, skipped int)
}
