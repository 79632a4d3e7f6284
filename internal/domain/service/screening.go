package service

import (
	"context"

	"CoinScreen/internal/domain/models"
)

// ScreenInput is everything one screening run consumes. Price and trend
// series must be time-ordered with one point per day; both maps are
// keyed by coin ID.
type ScreenInput struct {
	Coins   []models.Coin
	Prices  map[string][]models.PricePoint
	Trends  map[string][]models.TrendSignal
	Spec    models.TimeframeSpec
	OrderBy models.OrderBy
}

// Screener executes one screening run over in-memory inputs and
// returns the complete leaderboard with diagnostics.
type Screener interface {
	ComputeLeaderboard(ctx context.Context, in ScreenInput) (*models.ScreeningResult, error)
}
