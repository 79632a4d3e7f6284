package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"CoinScreen/internal/domain/models"
	"CoinScreen/internal/services/indicators"
	"CoinScreen/internal/services/screening"
)

type fakePrices struct {
	series map[string][]models.PricePoint
}

func (f *fakePrices) GetPriceSeries(_ context.Context, coinID string, _ int) ([]models.PricePoint, error) {
	return f.series[coinID], nil
}

func (f *fakePrices) GetPriceSeriesBatch(_ context.Context, coinIDs []string, _ int) (map[string][]models.PricePoint, error) {
	out := make(map[string][]models.PricePoint, len(coinIDs))
	for _, id := range coinIDs {
		if s, ok := f.series[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

type fakeMetrics struct {
	runs   int
	errors int
}

func (m *fakeMetrics) RecordTickStored(string, string) {}
func (m *fakeMetrics) RecordError(string)              { m.errors++ }
func (m *fakeMetrics) RecordLastPrice(string, float64) {}
func (m *fakeMetrics) RecordLatency(string, float64)   {}
func (m *fakeMetrics) RecordRun(string, int, int)      { m.runs++ }

func risingSeries(n int, start float64) []models.PricePoint {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.PricePoint, n)
	for i := range out {
		out[i] = models.PricePoint{Date: base.AddDate(0, 0, i), Price: start * (1 + 0.01*float64(i))}
	}
	return out
}

func newTestRunner(t *testing.T, prices *fakePrices, metrics *fakeMetrics) *ScreeningRunner {
	t.Helper()
	engine, err := screening.NewEngine(models.DefaultScoringConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return NewScreeningRunner(
		prices, engine, nil, nil, nil, metrics, nil,
		indicators.DefaultPeriods(), models.DefaultScoringConfig(), time.Hour,
	)
}

func TestRunnerProducesLeaderboard(t *testing.T) {
	prices := &fakePrices{series: map[string][]models.PricePoint{
		"alpha": risingSeries(40, 100),
		"beta":  risingSeries(40, 50),
	}}
	metrics := &fakeMetrics{}
	runner := newTestRunner(t, prices, metrics)

	res, err := runner.Run(context.Background(), RunParams{
		CoinIDs: []string{"alpha", "beta"},
		Spec:    models.TimeframeSpec{Days: []int{7, 14}, Direction: models.DirectionBackward},
		OrderBy: models.OrderByTotalScore,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Leaderboard) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(res.Leaderboard))
	}
	if metrics.runs != 1 {
		t.Fatalf("expected 1 recorded run, got %d", metrics.runs)
	}

	// Trend signals must have been derived: rising series sit above
	// every moving average on the last day.
	for _, e := range res.Leaderboard {
		for _, tf := range e.Timeframes {
			if !tf.ReturnDefined {
				t.Fatalf("coin %s has undefined return on %dd", e.CoinID, tf.TimeframeDays)
			}
		}
	}
}

func TestRunnerEmptyUniversePassthrough(t *testing.T) {
	prices := &fakePrices{series: map[string][]models.PricePoint{}}
	metrics := &fakeMetrics{}
	runner := newTestRunner(t, prices, metrics)

	res, err := runner.Run(context.Background(), RunParams{
		CoinIDs: []string{"ghost"},
		Spec:    models.TimeframeSpec{Days: []int{7}, Direction: models.DirectionBackward},
		OrderBy: models.OrderByTotalScore,
	})
	if !errors.Is(err, screening.ErrEmptyUniverse) {
		t.Fatalf("expected ErrEmptyUniverse, got %v", err)
	}
	if res == nil || len(res.Skipped) != 1 {
		t.Fatalf("expected diagnostic result with one skipped coin, got %+v", res)
	}
	if metrics.runs != 0 {
		t.Fatalf("empty run must not be recorded, got %d", metrics.runs)
	}
}

func TestRunnerInvalidSpec(t *testing.T) {
	prices := &fakePrices{series: map[string][]models.PricePoint{"alpha": risingSeries(10, 100)}}
	runner := newTestRunner(t, prices, &fakeMetrics{})

	_, err := runner.Run(context.Background(), RunParams{
		CoinIDs: []string{"alpha"},
		Spec:    models.TimeframeSpec{Days: nil, Direction: models.DirectionBackward},
		OrderBy: models.OrderByTotalScore,
	})
	if !errors.Is(err, screening.ErrInvalidTimeframeSpec) {
		t.Fatalf("expected ErrInvalidTimeframeSpec, got %v", err)
	}
}
