package indicators

import (
	"testing"
	"time"

	"CoinScreen/internal/domain/models"
)

func TestSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	got, err := SMA(prices, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}
}

func TestSMAInsufficientData(t *testing.T) {
	if _, err := SMA([]float64{1, 2}, 3); err == nil {
		t.Fatalf("expected error for short series")
	}
	if _, err := SMA([]float64{1, 2}, 0); err == nil {
		t.Fatalf("expected error for non-positive period")
	}
}

func TestTrendSignalsWeightsAndCoverage(t *testing.T) {
	series := make([]models.PricePoint, 6)
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	// Rising closes: the last day sits above every computable average.
	for i := range series {
		series[i] = models.PricePoint{Date: start.AddDate(0, 0, i), Price: float64(100 + i*10)}
	}

	periods := Periods{Fast: 2, Medium: 4, Slow: 10}
	signals := TrendSignals(series, periods, models.DefaultScoringConfig())
	if len(signals) != len(series) {
		t.Fatalf("expected %d signals, got %d", len(series), len(signals))
	}

	last := signals[len(signals)-1]
	if last.Fast == nil || *last.Fast != 1 {
		t.Fatalf("expected fast +1, got %v", last.Fast)
	}
	if last.Medium == nil || *last.Medium != 2 {
		t.Fatalf("expected medium +2, got %v", last.Medium)
	}
	if last.Slow != nil {
		t.Fatalf("slow tier must be absent with only 6 points, got %v", *last.Slow)
	}

	// First day: no tier has two points yet, fast is absent too.
	if signals[0].Fast != nil {
		t.Fatalf("first day must have no fast signal")
	}
}

func TestTrendSignalsBelowAverage(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	series := []models.PricePoint{
		{Date: start, Price: 100},
		{Date: start.AddDate(0, 0, 1), Price: 100},
		{Date: start.AddDate(0, 0, 2), Price: 10},
	}
	signals := TrendSignals(series, Periods{Fast: 2, Medium: 3, Slow: 5}, models.DefaultScoringConfig())
	last := signals[len(signals)-1]
	if last.Fast == nil || *last.Fast != -1 {
		t.Fatalf("expected fast -1, got %v", last.Fast)
	}
	if last.Medium == nil || *last.Medium != -2 {
		t.Fatalf("expected medium -2, got %v", last.Medium)
	}
}
