package screening

import (
	"testing"

	"CoinScreen/internal/domain/models"
)

func intp(v int) *int { return &v }

func TestTrendScoreAtAllTiers(t *testing.T) {
	signals := []models.TrendSignal{
		{Date: day(0), Fast: intp(1), Medium: intp(-2), Slow: intp(3)},
		{Date: day(1), Fast: intp(-1), Medium: intp(2), Slow: intp(3)},
	}
	score, covered := TrendScoreAt(signals, day(1))
	if !covered {
		t.Fatalf("expected coverage")
	}
	if score != 4 {
		t.Fatalf("expected 4, got %d", score)
	}
}

func TestTrendScoreAtNearestDate(t *testing.T) {
	signals := []models.TrendSignal{
		{Date: day(0), Fast: intp(1)},
		{Date: day(10), Fast: intp(-1)},
	}
	// day(2) is closer to day(0)
	if score, _ := TrendScoreAt(signals, day(2)); score != 1 {
		t.Fatalf("expected nearest-earlier signal, got %d", score)
	}
	// day(8) is closer to day(10)
	if score, _ := TrendScoreAt(signals, day(8)); score != -1 {
		t.Fatalf("expected nearest-later signal, got %d", score)
	}
}

func TestTrendScoreAtMissingTiers(t *testing.T) {
	signals := []models.TrendSignal{{Date: day(0), Medium: intp(2)}}
	score, covered := TrendScoreAt(signals, day(0))
	if score != 2 || !covered {
		t.Fatalf("missing tiers must contribute 0, got score=%d covered=%v", score, covered)
	}
}

func TestTrendScoreAtNoSignals(t *testing.T) {
	score, covered := TrendScoreAt(nil, day(0))
	if score != 0 || covered {
		t.Fatalf("no signals must give 0 and no coverage, got %d %v", score, covered)
	}

	// A signal record with every tier absent is distinguishable from
	// all-neutral only through the coverage flag.
	score, covered = TrendScoreAt([]models.TrendSignal{{Date: day(0)}}, day(0))
	if score != 0 || covered {
		t.Fatalf("all-absent tiers must give 0 and no coverage, got %d %v", score, covered)
	}
}
