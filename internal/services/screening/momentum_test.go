package screening

import (
	"testing"

	"CoinScreen/internal/domain/models"
)

func TestMomentumScoreImprovingRank(t *testing.T) {
	buckets := models.DefaultScoringConfig().Buckets

	prevRanks := map[string]int{"z": 20, "a": 1}
	currRanks := map[string]int{"z": 10, "a": 2}
	prevReturns := map[string]models.Return{
		"z": models.DefinedReturn(1.0),
		"a": models.DefinedReturn(5.0),
	}
	currReturns := map[string]models.Return{
		"z": models.DefinedReturn(9.0),
		"a": models.DefinedReturn(6.0),
	}

	scores := MomentumScores(buckets, prevRanks, currRanks, prevReturns, currReturns)

	z := scores["z"]
	if z.Sign != 1 {
		t.Fatalf("rank 20->10 must have sign +1, got %d", z.Sign)
	}
	if !approx(z.Magnitude, 1.0) {
		t.Fatalf("rank 20->10 must have magnitude 1.0, got %v", z.Magnitude)
	}
	if z.BucketScore != 3 {
		t.Fatalf("later rank 10 must bucket to 3, got %d", z.BucketScore)
	}
	// z's return delta (+8) beats a's (+1), so z leads the day ranking.
	if z.DayRank != 3 {
		t.Fatalf("delta leader must bucket to 3, got %d", z.DayRank)
	}
	if !approx(z.Total(), 1.0+1+3+3) {
		t.Fatalf("unexpected total %v", z.Total())
	}

	a := scores["a"]
	if a.Sign != -1 {
		t.Fatalf("rank 1->2 must have sign -1, got %d", a.Sign)
	}
	if !approx(a.Magnitude, -0.1) {
		t.Fatalf("rank 1->2 must have magnitude -0.1, got %v", a.Magnitude)
	}
}

func TestMomentumScoreSecondTransition(t *testing.T) {
	buckets := models.DefaultScoringConfig().Buckets
	prevRanks := map[string]int{"z": 10}
	currRanks := map[string]int{"z": 3}
	rets := map[string]models.Return{"z": models.DefinedReturn(2.0)}

	scores := MomentumScores(buckets, prevRanks, currRanks, rets, rets)
	z := scores["z"]
	if z.Sign != 1 || !approx(z.Magnitude, 0.7) {
		t.Fatalf("rank 10->3 must give sign +1 magnitude 0.7, got %+v", z)
	}
}

func TestMomentumScoreUnchangedRank(t *testing.T) {
	buckets := models.DefaultScoringConfig().Buckets
	ranks := map[string]int{"z": 25}
	rets := map[string]models.Return{"z": models.DefinedReturn(0)}

	z := MomentumScores(buckets, ranks, ranks, rets, rets)["z"]
	if z.Sign != 0 || z.Magnitude != 0 || z.BucketScore != 0 {
		t.Fatalf("unchanged deep rank must be all zero, got %+v", z)
	}
}

func TestMomentumScoreAbsentCoinExcluded(t *testing.T) {
	buckets := models.DefaultScoringConfig().Buckets
	prevRanks := map[string]int{"a": 1}
	currRanks := map[string]int{"a": 1, "b": 2}
	prevReturns := map[string]models.Return{"a": models.DefinedReturn(1)}
	currReturns := map[string]models.Return{
		"a": models.DefinedReturn(2),
		"b": models.DefinedReturn(50),
	}

	scores := MomentumScores(buckets, prevRanks, currRanks, prevReturns, currReturns)
	if _, ok := scores["b"]; ok {
		t.Fatalf("coin absent at the earlier horizon must not be scored")
	}
	// b is also excluded from the delta ranking, so a leads it.
	if scores["a"].DayRank != 3 {
		t.Fatalf("expected a to lead the delta ranking, got %+v", scores["a"])
	}
}
