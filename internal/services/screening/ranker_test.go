package screening

import (
	"errors"
	"reflect"
	"testing"
)

func TestRankByMetricDensePermutation(t *testing.T) {
	metric := map[string]float64{
		"btc": 12.5, "eth": 8.1, "sol": 30.2, "ada": -4.0, "dot": 8.1,
	}
	ranks, err := RankByMetric(metric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranks) != len(metric) {
		t.Fatalf("expected %d ranks, got %d", len(metric), len(ranks))
	}
	seen := make(map[int]bool)
	for id, r := range ranks {
		if r < 1 || r > len(metric) {
			t.Fatalf("rank %d for %s outside 1..%d", r, id, len(metric))
		}
		if seen[r] {
			t.Fatalf("duplicate rank %d", r)
		}
		seen[r] = true
	}
	if ranks["sol"] != 1 {
		t.Fatalf("expected sol rank 1, got %d", ranks["sol"])
	}
	if ranks["ada"] != 5 {
		t.Fatalf("expected ada rank 5, got %d", ranks["ada"])
	}
}

func TestRankByMetricTieBreakByID(t *testing.T) {
	metric := map[string]float64{"zzz": 5.0, "aaa": 5.0, "mmm": 5.0}
	ranks, err := RankByMetric(metric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ranks["aaa"] != 1 || ranks["mmm"] != 2 || ranks["zzz"] != 3 {
		t.Fatalf("tie-break not by coin id ascending: %v", ranks)
	}
}

func TestRankByMetricDeterministic(t *testing.T) {
	metric := map[string]float64{"a": 1, "b": 1, "c": 2, "d": 0, "e": 2}
	first, err := RankByMetric(metric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := RankByMetric(metric)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("ranking not deterministic: %v vs %v", first, again)
		}
	}
}

func TestRankByMetricEmpty(t *testing.T) {
	_, err := RankByMetric(nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}
