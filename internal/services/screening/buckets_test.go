package screening

import (
	"testing"

	"CoinScreen/internal/domain/models"
)

func TestBucketScoreDefaults(t *testing.T) {
	buckets := models.DefaultScoringConfig().Buckets
	cases := []struct {
		rank int
		want int
	}{
		{1, 3}, {10, 3}, {11, 2}, {15, 2}, {16, 1}, {20, 1}, {21, 0}, {100, 0}, {0, 0}, {-3, 0},
	}
	for _, c := range cases {
		if got := BucketScore(buckets, c.rank); got != c.want {
			t.Fatalf("rank %d: expected %d, got %d", c.rank, c.want, got)
		}
	}
}

func TestBucketScoreCustomPreset(t *testing.T) {
	buckets := []models.RankBucket{{Max: 3, Score: 10}, {Max: 5, Score: 5}}
	if got := BucketScore(buckets, 3); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := BucketScore(buckets, 4); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := BucketScore(buckets, 6); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestValidBuckets(t *testing.T) {
	if !ValidBuckets(models.DefaultScoringConfig().Buckets) {
		t.Fatalf("default buckets should be valid")
	}
	if ValidBuckets([]models.RankBucket{{Max: 10, Score: 3}, {Max: 10, Score: 2}}) {
		t.Fatalf("equal upper bounds should be invalid")
	}
	if ValidBuckets([]models.RankBucket{{Max: 15, Score: 3}, {Max: 10, Score: 2}}) {
		t.Fatalf("descending upper bounds should be invalid")
	}
}
