package screening

import "CoinScreen/internal/domain/models"

// BucketScore maps a 1-based rank to its bucket score. Buckets are
// ordered by ascending Max with inclusive upper bounds; ranks beyond the
// last bucket score 0. Total over all positive ranks.
func BucketScore(buckets []models.RankBucket, rank int) int {
	if rank < 1 {
		return 0
	}
	for _, b := range buckets {
		if rank <= b.Max {
			return b.Score
		}
	}
	return 0
}

// ValidBuckets reports whether the bucket rules are strictly ordered by
// their upper bounds.
func ValidBuckets(buckets []models.RankBucket) bool {
	for i := 1; i < len(buckets); i++ {
		if buckets[i].Max <= buckets[i-1].Max {
			return false
		}
	}
	return true
}
