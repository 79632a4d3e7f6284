package screening

import "CoinScreen/internal/domain/models"

// MomentumScore breaks the composite momentum reward for one adjacent
// horizon transition into its parts.
type MomentumScore struct {
	Magnitude   float64 // rank shift / 10, continuous
	Sign        int     // +1 improved, -1 worsened, 0 unchanged
	BucketScore int     // bucket score of the later-horizon rank
	DayRank     int     // bucket score of the return-delta ranking
}

// Total sums the four components.
func (m MomentumScore) Total() float64 {
	return m.Magnitude + float64(m.Sign) + float64(m.BucketScore) + float64(m.DayRank)
}

// MomentumScores scores the transition from the shorter horizon (prev)
// to the longer one (curr). A coin gets a score only when it is ranked
// at both horizons; everyone else is absent from the result and scores
// 0 for this transition.
//
// The day-rank component re-ranks coins by the raw return delta between
// the two horizons (not by rank shift) and buckets that ranking. Coins
// without a defined return at either horizon are excluded from the delta
// ranking for this transition only.
func MomentumScores(
	buckets []models.RankBucket,
	prevRanks, currRanks map[string]int,
	prevReturns, currReturns map[string]models.Return,
) map[string]MomentumScore {
	deltas := make(map[string]float64)
	for id, curr := range currReturns {
		prev, ok := prevReturns[id]
		if !ok || !prev.Defined || !curr.Defined {
			continue
		}
		deltas[id] = curr.Value - prev.Value
	}

	dayRanks, err := RankByMetric(deltas)
	if err != nil {
		dayRanks = nil
	}

	out := make(map[string]MomentumScore)
	for id, currRank := range currRanks {
		prevRank, ok := prevRanks[id]
		if !ok {
			continue
		}
		shift := prevRank - currRank
		m := MomentumScore{
			Magnitude:   float64(shift) / 10,
			BucketScore: BucketScore(buckets, currRank),
		}
		switch {
		case shift > 0:
			m.Sign = 1
		case shift < 0:
			m.Sign = -1
		}
		if dr, ok := dayRanks[id]; ok {
			m.DayRank = BucketScore(buckets, dr)
		}
		out[id] = m
	}
	return out
}
