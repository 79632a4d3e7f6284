package screening

import (
	"math"
	"sort"

	"CoinScreen/internal/domain/models"
)

// ComputeStatistics summarizes the score and return distributions over
// every per-timeframe result that entered a ranking.
func ComputeStatistics(resultsByCoin map[string][]models.TimeframeResult) models.Statistics {
	var scores, returns []float64
	coins := 0
	for _, results := range resultsByCoin {
		counted := false
		for _, r := range results {
			if !r.ReturnDefined {
				continue
			}
			scores = append(scores, r.CombinedScore)
			returns = append(returns, r.ReturnPct)
			counted = true
		}
		if counted {
			coins++
		}
	}
	return models.Statistics{
		TotalAnalyses: len(scores),
		UniqueCoins:   coins,
		ScoreStats:    distribution(scores),
		ReturnStats:   distribution(returns),
	}
}

func distribution(xs []float64) models.DistributionStats {
	if len(xs) == 0 {
		return models.DistributionStats{}
	}

	var sum float64
	min, max := xs[0], xs[0]
	for _, x := range xs {
		sum += x
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	mean := sum / float64(len(xs))

	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	var median float64
	n := len(sorted)
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return models.DistributionStats{
		Mean:   mean,
		Std:    math.Sqrt(sq / float64(len(xs))),
		Min:    min,
		Max:    max,
		Median: median,
	}
}
