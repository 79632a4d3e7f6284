package screening

import (
	"sort"

	"CoinScreen/internal/domain/models"
)

// BuildLeaderboard aggregates per-timeframe results into the final
// board. Coins with no defined return on any horizon are excluded and
// reported as skipped; everyone else gets totals over the horizons they
// covered.
func BuildLeaderboard(resultsByCoin map[string][]models.TimeframeResult, orderBy models.OrderBy) ([]models.LeaderboardEntry, []models.SkippedCoin) {
	entries := make([]models.LeaderboardEntry, 0, len(resultsByCoin))
	skipped := make([]models.SkippedCoin, 0)

	for coinID, results := range resultsByCoin {
		entry := models.LeaderboardEntry{CoinID: coinID, BestRank: 0}
		defined := 0
		var returnSum float64

		for _, r := range results {
			entry.Timeframes = append(entry.Timeframes, models.TimeframeBreakdown{
				TimeframeDays: r.TimeframeDays,
				ReturnPct:     r.ReturnPct,
				ReturnDefined: r.ReturnDefined,
				RankPosition:  r.RankPosition,
				CombinedScore: r.CombinedScore,
			})
			if !r.ReturnDefined {
				continue
			}
			defined++
			returnSum += r.ReturnPct
			entry.TotalScore += r.CombinedScore
			if entry.BestRank == 0 || r.RankPosition < entry.BestRank {
				entry.BestRank = r.RankPosition
			}
		}

		if defined == 0 {
			skipped = append(skipped, models.SkippedCoin{
				CoinID: coinID,
				Reason: "no usable price data for any timeframe",
			})
			continue
		}

		entry.AverageReturn = returnSum / float64(defined)
		sort.Slice(entry.Timeframes, func(i, j int) bool {
			return entry.Timeframes[i].TimeframeDays < entry.Timeframes[j].TimeframeDays
		})
		entries = append(entries, entry)
	}

	sortEntries(entries, orderBy)
	for i := range entries {
		entries[i].FinalRank = i + 1
	}
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].CoinID < skipped[j].CoinID })
	return entries, skipped
}

// sortEntries orders the board by the selected key: score and return
// descending, best rank ascending, coin ID as the deterministic
// tie-break throughout.
func sortEntries(entries []models.LeaderboardEntry, orderBy models.OrderBy) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch orderBy {
		case models.OrderByAverageReturn:
			if a.AverageReturn != b.AverageReturn {
				return a.AverageReturn > b.AverageReturn
			}
		case models.OrderByBestRank:
			if a.BestRank != b.BestRank {
				return a.BestRank < b.BestRank
			}
		default: // total_score
			if a.TotalScore != b.TotalScore {
				return a.TotalScore > b.TotalScore
			}
		}
		return a.CoinID < b.CoinID
	})
}
