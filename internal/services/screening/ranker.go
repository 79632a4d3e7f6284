package screening

import "sort"

// RankByMetric assigns dense 1-based ranks over the metric map: highest
// value gets rank 1, equal values are ordered by coin ID ascending so the
// same input always yields the same ranking. The output is a permutation
// of 1..len(metric).
func RankByMetric(metric map[string]float64) (map[string]int, error) {
	if len(metric) == 0 {
		return nil, ErrEmptyInput
	}

	ids := make([]string, 0, len(metric))
	for id := range metric {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		vi, vj := metric[ids[i]], metric[ids[j]]
		if vi != vj {
			return vi > vj
		}
		return ids[i] < ids[j]
	})

	ranks := make(map[string]int, len(ids))
	for i, id := range ids {
		ranks[id] = i + 1
	}
	return ranks, nil
}
