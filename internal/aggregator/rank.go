package aggregator

import (
	"math"
	"sort"

	"github.com/wonny/screenhub/internal/screener"
)

// TopK returns the k best records ordered by the named field. The sort is
// stable, so ties keep their original relative order. Records missing the
// field (or holding a non-numeric value) always sort to the worst end:
// -Inf when descending, +Inf when ascending. k <= 0 returns an empty list;
// fewer than k inputs return them all.
func (a *Aggregator) TopK(stocks []screener.Record, k int, sortBy string, descending bool) []screener.Record {
	if k <= 0 {
		return []screener.Record{}
	}

	missing := math.Inf(1)
	if descending {
		missing = math.Inf(-1)
	}

	sorted := append([]screener.Record(nil), stocks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi := numberOr(sorted[i], sortBy, missing)
		vj := numberOr(sorted[j], sortBy, missing)
		if descending {
			return vi > vj
		}
		return vi < vj
	})

	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}
