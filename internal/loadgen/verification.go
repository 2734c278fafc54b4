package loadgen

import (
	"fmt"
	"math"
)

// tally adds a response's counts to stats.
func tally(stats *Stats, resp ScoreResponse) {
	stats.ItemsScored += len(resp.Items)
	stats.Hidden += len(resp.Hidden)
	stats.Diagnostics += len(resp.Diagnostics)
	for _, it := range resp.Items {
		if it.Suppressed {
			stats.Suppressed++
		}
		if it.BelowFloor {
			stats.BelowFloor++
		}
	}
}

// checkOrder counts the problems in a ranked response: a ranked list that
// does not cover every item, unknown IDs, negative or non-finite scores, and
// neighbours out of order for the response direction.
func checkOrder(resp ScoreResponse) int {
	scores := make(map[string]float64, len(resp.Items))
	violations := 0
	for _, it := range resp.Items {
		if it.Score < 0 || math.IsNaN(it.Score) || math.IsInf(it.Score, 0) {
			violations++
		}
		scores[it.ItemID] = it.Score
	}
	if resp.Ranked == nil {
		return violations
	}
	if len(resp.Ranked) != len(resp.Items) {
		violations++
	}

	ascending := resp.Direction == "asc"
	prev := math.NaN()
	for _, id := range resp.Ranked {
		s, ok := scores[id]
		if !ok {
			violations++
			continue
		}
		if !math.IsNaN(prev) && outOfOrder(prev, s, ascending) {
			violations++
		}
		prev = s
	}
	return violations
}

func outOfOrder(prev, next float64, ascending bool) bool {
	if ascending {
		return next < prev
	}
	return next > prev
}

// verifyResults fails the run when any batch failed or was misordered.
func verifyResults(stats *Stats) error {
	if stats.BatchesSubmitted == 0 {
		return fmt.Errorf("no batches submitted")
	}
	if stats.BatchesFailed > 0 {
		return fmt.Errorf("%d of %d batches failed", stats.BatchesFailed, stats.BatchesSubmitted)
	}
	if stats.OrderViolations > 0 {
		return fmt.Errorf("%d ordering violations", stats.OrderViolations)
	}
	return nil
}
