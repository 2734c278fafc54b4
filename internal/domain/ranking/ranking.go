// Package ranking orders scored items and filters them by threshold.
package ranking

import (
	"sort"

	"github.com/okian/qscore/internal/domain/model"
	"github.com/okian/qscore/internal/domain/types"
)

// RankedList is an ordered view over one pass's results.
type RankedList struct {
	Direction model.Direction `json:"direction"`
	Entries   []types.Entry   `json:"entries"`
}

// IDs returns the item IDs in ranked order.
func (l RankedList) IDs() []string {
	out := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = e.ItemID
	}
	return out
}

// Rank orders results by score. Items with equal scores keep their input
// order in both directions and share a rank. The input is not modified.
func Rank(results []model.ScoreResult, dir model.Direction) RankedList {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := results[order[a]].RawScore, results[order[b]].RawScore
		if dir == model.Ascending {
			return sa < sb
		}
		return sa > sb
	})

	entries := make([]types.Entry, len(order))
	for i, idx := range order {
		entries[i] = types.Entry{ItemID: results[idx].ItemID, Score: results[idx].RawScore, Index: idx}
	}
	assignRanksWithTies(entries)

	if dir != model.Ascending {
		dir = model.Descending
	}
	return RankedList{Direction: dir, Entries: entries}
}

// assignRanksWithTies gives equal neighbours the same rank; ranks are dense.
func assignRanksWithTies(entries []types.Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			rank++
		}
		entries[i].Rank = rank
	}
}

// FilterBelow returns the IDs of results scoring strictly below threshold.
func FilterBelow(results []model.ScoreResult, threshold float64) map[string]struct{} {
	out := make(map[string]struct{})
	for _, r := range results {
		if r.RawScore < threshold {
			out[r.ItemID] = struct{}{}
		}
	}
	return out
}

// BelowMask marks, position by position, the results scoring strictly below
// threshold. Unlike FilterBelow it tells repeated IDs apart.
func BelowMask(results []model.ScoreResult, threshold float64) []bool {
	mask := make([]bool, len(results))
	for i, r := range results {
		mask[i] = r.RawScore < threshold
	}
	return mask
}

// Partition splits results into visible and hidden, preserving order.
func Partition(results []model.ScoreResult, threshold float64) (visible, hidden []model.ScoreResult) {
	visible = make([]model.ScoreResult, 0, len(results))
	for _, r := range results {
		if r.RawScore < threshold {
			hidden = append(hidden, r)
			continue
		}
		visible = append(visible, r)
	}
	return visible, hidden
}
