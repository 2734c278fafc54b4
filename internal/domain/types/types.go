// Package types contains common types used across the application
package types

import (
	"github.com/okian/qscore/internal/domain/model"
	"github.com/okian/qscore/internal/domain/scoring"
)

// Entry is one row of a ranked list.
type Entry struct {
	Rank   int     `json:"rank"`
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
	// Index is the position of the item in the pass results.
	Index int `json:"-"`
}

// Evaluation is the presenter-facing outcome of one scoring pass.
type Evaluation struct {
	PassID   string
	Strategy model.Strategy
	// ShowScores mirrors the display option of the snapshot used.
	ShowScores bool
	Results    []model.ScoreResult
	// Ranked is nil unless ordering was requested or auto sort is on.
	Ranked    []Entry
	Direction model.Direction
	// Hidden holds the IDs below the hide threshold, in input order.
	Hidden []string
	// HiddenAt is aligned with Results; nil when hiding is off.
	HiddenAt    []bool
	Diagnostics []scoring.Diagnostic
}

// IsHiddenAt reports whether the result at position i was hidden in this pass.
func (e Evaluation) IsHiddenAt(i int) bool {
	return i >= 0 && i < len(e.HiddenAt) && e.HiddenAt[i]
}
