// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// WorkStatistics holds the engagement statistics of one content item.
type WorkStatistics struct {
	ID          string    // unique item identifier
	Hits        int       // views
	Approvals   int       // kudos
	Comments    int       // comment threads
	Bookmarks   int       // public bookmarks
	Chapters    int       // published chapters, at least 1
	WordCount   int       // total words
	PublishDate time.Time // zero when absent or unparsable
}

// Scorable reports whether a score can be computed from the statistics.
// Items without hits always score exactly 0.
func (w WorkStatistics) Scorable() bool {
	return w.Hits > 0
}

// HasPublishDate reports whether the publish date is known.
func (w WorkStatistics) HasPublishDate() bool {
	return !w.PublishDate.IsZero()
}

// QualityClass buckets a raw score against the configured thresholds.
type QualityClass string

// Quality classes, lowest first.
const (
	ClassLow    QualityClass = "low"
	ClassMedium QualityClass = "medium"
	ClassHigh   QualityClass = "high"
)

// Strategy names a scoring algorithm.
type Strategy string

// Available scoring strategies.
const (
	// StrategyComposite is the weighted composite of ratio, engagement, length and age.
	StrategyComposite Strategy = "composite"
	// StrategyRatio is the chapter-adjusted approval ratio guarded by a significance test.
	StrategyRatio Strategy = "ratio"
)

// ParseStrategy converts a name into a Strategy. Matching is case-insensitive.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyComposite:
		return StrategyComposite, nil
	case StrategyRatio:
		return StrategyRatio, nil
	default:
		return "", fmt.Errorf("unknown strategy %q", s)
	}
}

// ScoreResult is the derived score of one item for a single scoring pass.
type ScoreResult struct {
	ItemID   string       `json:"item_id"`
	RawScore float64      `json:"score"`
	Class    QualityClass `json:"class"`
	// Suppressed is set when the significance test rejected the sample.
	Suppressed bool `json:"suppressed"`
	// BelowFloor is set when the approval count was under the minimum floor.
	BelowFloor bool `json:"below_floor"`
}

// Label renders the score the way it is shown next to an item.
func (r ScoreResult) Label() string {
	return fmt.Sprintf("Score: %.1f", r.RawScore)
}

// Direction selects the ordering of a ranked list.
type Direction string

// Sort directions.
const (
	Descending Direction = "desc"
	Ascending  Direction = "asc"
)

// ParseDirection converts user input into a Direction. Empty input yields Descending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "descending", "high-to-low":
		return Descending, nil
	case "asc", "ascending", "low-to-high":
		return Ascending, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}
