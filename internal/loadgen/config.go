// Package loadgen drives a running qscore service with generated batches and
// checks that every ranked response is consistently ordered.
package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Batches    int           // Number of scoring requests
	BatchSize  int           // Records per request
	Workers    int           // Number of concurrent workers
	Direction  string        // Requested sort direction
	Timeout    time.Duration // HTTP request timeout
	Seed       uint64        // Generator seed; zero picks one from the clock
	OutputFile string        // Optional JSON file for the generated batches
	Verbose    bool          // Log per-batch results
}

// Record is one generated work, in the shape the scoring endpoint accepts.
type Record struct {
	ID        string `json:"id"`
	Hits      int    `json:"hits"`
	Kudos     int    `json:"kudos"`
	Comments  int    `json:"comments"`
	Bookmarks int    `json:"bookmarks"`
	Words     int    `json:"words"`
	Chapters  string `json:"chapters"`
	Published string `json:"published,omitempty"`
}

// ScoreRequest is the body posted per batch.
type ScoreRequest struct {
	Items     []Record `json:"items"`
	Direction string   `json:"direction,omitempty"`
}

// ScoredItem is one item of a scoring response.
type ScoredItem struct {
	ItemID     string  `json:"item_id"`
	Score      float64 `json:"score"`
	Class      string  `json:"class"`
	Suppressed bool    `json:"suppressed"`
	BelowFloor bool    `json:"below_floor"`
	Hidden     bool    `json:"hidden"`
}

// ScoreResponse is the subset of the scoring response the run checks.
type ScoreResponse struct {
	PassID      string       `json:"pass_id"`
	Strategy    string       `json:"strategy"`
	Items       []ScoredItem `json:"items"`
	Direction   string       `json:"direction"`
	Ranked      []string     `json:"ranked"`
	Hidden      []string     `json:"hidden"`
	Diagnostics []diagnostic `json:"diagnostics"`
}

type diagnostic struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Stats holds run statistics.
type Stats struct {
	BatchesSubmitted int
	BatchesOK        int
	BatchesFailed    int
	ItemsScored      int
	Suppressed       int
	BelowFloor       int
	Hidden           int
	Diagnostics      int
	OrderViolations  int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
