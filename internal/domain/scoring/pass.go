package scoring

import (
	"errors"
	"fmt"
	"time"

	"github.com/okian/qscore/internal/config"
	"github.com/okian/qscore/internal/domain/model"
	"github.com/okian/qscore/internal/domain/stats"
)

// Diagnostic kinds.
const (
	KindMissingField      = "missing_field"
	KindNonNumericField   = "non_numeric_field"
	KindDuplicateItem     = "duplicate_item"
	KindConfigOutOfRange  = "configuration_out_of_range"
	KindUnknownSetting    = "unknown_setting"
	KindInvalidSetting    = "invalid_setting"
	KindProcessingFailure = "processing_failure"
)

// Diagnostic describes one per-item failure or configuration adjustment.
type Diagnostic struct {
	ItemID  string `json:"item_id,omitempty"`
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// PassResult is the outcome of scoring a collection once.
type PassResult struct {
	Strategy    model.Strategy
	Results     []model.ScoreResult
	Diagnostics []Diagnostic
}

// RunPass extracts and scores every item in order. A failing item degrades
// to Unscorable and yields a diagnostic; the pass itself never fails.
func RunPass(items []stats.RawItem, x stats.Extractor, cfg config.Quality, now time.Time) PassResult {
	calc := ForStrategy(cfg.Strategy)
	out := PassResult{
		Strategy: calc.Name(),
		Results:  make([]model.ScoreResult, 0, len(items)),
	}
	seen := make(map[string]struct{}, len(items))

	for i, item := range items {
		ws, err := x.Extract(item)
		if err != nil {
			id := fallbackID(item, i)
			out.Results = append(out.Results, Unscorable(id))
			out.Diagnostics = append(out.Diagnostics, NewDiagnostic(i, id, err))
			continue
		}
		if _, dup := seen[ws.ID]; dup {
			out.Diagnostics = append(out.Diagnostics,
				NewDiagnostic(i, ws.ID, fmt.Errorf("%w: %s", ErrDuplicateItem, ws.ID)))
		}
		seen[ws.ID] = struct{}{}
		out.Results = append(out.Results, calc.Score(ws, cfg, now))
	}
	return out
}

// ConfigDiagnostics converts configuration adjustments into diagnostics with
// an Index of -1.
func ConfigDiagnostics(adjustments []error) []Diagnostic {
	out := make([]Diagnostic, 0, len(adjustments))
	for _, err := range adjustments {
		out = append(out, NewDiagnostic(-1, "", err))
	}
	return out
}

// NewDiagnostic classifies err into a Diagnostic.
func NewDiagnostic(index int, itemID string, err error) Diagnostic {
	d := Diagnostic{
		ItemID:  itemID,
		Index:   index,
		Kind:    KindOf(err),
		Message: err.Error(),
		Err:     err,
	}
	var fe *stats.FieldError
	if errors.As(err, &fe) {
		d.Field = fe.Field
	}
	return d
}

// KindOf maps an error to its diagnostic kind.
func KindOf(err error) string {
	switch {
	case errors.Is(err, stats.ErrMissingField):
		return KindMissingField
	case errors.Is(err, stats.ErrNonNumericField):
		return KindNonNumericField
	case errors.Is(err, ErrDuplicateItem):
		return KindDuplicateItem
	case errors.Is(err, config.ErrConfigurationOutOfRange):
		return KindConfigOutOfRange
	case errors.Is(err, config.ErrUnknownSetting):
		return KindUnknownSetting
	case errors.Is(err, config.ErrInvalidConfig):
		return KindInvalidSetting
	default:
		return KindProcessingFailure
	}
}

// fallbackID names an item whose record could not be extracted.
func fallbackID(item stats.RawItem, index int) string {
	if id, ok := item["id"].(string); ok && id != "" {
		return id
	}
	return fmt.Sprintf("#%d", index)
}
