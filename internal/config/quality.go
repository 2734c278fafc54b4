package config

import (
	"fmt"
	"math"

	"github.com/okian/qscore/internal/domain/model"
)

// Weights are the coefficients of the weighted composite score.
type Weights struct {
	Ratio                 float64 `koanf:"ratio" json:"ratio"`
	ChapterAdjustmentRate float64 `koanf:"chapter_adjustment" json:"chapter_adjustment"`
	Comment               float64 `koanf:"comment" json:"comment"`
	Bookmark              float64 `koanf:"bookmark" json:"bookmark"`
	WordCount             float64 `koanf:"word_count" json:"word_count"`
	TimeDecayHalfLifeDays float64 `koanf:"time_decay_half_life_days" json:"time_decay_half_life_days"`
}

// Thresholds split scores into low, medium and high quality classes.
type Thresholds struct {
	Low  float64 `koanf:"low" json:"low"`
	High float64 `koanf:"high" json:"high"`
}

// Significance parameterizes the small-sample guard of the ratio strategy.
type Significance struct {
	NullProportion float64 `koanf:"null_proportion" json:"null_proportion"`
	PValueCutoff   float64 `koanf:"p_value_cutoff" json:"p_value_cutoff"`
	MinApprovals   int     `koanf:"min_approvals" json:"min_approvals"`
}

// Options are the user-facing display toggles.
type Options struct {
	AutoSort       bool    `koanf:"auto_sort" json:"auto_sort"`
	ShowScores     bool    `koanf:"show_scores" json:"show_scores"`
	HideLowQuality bool    `koanf:"hide_low_quality" json:"hide_low_quality"`
	HideThreshold  float64 `koanf:"hide_threshold" json:"hide_threshold"`
}

// Quality is the immutable configuration snapshot used by one scoring pass.
// It is passed by value; a changed setting produces a new snapshot.
type Quality struct {
	Strategy        model.Strategy `koanf:"strategy" json:"strategy"`
	Weights         Weights        `koanf:"weights" json:"weights"`
	Thresholds      Thresholds     `koanf:"thresholds" json:"thresholds"`
	RatioThresholds Thresholds     `koanf:"ratio_thresholds" json:"ratio_thresholds"`
	Significance    Significance   `koanf:"significance" json:"significance"`
	Options         Options        `koanf:"options" json:"options"`
}

// Hide threshold bounds.
const (
	minHideThreshold = 0
	maxHideThreshold = 100
)

// DefaultQuality returns the built-in scoring defaults.
func DefaultQuality() Quality {
	return Quality{
		Strategy: model.StrategyComposite,
		Weights: Weights{
			Ratio:                 50,
			ChapterAdjustmentRate: 0.05,
			Comment:               20,
			Bookmark:              30,
			WordCount:             0.5,
			TimeDecayHalfLifeDays: 365,
		},
		Thresholds:      Thresholds{Low: 30, High: 60},
		RatioThresholds: Thresholds{Low: 4, High: 7},
		Significance: Significance{
			NullProportion: 0.04,
			PValueCutoff:   0.05,
			MinApprovals:   11,
		},
		Options: Options{
			AutoSort:       false,
			ShowScores:     true,
			HideLowQuality: false,
			HideThreshold:  20,
		},
	}
}

// ClassThresholds returns the thresholds of the active strategy.
func (q Quality) ClassThresholds() Thresholds {
	return q.ThresholdsFor(q.Strategy)
}

// ThresholdsFor returns the thresholds used to classify scores of strategy s.
func (q Quality) ThresholdsFor(s model.Strategy) Thresholds {
	if s == model.StrategyRatio {
		return q.RatioThresholds
	}
	return q.Thresholds
}

// Normalize returns a copy with every out-of-range value clamped or reset to
// its default. Each adjustment is reported as an ErrConfigurationOutOfRange.
func (q Quality) Normalize() (Quality, []error) {
	def := DefaultQuality()
	var adj []error
	report := func(key string, from, to any) {
		adj = append(adj, fmt.Errorf("%w: %s=%v adjusted to %v", ErrConfigurationOutOfRange, key, from, to))
	}

	if s, err := model.ParseStrategy(string(q.Strategy)); err != nil {
		report("strategy", q.Strategy, def.Strategy)
		q.Strategy = def.Strategy
	} else {
		q.Strategy = s
	}

	for _, w := range []struct {
		key string
		v   *float64
		def float64
	}{
		{"weights.ratio", &q.Weights.Ratio, def.Weights.Ratio},
		{"weights.chapter_adjustment", &q.Weights.ChapterAdjustmentRate, def.Weights.ChapterAdjustmentRate},
		{"weights.comment", &q.Weights.Comment, def.Weights.Comment},
		{"weights.bookmark", &q.Weights.Bookmark, def.Weights.Bookmark},
		{"weights.word_count", &q.Weights.WordCount, def.Weights.WordCount},
	} {
		switch {
		case !isFinite(*w.v):
			report(w.key, *w.v, w.def)
			*w.v = w.def
		case *w.v < 0:
			report(w.key, *w.v, 0)
			*w.v = 0
		}
	}
	if hl := q.Weights.TimeDecayHalfLifeDays; !(hl > 0) || !isFinite(hl) {
		report("weights.time_decay_half_life_days", q.Weights.TimeDecayHalfLifeDays, def.Weights.TimeDecayHalfLifeDays)
		q.Weights.TimeDecayHalfLifeDays = def.Weights.TimeDecayHalfLifeDays
	}

	q.Thresholds = normalizeThresholds("thresholds", q.Thresholds, def.Thresholds, report)
	q.RatioThresholds = normalizeThresholds("ratio_thresholds", q.RatioThresholds, def.RatioThresholds, report)

	if p := q.Significance.NullProportion; !(p > 0 && p < 1) {
		report("significance.null_proportion", p, def.Significance.NullProportion)
		q.Significance.NullProportion = def.Significance.NullProportion
	}
	if c := q.Significance.PValueCutoff; !(c >= 0 && c <= 1) {
		clamped := clamp(c, 0, 1)
		report("significance.p_value_cutoff", c, clamped)
		q.Significance.PValueCutoff = clamped
	}
	if q.Significance.MinApprovals < 0 {
		report("significance.min_approvals", q.Significance.MinApprovals, 0)
		q.Significance.MinApprovals = 0
	}

	if h := q.Options.HideThreshold; !(h >= minHideThreshold && h <= maxHideThreshold) {
		clamped := clamp(h, minHideThreshold, maxHideThreshold)
		report("options.hide_threshold", h, clamped)
		q.Options.HideThreshold = clamped
	}

	return q, adj
}

// normalizeThresholds resets non-finite bounds to def, then orders them.
func normalizeThresholds(key string, t, def Thresholds, report func(string, any, any)) Thresholds {
	if !isFinite(t.Low) {
		report(key+".low", t.Low, def.Low)
		t.Low = def.Low
	}
	if !isFinite(t.High) {
		report(key+".high", t.High, def.High)
		t.High = def.High
	}
	if t.Low > t.High {
		report(key, fmt.Sprintf("%v/%v", t.Low, t.High), fmt.Sprintf("%v/%v", t.High, t.Low))
		t.Low, t.High = t.High, t.Low
	}
	return t
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
