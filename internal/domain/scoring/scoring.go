// Package scoring computes quality scores from work statistics.
//
// Both strategies are pure functions of the statistics, a configuration
// snapshot and the evaluation time.
package scoring

import (
	"math"
	"time"

	"github.com/okian/qscore/internal/config"
	"github.com/okian/qscore/internal/domain/model"
	"github.com/okian/qscore/internal/domain/significance"
)

// Scoring constants shared by the strategies.
const (
	// maxCompositeScore caps the weighted composite.
	maxCompositeScore = 99
	// compositeDampening scales the composite before the cap.
	compositeDampening = 0.9
	// wordCountReference is the word count at which the length factor equals its weight.
	wordCountReference = 10_000
	// suppressedPercent replaces ratios that are not trusted.
	suppressedPercent = 1
	hoursPerDay       = 24
	percent           = 100
)

// Calculator scores one item.
type Calculator interface {
	// Name identifies the strategy.
	Name() model.Strategy
	// Score derives a result. It never fails; unscorable input yields Unscorable.
	Score(s model.WorkStatistics, cfg config.Quality, now time.Time) model.ScoreResult
}

// ForStrategy returns the calculator for a strategy, defaulting to the
// weighted composite.
func ForStrategy(s model.Strategy) Calculator {
	if s == model.StrategyRatio {
		return NewRatioSignificance()
	}
	return WeightedComposite{}
}

// Classify buckets a score: high at or above t.High, medium at or above t.Low.
func Classify(score float64, t config.Thresholds) model.QualityClass {
	switch {
	case score >= t.High:
		return model.ClassHigh
	case score >= t.Low:
		return model.ClassMedium
	default:
		return model.ClassLow
	}
}

// Unscorable is the result for items without hits or with bad fields.
func Unscorable(id string) model.ScoreResult {
	return model.ScoreResult{ItemID: id, RawScore: 0, Class: model.ClassLow}
}

// WeightedComposite blends the approval ratio with engagement bonuses, a
// length factor and an age decay.
type WeightedComposite struct{}

// Name implements Calculator.
func (WeightedComposite) Name() model.Strategy { return model.StrategyComposite }

// Score implements Calculator.
func (c WeightedComposite) Score(s model.WorkStatistics, cfg config.Quality, now time.Time) model.ScoreResult {
	if !s.Scorable() {
		return Unscorable(s.ID)
	}
	score := c.raw(s, cfg.Weights, now)
	return model.ScoreResult{
		ItemID:   s.ID,
		RawScore: score,
		Class:    Classify(score, cfg.ThresholdsFor(model.StrategyComposite)),
	}
}

func (WeightedComposite) raw(s model.WorkStatistics, w config.Weights, now time.Time) float64 {
	hits := float64(s.Hits)
	chapters := max(s.Chapters, 1)

	base := float64(s.Approvals) / math.Sqrt(hits) * w.Ratio
	chapterAdj := 1 + float64(chapters-1)*w.ChapterAdjustmentRate
	commentBonus := float64(s.Comments) / hits * w.Comment
	bookmarkBonus := float64(s.Bookmarks) / hits * w.Bookmark

	var wordFactor float64
	if s.WordCount > 0 {
		wordFactor = math.Log(float64(s.WordCount)) / math.Log(wordCountReference) * w.WordCount
	}

	decay := 1.0
	if age := ageDays(s, now); age > 0 && w.TimeDecayHalfLifeDays > 0 {
		decay = math.Exp(-age / w.TimeDecayHalfLifeDays)
	}

	score := (base*chapterAdj + commentBonus + bookmarkBonus) * (1 + wordFactor) * decay
	score = math.Min(maxCompositeScore, score*compositeDampening)
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	return score
}

// ageDays is zero for absent or future publish dates.
func ageDays(s model.WorkStatistics, now time.Time) float64 {
	if !s.HasPublishDate() || !now.After(s.PublishDate) {
		return 0
	}
	return now.Sub(s.PublishDate).Hours() / hoursPerDay
}

// PValueFunc computes an upper-tail p-value for k successes in n trials
// against a null proportion p0.
type PValueFunc func(n, k, p0 float64) (float64, error)

// Option configures a RatioSignificance.
type Option func(*RatioSignificance)

// WithPValue replaces the significance test.
func WithPValue(fn PValueFunc) Option {
	return func(r *RatioSignificance) {
		if fn != nil {
			r.pValue = fn
		}
	}
}

// RatioSignificance scores the chapter-adjusted approval percentage and
// replaces it with 1 when the sample is too small or not significant.
type RatioSignificance struct {
	pValue PValueFunc
}

// NewRatioSignificance returns the ratio strategy backed by the normal
// approximation test.
func NewRatioSignificance(opts ...Option) RatioSignificance {
	r := RatioSignificance{pValue: significance.PValue}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Name implements Calculator.
func (RatioSignificance) Name() model.Strategy { return model.StrategyRatio }

// Score implements Calculator.
func (r RatioSignificance) Score(s model.WorkStatistics, cfg config.Quality, _ time.Time) model.ScoreResult {
	if !s.Scorable() {
		return Unscorable(s.ID)
	}
	res := model.ScoreResult{ItemID: s.ID}

	adjustedHits := float64(s.Hits) / math.Sqrt(float64(max(s.Chapters, 1)))
	approvals := float64(s.Approvals)
	pct := percent * approvals / adjustedHits

	if s.Approvals < cfg.Significance.MinApprovals {
		pct = suppressedPercent
		res.BelowFloor = true
	} else if !r.significant(adjustedHits, approvals, cfg.Significance) {
		pct = suppressedPercent
		res.Suppressed = true
	}

	res.RawScore = pct
	res.Class = Classify(pct, cfg.ThresholdsFor(model.StrategyRatio))
	return res
}

// significant reports whether the approval rate is significantly above the
// null proportion. Approvals above the adjusted hit count are capped to it.
func (r RatioSignificance) significant(n, k float64, sig config.Significance) bool {
	pv := r.pValue
	if pv == nil {
		pv = significance.PValue
	}
	p, err := pv(n, math.Min(k, n), sig.NullProportion)
	if err != nil {
		return false
	}
	return p < sig.PValueCutoff
}
