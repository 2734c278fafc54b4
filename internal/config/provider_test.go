package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/qscore/internal/config"
	"github.com/okian/qscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type mapStore map[string]string

func (m mapStore) All(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

var errStoreDown = errors.New("store down")

type brokenStore struct{}

func (brokenStore) All(context.Context) (map[string]string, error) { return nil, errStoreDown }

func TestProvider_Snapshot(t *testing.T) {
	ctx := context.Background()

	Convey("Given a provider without a settings store", t, func() {
		p := config.NewProvider(config.DefaultQuality(), nil)

		Convey("Snapshot returns the defaults", func() {
			q, adj, err := p.Snapshot(ctx)
			So(err, ShouldBeNil)
			So(adj, ShouldBeEmpty)
			So(q, ShouldResemble, config.DefaultQuality())
		})
	})

	Convey("Given stored user settings", t, func() {
		store := mapStore{
			"strategy":                     "ratio",
			"options.auto_sort":            "true",
			"options.hide_threshold":       "45.5",
			"significance.min_approvals":   "3",
			"weights.word_count":           "0",
			"significance.null_proportion": "0.1",
		}
		p := config.NewProvider(config.DefaultQuality(), store)

		q, adj, err := p.Snapshot(ctx)

		Convey("They are layered over the defaults", func() {
			So(err, ShouldBeNil)
			So(adj, ShouldBeEmpty)
			So(q.Strategy, ShouldEqual, model.StrategyRatio)
			So(q.Options.AutoSort, ShouldBeTrue)
			So(q.Options.HideThreshold, ShouldEqual, 45.5)
			So(q.Significance.MinApprovals, ShouldEqual, 3)
			So(q.Significance.NullProportion, ShouldEqual, 0.1)
			So(q.Weights.WordCount, ShouldEqual, 0)
		})

		Convey("Untouched keys keep their defaults", func() {
			So(q.Weights.Ratio, ShouldEqual, 50)
			So(q.Options.ShowScores, ShouldBeTrue)
		})

		Convey("Each snapshot is an independent copy", func() {
			q.Options.HideThreshold = 99
			again, _, err := p.Snapshot(ctx)
			So(err, ShouldBeNil)
			So(again.Options.HideThreshold, ShouldEqual, 45.5)
		})
	})

	Convey("Given stored values that cannot be applied", t, func() {
		store := mapStore{
			"options.hide_threshold": "250",
			"weights.comment":        "plenty",
			"colour":                 "red",
		}
		p := config.NewProvider(config.DefaultQuality(), store)

		q, adj, err := p.Snapshot(ctx)

		Convey("The snapshot still succeeds with every problem reported", func() {
			So(err, ShouldBeNil)
			So(adj, ShouldHaveLength, 3)
			So(q.Options.HideThreshold, ShouldEqual, 100)
			So(q.Weights.Comment, ShouldEqual, 20)
		})

		Convey("The problems carry their kinds", func() {
			var unknown, invalid, clamped int
			for _, e := range adj {
				switch {
				case errors.Is(e, config.ErrUnknownSetting):
					unknown++
				case errors.Is(e, config.ErrInvalidConfig):
					invalid++
				case errors.Is(e, config.ErrConfigurationOutOfRange):
					clamped++
				}
			}
			So(unknown, ShouldEqual, 1)
			So(invalid, ShouldEqual, 1)
			So(clamped, ShouldEqual, 1)
		})
	})

	Convey("Given stored values that are not finite numbers", t, func() {
		store := mapStore{
			"thresholds.low":        "NaN",
			"weights.ratio":         "Inf",
			"ratio_thresholds.high": "-Inf",
		}
		p := config.NewProvider(config.DefaultQuality(), store)

		q, adj, err := p.Snapshot(ctx)

		Convey("They are skipped and reported as invalid", func() {
			So(err, ShouldBeNil)
			So(adj, ShouldHaveLength, 3)
			for _, e := range adj {
				So(errors.Is(e, config.ErrInvalidConfig), ShouldBeTrue)
			}
			So(q, ShouldResemble, config.DefaultQuality())
		})
	})

	Convey("Given a store that fails to read", t, func() {
		p := config.NewProvider(config.DefaultQuality(), brokenStore{})

		_, _, err := p.Snapshot(ctx)

		Convey("The failure is returned as a load error", func() {
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			So(errors.Is(err, errStoreDown), ShouldBeTrue)
		})
	})
}

func TestProvider_Validate(t *testing.T) {
	Convey("Given a provider", t, func() {
		p := config.NewProvider(config.DefaultQuality(), nil)

		Convey("Known keys with parsable values are accepted", func() {
			So(p.Validate("options.hide_threshold", "30"), ShouldBeNil)
			So(p.Validate("options.show_scores", "false"), ShouldBeNil)
			So(p.Validate("strategy", "ratio"), ShouldBeNil)
		})

		Convey("Unknown keys are rejected", func() {
			err := p.Validate("options.theme", "dark")
			So(errors.Is(err, config.ErrUnknownSetting), ShouldBeTrue)
		})

		Convey("Values that do not decode are rejected", func() {
			So(errors.Is(p.Validate("significance.min_approvals", "eleven"), config.ErrInvalidConfig), ShouldBeTrue)
			So(errors.Is(p.Validate("options.auto_sort", "maybe"), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Non-finite numbers are rejected", func() {
			So(errors.Is(p.Validate("thresholds.low", "NaN"), config.ErrInvalidConfig), ShouldBeTrue)
			So(errors.Is(p.Validate("weights.ratio", "Inf"), config.ErrInvalidConfig), ShouldBeTrue)
			So(errors.Is(p.Validate("options.hide_threshold", "+Inf"), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Keys lists every leaf setting in order", func() {
			keys := p.Keys()
			So(keys, ShouldContain, "options.hide_threshold")
			So(keys, ShouldContain, "weights.time_decay_half_life_days")
			So(keys, ShouldContain, "strategy")
			So(keys, ShouldHaveLength, 18)
			So(keys[0], ShouldEqual, "options.auto_sort")
		})
	})
}

func TestQuality_Flatten(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		flat := config.DefaultQuality().Flatten()

		Convey("Dotted keys map to leaf values", func() {
			So(flat["options.show_scores"], ShouldEqual, true)
			So(flat["thresholds.high"], ShouldEqual, 60.0)
		})
	})
}
