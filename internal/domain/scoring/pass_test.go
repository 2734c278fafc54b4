package scoring_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/qscore/internal/config"
	"github.com/okian/qscore/internal/domain/model"
	"github.com/okian/qscore/internal/domain/scoring"
	"github.com/okian/qscore/internal/domain/stats"
	"github.com/smartystreets/goconvey/convey"
)

func TestRunPass(t *testing.T) {
	convey.Convey("Given a batch with one malformed record", t, func() {
		items := []stats.RawItem{
			{"id": "a", "hits": 1000.0, "approvals": 50.0, "chapters": "4/4"},
			{"id": "b", "hits": 1000.0, "approvals": 50.0, "chapters": "abc"},
			{"id": "c", "hits": 0.0, "approvals": 0.0},
		}

		res := scoring.RunPass(items, stats.FieldExtractor{}, ratioConfig(), now)

		convey.Convey("Then every item gets a result in input order", func() {
			convey.So(res.Strategy, convey.ShouldEqual, model.StrategyRatio)
			convey.So(res.Results, convey.ShouldHaveLength, 3)
			convey.So(res.Results[0].ItemID, convey.ShouldEqual, "a")
			convey.So(res.Results[0].RawScore, convey.ShouldAlmostEqual, 10, 1e-9)
			convey.So(res.Results[1], convey.ShouldResemble, scoring.Unscorable("b"))
			convey.So(res.Results[2].RawScore, convey.ShouldEqual, 0)
		})

		convey.Convey("Then the malformed field is reported", func() {
			convey.So(res.Diagnostics, convey.ShouldHaveLength, 1)
			d := res.Diagnostics[0]
			convey.So(d.ItemID, convey.ShouldEqual, "b")
			convey.So(d.Index, convey.ShouldEqual, 1)
			convey.So(d.Field, convey.ShouldEqual, "chapters")
			convey.So(d.Kind, convey.ShouldEqual, scoring.KindNonNumericField)
			convey.So(errors.Is(d.Err, stats.ErrNonNumericField), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a record without an id", t, func() {
		items := []stats.RawItem{{"hits": 10.0, "approvals": 1.0}}

		res := scoring.RunPass(items, stats.FieldExtractor{}, config.DefaultQuality(), now)

		convey.Convey("Then a positional id is used", func() {
			convey.So(res.Results[0].ItemID, convey.ShouldEqual, "#0")
			convey.So(res.Diagnostics[0].Kind, convey.ShouldEqual, scoring.KindMissingField)
		})
	})

	convey.Convey("Given duplicate ids", t, func() {
		items := []stats.RawItem{
			{"id": "a", "hits": 100.0, "approvals": 5.0},
			{"id": "a", "hits": 200.0, "approvals": 9.0},
		}

		res := scoring.RunPass(items, stats.FieldExtractor{}, config.DefaultQuality(), now)

		convey.Convey("Then both still score and the repeat is reported", func() {
			convey.So(res.Results, convey.ShouldHaveLength, 2)
			convey.So(res.Results[1].RawScore, convey.ShouldBeGreaterThan, 0)
			convey.So(res.Diagnostics, convey.ShouldHaveLength, 1)
			convey.So(res.Diagnostics[0].Kind, convey.ShouldEqual, scoring.KindDuplicateItem)
			convey.So(res.Diagnostics[0].Index, convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given an empty batch", t, func() {
		res := scoring.RunPass(nil, stats.FieldExtractor{}, config.DefaultQuality(), now)

		convey.Convey("Then the result is empty, not nil", func() {
			convey.So(res.Results, convey.ShouldNotBeNil)
			convey.So(res.Results, convey.ShouldBeEmpty)
			convey.So(res.Diagnostics, convey.ShouldBeEmpty)
		})
	})
}

func TestConfigDiagnostics(t *testing.T) {
	convey.Convey("Given configuration adjustments", t, func() {
		adj := []error{
			fmt.Errorf("%w: options.hide_threshold", config.ErrConfigurationOutOfRange),
			fmt.Errorf("%w: colour", config.ErrUnknownSetting),
			fmt.Errorf("%w: weights.comment", config.ErrInvalidConfig),
		}

		ds := scoring.ConfigDiagnostics(adj)

		convey.Convey("Then each becomes a diagnostic without an item", func() {
			convey.So(ds, convey.ShouldHaveLength, 3)
			convey.So(ds[0].Kind, convey.ShouldEqual, scoring.KindConfigOutOfRange)
			convey.So(ds[1].Kind, convey.ShouldEqual, scoring.KindUnknownSetting)
			convey.So(ds[2].Kind, convey.ShouldEqual, scoring.KindInvalidSetting)
			convey.So(ds[0].Index, convey.ShouldEqual, -1)
			convey.So(ds[0].ItemID, convey.ShouldBeEmpty)
		})
	})

	convey.Convey("Given an unclassified error", t, func() {
		convey.So(scoring.KindOf(errors.New("boom")), convey.ShouldEqual, scoring.KindProcessingFailure)
	})
}
