package model_test

import (
	"testing"
	"time"

	model "github.com/okian/qscore/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestWorkStatistics(t *testing.T) {
	convey.Convey("Given work statistics", t, func() {
		convey.Convey("When hits are zero", func() {
			w := model.WorkStatistics{ID: "w-1", Approvals: 10, Chapters: 1}

			convey.Convey("Then the item is not scorable", func() {
				convey.So(w.Scorable(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When hits are positive", func() {
			w := model.WorkStatistics{ID: "w-2", Hits: 1, Chapters: 1}

			convey.Convey("Then the item is scorable", func() {
				convey.So(w.Scorable(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the publish date is missing", func() {
			w := model.WorkStatistics{ID: "w-3"}

			convey.Convey("Then HasPublishDate should be false", func() {
				convey.So(w.HasPublishDate(), convey.ShouldBeFalse)
				w.PublishDate = time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
				convey.So(w.HasPublishDate(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestParseStrategy(t *testing.T) {
	convey.Convey("Given strategy names", t, func() {
		convey.Convey("Then known names should parse regardless of case", func() {
			s, err := model.ParseStrategy("Composite")
			convey.So(err, convey.ShouldBeNil)
			convey.So(s, convey.ShouldEqual, model.StrategyComposite)

			s, err = model.ParseStrategy(" ratio ")
			convey.So(err, convey.ShouldBeNil)
			convey.So(s, convey.ShouldEqual, model.StrategyRatio)
		})

		convey.Convey("Then unknown names should fail", func() {
			_, err := model.ParseStrategy("wilson")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestParseDirection(t *testing.T) {
	convey.Convey("Given direction inputs", t, func() {
		cases := map[string]model.Direction{
			"":            model.Descending,
			"desc":        model.Descending,
			"high-to-low": model.Descending,
			"ASC":         model.Ascending,
			"low-to-high": model.Ascending,
		}
		for in, want := range cases {
			got, err := model.ParseDirection(in)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, want)
		}

		_, err := model.ParseDirection("sideways")
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestScoreResultLabel(t *testing.T) {
	convey.Convey("Given a score result", t, func() {
		r := model.ScoreResult{ItemID: "w-1", RawScore: 12.345}

		convey.Convey("Then the label should use one decimal", func() {
			convey.So(r.Label(), convey.ShouldEqual, "Score: 12.3")
		})
	})
}
