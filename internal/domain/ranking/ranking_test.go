package ranking_test

import (
	"testing"

	"github.com/okian/qscore/internal/domain/model"
	"github.com/okian/qscore/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func results(pairs ...any) []model.ScoreResult {
	out := make([]model.ScoreResult, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, model.ScoreResult{ItemID: pairs[i].(string), RawScore: pairs[i+1].(float64)})
	}
	return out
}

func TestRank(t *testing.T) {
	Convey("Given results with ties", t, func() {
		in := results("a", 10.0, "b", 30.0, "c", 10.0, "d", 20.0, "e", 30.0)
		snapshot := append([]model.ScoreResult(nil), in...)

		Convey("When ranking high to low", func() {
			list := ranking.Rank(in, model.Descending)

			Convey("Then ties keep input order", func() {
				So(list.IDs(), ShouldResemble, []string{"b", "e", "d", "a", "c"})
				So(list.Direction, ShouldEqual, model.Descending)
			})

			Convey("Then equal scores share a dense rank", func() {
				ranks := make([]int, 0, len(list.Entries))
				for _, e := range list.Entries {
					ranks = append(ranks, e.Rank)
				}
				So(ranks, ShouldResemble, []int{1, 1, 2, 3, 3})
			})

			Convey("Then the input is not modified", func() {
				So(in, ShouldResemble, snapshot)
			})
		})

		Convey("When ranking low to high", func() {
			list := ranking.Rank(in, model.Ascending)

			Convey("Then ties keep input order too", func() {
				So(list.IDs(), ShouldResemble, []string{"a", "c", "d", "b", "e"})
			})
		})

		Convey("When ranking twice", func() {
			once := ranking.Rank(in, model.Descending)
			reordered := make([]model.ScoreResult, 0, len(once.Entries))
			for _, e := range once.Entries {
				reordered = append(reordered, model.ScoreResult{ItemID: e.ItemID, RawScore: e.Score})
			}
			twice := ranking.Rank(reordered, model.Descending)

			Convey("Then the order is unchanged", func() {
				So(twice.IDs(), ShouldResemble, once.IDs())
			})
		})

		Convey("When the direction is unset", func() {
			list := ranking.Rank(in, "")

			Convey("Then it ranks high to low", func() {
				So(list.Direction, ShouldEqual, model.Descending)
				So(list.IDs()[0], ShouldEqual, "b")
			})
		})
	})

	Convey("Given no results", t, func() {
		list := ranking.Rank(nil, model.Descending)

		Convey("Then the list is empty", func() {
			So(list.Entries, ShouldBeEmpty)
			So(list.IDs(), ShouldBeEmpty)
		})
	})
}

func TestFilterBelow(t *testing.T) {
	Convey("Given results around a threshold of 20", t, func() {
		in := results("a", 19.9, "b", 20.0, "c", 0.0, "d", 55.0)

		Convey("FilterBelow selects strictly lower scores", func() {
			hidden := ranking.FilterBelow(in, 20)
			So(hidden, ShouldHaveLength, 2)
			So(hidden, ShouldContainKey, "a")
			So(hidden, ShouldContainKey, "c")
			So(hidden, ShouldNotContainKey, "b")
		})

		Convey("Partition keeps the order on both sides", func() {
			visible, hidden := ranking.Partition(in, 20)
			So(visible, ShouldResemble, results("b", 20.0, "d", 55.0))
			So(hidden, ShouldResemble, results("a", 19.9, "c", 0.0))
		})

		Convey("A zero threshold hides nothing", func() {
			So(ranking.FilterBelow(in, 0), ShouldBeEmpty)
		})

		Convey("BelowMask marks positions", func() {
			So(ranking.BelowMask(in, 20), ShouldResemble, []bool{true, false, true, false})
		})
	})

	Convey("Given two results sharing an ID", t, func() {
		in := results("x", 99.0, "x", 0.0)

		Convey("BelowMask tells them apart", func() {
			So(ranking.BelowMask(in, 20), ShouldResemble, []bool{false, true})
		})

		Convey("Rank keeps each entry's result position", func() {
			list := ranking.Rank(in, model.Ascending)
			So(list.Entries[0].Index, ShouldEqual, 1)
			So(list.Entries[1].Index, ShouldEqual, 0)
		})
	})
}
