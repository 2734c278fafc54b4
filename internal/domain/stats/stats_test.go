package stats_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/qscore/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func decode(t *testing.T, s string) stats.RawItem {
	t.Helper()
	var item stats.RawItem
	if err := json.Unmarshal([]byte(s), &item); err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return item
}

func TestFieldExtractor_Extract(t *testing.T) {
	var x stats.FieldExtractor

	Convey("Given a complete record", t, func() {
		item := decode(t, `{
			"id": "work-1",
			"hits": "12,345",
			"kudos": 678,
			"comments": 12,
			"bookmarks": "1,002",
			"words": "45,000",
			"chapters": "3/10",
			"published": "2023-04-05"
		}`)

		ws, err := x.Extract(item)

		Convey("Every field is converted", func() {
			So(err, ShouldBeNil)
			So(ws.ID, ShouldEqual, "work-1")
			So(ws.Hits, ShouldEqual, 12345)
			So(ws.Approvals, ShouldEqual, 678)
			So(ws.Comments, ShouldEqual, 12)
			So(ws.Bookmarks, ShouldEqual, 1002)
			So(ws.WordCount, ShouldEqual, 45000)
			So(ws.Chapters, ShouldEqual, 3)
			So(ws.PublishDate.Equal(time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})
	})

	Convey("Given a minimal record", t, func() {
		ws, err := x.Extract(decode(t, `{"id": 42, "hits": 10, "approvals": 1}`))

		Convey("Optional fields take their defaults", func() {
			So(err, ShouldBeNil)
			So(ws.ID, ShouldEqual, "42")
			So(ws.Comments, ShouldEqual, 0)
			So(ws.Bookmarks, ShouldEqual, 0)
			So(ws.WordCount, ShouldEqual, 0)
			So(ws.Chapters, ShouldEqual, 1)
			So(ws.HasPublishDate(), ShouldBeFalse)
		})
	})

	Convey("Given alternative field names and date layouts", t, func() {
		ws, err := x.Extract(decode(t, `{
			"id": "w",
			"hits": 5,
			"approvals": 2,
			"word_count": 900,
			"chapters": "2/?",
			"publish_date": "07 Mar 2021"
		}`))

		Convey("They are recognized", func() {
			So(err, ShouldBeNil)
			So(ws.WordCount, ShouldEqual, 900)
			So(ws.Chapters, ShouldEqual, 2)
			So(ws.PublishDate.Equal(time.Date(2021, 3, 7, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})
	})

	Convey("Given a record with an unparsable date", t, func() {
		ws, err := x.Extract(decode(t, `{"id": "w", "hits": 5, "approvals": 2, "published": "last tuesday"}`))

		Convey("The date is treated as absent", func() {
			So(err, ShouldBeNil)
			So(ws.HasPublishDate(), ShouldBeFalse)
		})
	})

	Convey("Given a record with zero chapters", t, func() {
		ws, err := x.Extract(decode(t, `{"id": "w", "hits": 5, "approvals": 2, "chapters": 0}`))

		Convey("Chapters is raised to one", func() {
			So(err, ShouldBeNil)
			So(ws.Chapters, ShouldEqual, 1)
		})
	})

	Convey("Given records missing a required field", t, func() {
		for _, raw := range []string{
			`{"hits": 5, "approvals": 2}`,
			`{"id": "", "hits": 5, "approvals": 2}`,
			`{"id": "w", "approvals": 2}`,
			`{"id": "w", "hits": 5}`,
			`{"id": "w", "hits": null, "approvals": 2}`,
		} {
			_, err := x.Extract(decode(t, raw))
			So(errors.Is(err, stats.ErrMissingField), ShouldBeTrue)
		}
	})

	Convey("Given records with malformed numbers", t, func() {
		cases := map[string]string{
			"chapters":  `{"id": "w", "hits": 5, "approvals": 2, "chapters": "abc"}`,
			"hits":      `{"id": "w", "hits": -5, "approvals": 2}`,
			"approvals": `{"id": "w", "hits": 5, "approvals": 2.5}`,
			"comments":  `{"id": "w", "hits": 5, "approvals": 2, "comments": true}`,
			"words":     `{"id": "w", "hits": 5, "approvals": 2, "words": "many"}`,
		}
		for field, raw := range cases {
			_, err := x.Extract(decode(t, raw))

			So(errors.Is(err, stats.ErrNonNumericField), ShouldBeTrue)
			var fe *stats.FieldError
			So(errors.As(err, &fe), ShouldBeTrue)
			So(fe.Field, ShouldEqual, field)
		}
	})
}
