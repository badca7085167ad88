package rank_test

import (
	"testing"

	"github.com/okian/matchday/internal/domain/rank"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildOrdering(t *testing.T) {
	Convey("Given users with distinct scores", t, func() {
		rows := []rank.Row{
			{UserID: "u1", Score: 10},
			{UserID: "u2", Score: 30},
			{UserID: "u3", Score: 20},
		}

		entries := rank.Build(rows)

		Convey("Then entries are ordered by score descending", func() {
			So(entries[0].UserID, ShouldEqual, "u2")
			So(entries[1].UserID, ShouldEqual, "u3")
			So(entries[2].UserID, ShouldEqual, "u1")
		})

		Convey("And ranks are 0-based positions", func() {
			So(entries[0].Rank, ShouldEqual, 0)
			So(entries[1].Rank, ShouldEqual, 1)
			So(entries[2].Rank, ShouldEqual, 2)
		})
	})
}

func TestBuildTies(t *testing.T) {
	Convey("Given users tied on score and correct count", t, func() {
		rows := []rank.Row{
			{UserID: "b", Score: 20, Correct: 3},
			{UserID: "a", Score: 20, Correct: 3},
			{UserID: "c", Score: 15, Correct: 9},
		}

		entries := rank.Build(rows)

		Convey("Then tied users share the lower ordinal, ordered by user ID", func() {
			So(entries[0].UserID, ShouldEqual, "a")
			So(entries[0].Rank, ShouldEqual, 0)
			So(entries[1].UserID, ShouldEqual, "b")
			So(entries[1].Rank, ShouldEqual, 0)
		})

		Convey("And the next distinct user jumps to its true position", func() {
			So(entries[2].UserID, ShouldEqual, "c")
			So(entries[2].Rank, ShouldEqual, 2)
		})

		Convey("And repeated builds give identical order", func() {
			again := rank.Build(rows)
			So(again, ShouldResemble, entries)
		})
	})

	Convey("Given users tied on score but not correct count", t, func() {
		rows := []rank.Row{
			{UserID: "a", Score: 20, Correct: 1},
			{UserID: "b", Score: 20, Correct: 4},
		}

		entries := rank.Build(rows)

		Convey("Then the higher correct count ranks first and no rank is shared", func() {
			So(entries[0].UserID, ShouldEqual, "b")
			So(entries[0].Rank, ShouldEqual, 0)
			So(entries[1].UserID, ShouldEqual, "a")
			So(entries[1].Rank, ShouldEqual, 1)
		})
	})
}

func TestBuildRankDelta(t *testing.T) {
	Convey("Given a user whose window contribution moved them up", t, func() {
		// Old view (score - prevDayDelta): a=10, b=12, c=11, d=13, e=14.
		// New view: a=15, b=12, c=11, d=13, e=14.
		rows := []rank.Row{
			{UserID: "a", Score: 15, PrevDayDelta: 5},
			{UserID: "b", Score: 12},
			{UserID: "c", Score: 11},
			{UserID: "d", Score: 13},
			{UserID: "e", Score: 14},
		}

		entries := rank.Build(rows)

		Convey("Then rankDelta = oldRank - newRank is positive for improvement", func() {
			var a *int
			for i := range entries {
				if entries[i].UserID == "a" {
					a = &entries[i].RankDelta
					So(entries[i].Rank, ShouldEqual, 0)
				}
			}
			So(a, ShouldNotBeNil)
			// Old rank index 4, new rank index 0.
			So(*a, ShouldEqual, 4)
		})

		Convey("And users pushed down get a negative delta", func() {
			for _, e := range entries {
				if e.UserID == "e" {
					// Old rank 0, new rank 1.
					So(e.RankDelta, ShouldEqual, -1)
				}
			}
		})
	})

	Convey("Given no window contributions", t, func() {
		rows := []rank.Row{
			{UserID: "a", Score: 3},
			{UserID: "b", Score: 2},
		}

		entries := rank.Build(rows)

		Convey("Then every rank delta is zero", func() {
			for _, e := range entries {
				So(e.RankDelta, ShouldEqual, 0)
			}
		})
	})
}

func TestBuildOldViewRounding(t *testing.T) {
	Convey("Given float scores that differ only past one decimal", t, func() {
		// 10.25 - 0.15 = 10.1 after rounding; must tie with plain 10.1.
		rows := []rank.Row{
			{UserID: "a", Score: 10.25, PrevDayDelta: 0.15, Correct: 2},
			{UserID: "b", Score: 10.1, Correct: 2},
		}

		entries := rank.Build(rows)

		Convey("Then the old view ranks treat them as tied and deltas stay stable", func() {
			byID := map[string]int{}
			for _, e := range entries {
				byID[e.UserID] = e.RankDelta
			}
			// New view: a (10.25) ahead of b (10.1); old view tied at rank 0.
			So(byID["a"], ShouldEqual, 0)
			So(byID["b"], ShouldEqual, -1)
		})
	})
}
