package registry_test

import (
	"testing"
	"time"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/registry"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func schedule(id string, start time.Time, live bool) registry.ScheduleUpdate {
	return registry.ScheduleUpdate{
		MatchID:     id,
		TeamOneID:   "team-1",
		TeamTwoID:   "team-2",
		TeamOneName: "Alpha",
		TeamTwoName: "Bravo",
		StartTime:   start,
		Live:        live,
	}
}

func result(id string, s1, s2 int, ended time.Time) registry.ResultUpdate {
	return registry.ResultUpdate{
		MatchID:      id,
		TeamOneName:  "Alpha",
		TeamTwoName:  "Bravo",
		TeamOneScore: s1,
		TeamTwoScore: s2,
		EndedAt:      ended,
	}
}

func TestMergeSchedule(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		r := registry.New()

		Convey("When an upcoming entry arrives", func() {
			start := now.Add(3 * time.Hour)
			inserted := r.MergeSchedule(schedule("m1", start, false), now)

			Convey("Then the match is inserted as upcoming", func() {
				So(inserted, ShouldBeTrue)
				m, ok := r.Match("m1")
				So(ok, ShouldBeTrue)
				So(m.Phase, ShouldEqual, model.PhaseUpcoming)
				So(m.StartTime, ShouldEqual, start)
			})
		})

		Convey("When an entry with a TBD opponent arrives", func() {
			u := schedule("m2", now, false)
			u.TeamTwoID = ""
			inserted := r.MergeSchedule(u, now)

			Convey("Then it is skipped until both teams resolve", func() {
				So(inserted, ShouldBeFalse)
				_, ok := r.Match("m2")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When an unseen live entry arrives", func() {
			r.MergeSchedule(schedule("m3", now.Add(-time.Hour), true), now)

			Convey("Then it is inserted live with start pinned to now", func() {
				m, _ := r.Match("m3")
				So(m.Phase, ShouldEqual, model.PhaseLive)
				So(m.StartTime, ShouldEqual, now)
			})
		})
	})

	Convey("Given a known upcoming match", t, func() {
		r := registry.New()
		start := now.Add(2 * time.Hour)
		r.MergeSchedule(schedule("m1", start, false), now)

		Convey("When it goes live", func() {
			later := now.Add(90 * time.Minute)
			r.MergeSchedule(schedule("m1", start, true), later)

			Convey("Then the start time is the earlier of recorded and now", func() {
				m, _ := r.Match("m1")
				So(m.Phase, ShouldEqual, model.PhaseLive)
				So(m.StartTime, ShouldEqual, later)
			})

			Convey("And a live flicker flips it back to upcoming", func() {
				r.MergeSchedule(schedule("m1", start, false), later.Add(time.Minute))
				m, _ := r.Match("m1")
				So(m.Phase, ShouldEqual, model.PhaseUpcoming)
				So(m.StartTime, ShouldEqual, start)
			})
		})

		Convey("When the provider reschedules it", func() {
			moved := start.Add(4 * time.Hour)
			r.MergeSchedule(schedule("m1", moved, false), now)

			Convey("Then the scheduled time is adopted", func() {
				m, _ := r.Match("m1")
				So(m.StartTime, ShouldEqual, moved)
			})
		})
	})

	Convey("Given a completed match", t, func() {
		r := registry.New()
		r.MergeSchedule(schedule("m1", now, true), now)
		r.MergeResult(result("m1", 2, 0, now.Add(time.Hour)), now.Add(time.Hour))

		Convey("When the schedule still lists it as live", func() {
			r.MergeSchedule(schedule("m1", now, true), now.Add(2*time.Hour))

			Convey("Then completion is never reverted", func() {
				m, _ := r.Match("m1")
				So(m.Phase, ShouldEqual, model.PhaseCompleted)
			})
		})
	})
}

func TestMergeResult(t *testing.T) {
	Convey("Given a live match", t, func() {
		r := registry.New()
		r.MergeSchedule(schedule("m1", now, true), now)

		Convey("When its result arrives", func() {
			ended := now.Add(2 * time.Hour)
			c, completed := r.MergeResult(result("m1", 1, 2, ended), ended)

			Convey("Then the transition reports a completion to settle", func() {
				So(completed, ShouldBeTrue)
				So(c.MatchID, ShouldEqual, "m1")
				So(c.EndTime, ShouldEqual, ended)
				So(c.TeamOneWon, ShouldBeFalse)
			})

			Convey("And the match carries the final scores", func() {
				m, _ := r.Match("m1")
				So(m.Phase, ShouldEqual, model.PhaseCompleted)
				So(m.TeamOneScore, ShouldEqual, 1)
				So(m.TeamTwoScore, ShouldEqual, 2)
			})

			Convey("And re-merging the same result is a no-op", func() {
				_, again := r.MergeResult(result("m1", 1, 2, ended), ended.Add(time.Minute))
				So(again, ShouldBeFalse)
			})
		})

		Convey("When the provider reports an end time in the future", func() {
			skewed := now.Add(48 * time.Hour)
			c, completed := r.MergeResult(result("m1", 2, 1, skewed), now)

			Convey("Then the end time is clamped to now", func() {
				So(completed, ShouldBeTrue)
				So(c.EndTime, ShouldEqual, now)
			})
		})
	})

	Convey("Given a result for a match never seen in the schedule", t, func() {
		r := registry.New()
		ended := now.Add(-time.Hour)
		_, completed := r.MergeResult(result("m9", 2, 0, ended), now)

		Convey("Then it is inserted completed without a settlement trigger", func() {
			So(completed, ShouldBeFalse)
			m, ok := r.Match("m9")
			So(ok, ShouldBeTrue)
			So(m.Phase, ShouldEqual, model.PhaseCompleted)
			So(m.EndTime, ShouldEqual, ended)
			So(m.StartTime, ShouldEqual, ended)
		})
	})
}

func TestMergeIdempotence(t *testing.T) {
	Convey("Given a registry built from one poll", t, func() {
		r := registry.New()
		sched := []registry.ScheduleUpdate{
			schedule("m1", now.Add(time.Hour), false),
			schedule("m2", now.Add(-time.Hour), true),
		}
		res := []registry.ResultUpdate{result("m3", 2, 1, now.Add(-2*time.Hour))}

		apply := func() int {
			completions := 0
			for _, u := range sched {
				r.MergeSchedule(u, now)
			}
			for _, u := range res {
				if _, done := r.MergeResult(u, now); done {
					completions++
				}
			}
			return completions
		}

		first := apply()
		snapshotUpcoming := r.Upcoming()
		snapshotLive := r.Live()
		snapshotDone := r.Completed()

		Convey("When the identical poll is applied again", func() {
			second := apply()

			Convey("Then the registry state is unchanged and nothing re-completes", func() {
				So(first, ShouldEqual, 0)
				So(second, ShouldEqual, 0)
				So(r.Upcoming(), ShouldResemble, snapshotUpcoming)
				So(r.Live(), ShouldResemble, snapshotLive)
				So(r.Completed(), ShouldResemble, snapshotDone)
			})
		})
	})
}

func TestSubmitGuess(t *testing.T) {
	Convey("Given an upcoming and a live match", t, func() {
		r := registry.New()
		r.MergeSchedule(schedule("up", now.Add(time.Hour), false), now)
		r.MergeSchedule(schedule("live", now, true), now)

		Convey("When a first guess lands on the upcoming match", func() {
			err := r.SubmitGuess("up", nil, 70)

			Convey("Then the aggregates count it", func() {
				So(err, ShouldBeNil)
				m, _ := r.Match("up")
				So(m.PredictionSum, ShouldEqual, 70)
				So(m.PredictionCount, ShouldEqual, 1)
				avg, ok := m.AverageGuess()
				So(ok, ShouldBeTrue)
				So(avg, ShouldEqual, 70)
			})

			Convey("And replacing the guess adjusts the sum, not the count", func() {
				prev := 70
				So(r.SubmitGuess("up", &prev, 40), ShouldBeNil)
				m, _ := r.Match("up")
				So(m.PredictionSum, ShouldEqual, 40)
				So(m.PredictionCount, ShouldEqual, 1)
			})
		})

		Convey("When a guess targets the live match", func() {
			err := r.SubmitGuess("live", nil, 60)

			Convey("Then it is rejected and aggregates stay untouched", func() {
				So(err, ShouldEqual, registry.ErrMatchStarted)
				m, _ := r.Match("live")
				So(m.PredictionSum, ShouldEqual, 0)
				So(m.PredictionCount, ShouldEqual, 0)
			})
		})

		Convey("When a guess targets an unknown match", func() {
			So(r.SubmitGuess("nope", nil, 60), ShouldEqual, registry.ErrUnknownMatch)
		})
	})
}

func TestSnapshotsOrdering(t *testing.T) {
	Convey("Given matches in every phase", t, func() {
		r := registry.New()
		r.MergeSchedule(schedule("up2", now.Add(2*time.Hour), false), now)
		r.MergeSchedule(schedule("up1", now.Add(1*time.Hour), false), now)
		r.MergeSchedule(schedule("live1", now, true), now)
		r.MergeResult(result("done1", 2, 0, now.Add(-3*time.Hour)), now)
		r.MergeResult(result("done2", 0, 2, now.Add(-1*time.Hour)), now)

		Convey("Then upcoming is soonest first", func() {
			up := r.Upcoming()
			So(up, ShouldHaveLength, 2)
			So(up[0].ID, ShouldEqual, "up1")
		})

		Convey("Then completed is most recent first", func() {
			done := r.Completed()
			So(done, ShouldHaveLength, 2)
			So(done[0].ID, ShouldEqual, "done2")
		})

		Convey("Then started lists live before completed", func() {
			started := r.Started()
			So(started, ShouldHaveLength, 3)
			So(started[0].ID, ShouldEqual, "live1")
		})

		Convey("Then counts reflect phases", func() {
			up, live, done := r.Counts()
			So(up, ShouldEqual, 2)
			So(live, ShouldEqual, 1)
			So(done, ShouldEqual, 2)
		})
	})
}
