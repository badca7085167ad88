package scoring_test

import (
	"testing"

	"github.com/okian/matchday/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScore(t *testing.T) {
	Convey("Given the quadratic scoring rule", t, func() {
		Convey("Then the anchor points hold", func() {
			So(scoring.Score(100), ShouldEqual, 25.0)
			So(scoring.Score(50), ShouldEqual, 0.0)
			So(scoring.Score(0), ShouldEqual, -75.0)
		})

		Convey("Then intermediate values round to one decimal", func() {
			// 25 - (30-100)^2/100 = 25 - 49 = -24
			So(scoring.Score(30), ShouldEqual, -24.0)
			// 25 - (70-100)^2/100 = 25 - 9 = 16
			So(scoring.Score(70), ShouldEqual, 16.0)
			// 25 - (99-100)^2/100 = 25 - 0.01 = 24.99 -> 25.0
			So(scoring.Score(99), ShouldEqual, 25.0)
			// 25 - (85-100)^2/100 = 25 - 2.25 = 22.75 -> 22.8
			So(scoring.Score(85), ShouldEqual, 22.8)
		})

		Convey("Then every legal probability matches the closed form", func() {
			for p := 0; p <= 100; p++ {
				want := scoring.Round1(25 - float64((p-100)*(p-100))/100)
				So(scoring.Score(p), ShouldEqual, want)
			}
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given winner probabilities", t, func() {
		Convey("Then above 50 is correct", func() {
			So(scoring.Classify(51), ShouldEqual, scoring.VerdictCorrect)
			So(scoring.Classify(100), ShouldEqual, scoring.VerdictCorrect)
		})

		Convey("Then below 50 is incorrect", func() {
			So(scoring.Classify(49), ShouldEqual, scoring.VerdictIncorrect)
			So(scoring.Classify(0), ShouldEqual, scoring.VerdictIncorrect)
		})

		Convey("Then exactly 50 moves no counter", func() {
			So(scoring.Classify(50), ShouldEqual, scoring.VerdictNone)
		})
	})
}

func TestWinnerProbability(t *testing.T) {
	Convey("Given a stored guess of 70 on team two", t, func() {
		Convey("When team one wins", func() {
			p := scoring.WinnerProbability(70, true)

			Convey("Then the winner probability is the complement", func() {
				So(p, ShouldEqual, 30)
			})

			Convey("And the settled score and verdict use the complement", func() {
				So(scoring.Score(p), ShouldEqual, -24.0)
				So(scoring.Classify(p), ShouldEqual, scoring.VerdictIncorrect)
			})
		})

		Convey("When team two wins", func() {
			p := scoring.WinnerProbability(70, false)

			Convey("Then the guess is used directly", func() {
				So(p, ShouldEqual, 70)
				So(scoring.Classify(p), ShouldEqual, scoring.VerdictCorrect)
			})
		})
	})
}

func TestValidProbability(t *testing.T) {
	Convey("Given candidate guesses", t, func() {
		So(scoring.ValidProbability(0), ShouldBeTrue)
		So(scoring.ValidProbability(100), ShouldBeTrue)
		So(scoring.ValidProbability(-1), ShouldBeFalse)
		So(scoring.ValidProbability(101), ShouldBeFalse)
	})
}
