package scorecard_test

import (
	"testing"

	scorecard "github.com/dinneroo/zonescore/internal/domain/scorecard"
	. "github.com/smartystreets/goconvey/convey"
)

func defaultLabels() scorecard.QuadrantLabels {
	return scorecard.QuadrantLabels{
		HighHigh: "core_drivers",
		HighLow:  "demand_boosters",
		LowHigh:  "preference_drivers",
		LowLow:   "deprioritised",
		Prospect: "prospect",
		Monitor:  "monitor",
	}
}

func TestClassifyQuadrant(t *testing.T) {
	Convey("Given gates at 3.0 on both axes", t, func() {
		gates := scorecard.QuadrantGates{X: 3.0, Y: 3.0}
		labels := defaultLabels()

		Convey("When both axes meet their gates", func() {
			got := scorecard.ClassifyQuadrant(4.0, true, 4.5, gates, labels)

			Convey("Then it lands in the high-high region", func() {
				So(got, ShouldEqual, "core_drivers")
			})
		})

		Convey("When only the X axis meets its gate", func() {
			got := scorecard.ClassifyQuadrant(4.0, true, 2.0, gates, labels)

			Convey("Then it lands in the high-low region", func() {
				So(got, ShouldEqual, "demand_boosters")
			})
		})

		Convey("When only the Y axis meets its gate", func() {
			got := scorecard.ClassifyQuadrant(2.0, true, 4.0, gates, labels)

			Convey("Then it lands in the low-high region", func() {
				So(got, ShouldEqual, "preference_drivers")
			})
		})

		Convey("When neither axis meets its gate", func() {
			got := scorecard.ClassifyQuadrant(2.0, true, 2.0, gates, labels)

			Convey("Then it lands in the low-low region", func() {
				So(got, ShouldEqual, "deprioritised")
			})
		})

		Convey("When an axis sits exactly on its gate", func() {
			got := scorecard.ClassifyQuadrant(3.0, true, 3.0, gates, labels)

			Convey("Then the gate is inclusive", func() {
				So(got, ShouldEqual, "core_drivers")
			})
		})

		Convey("When the X axis is not applicable", func() {
			Convey("And the Y axis meets its gate", func() {
				got := scorecard.ClassifyQuadrant(0, false, 4.0, gates, labels)

				Convey("Then it degrades to prospect", func() {
					So(got, ShouldEqual, "prospect")
				})
			})

			Convey("And the Y axis misses its gate", func() {
				got := scorecard.ClassifyQuadrant(0, false, 2.0, gates, labels)

				Convey("Then it degrades to monitor", func() {
					So(got, ShouldEqual, "monitor")
				})
			})
		})
	})
}

func TestQuadrantLabelsValidate(t *testing.T) {
	Convey("Given quadrant label sets", t, func() {
		Convey("When every region is named", func() {
			So(defaultLabels().Validate(), ShouldBeNil)
		})

		Convey("When a region is missing its label", func() {
			labels := defaultLabels()
			labels.Prospect = ""

			Convey("Then it should be rejected", func() {
				So(labels.Validate(), ShouldWrap, scorecard.ErrInvalidFramework)
			})
		})
	})
}
