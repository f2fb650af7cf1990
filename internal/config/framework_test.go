package config_test

import (
	"testing"

	config "github.com/dinneroo/zonescore/internal/config"
	scorecard "github.com/dinneroo/zonescore/internal/domain/scorecard"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScoringFramework(t *testing.T) {
	Convey("Given the default framework document", t, func() {
		Convey("When converting it", func() {
			fw, err := config.New().ScoringFramework()

			Convey("Then it yields a validated framework", func() {
				So(err, ShouldBeNil)
				So(fw.Tracks, ShouldHaveLength, 2)
				So(fw.AxisX, ShouldEqual, "performance")
				So(fw.AxisY, ShouldEqual, "demand")
				So(fw.MinMeasured, ShouldEqual, 3)
			})

			Convey("And tier and boundary tables carry over", func() {
				So(err, ShouldBeNil)
				So(fw.Tiers[0].Label, ShouldEqual, "must_have")
				So(fw.Boundaries, ShouldHaveLength, 5)
			})
		})

		Convey("When the schema version is unsupported", func() {
			cfg := config.New()
			cfg.Framework.SchemaVersion = "2"

			_, err := cfg.ScoringFramework()

			Convey("Then conversion fails naming the version", func() {
				So(err, ShouldWrap, config.ErrInvalidConfig)
				So(err.Error(), ShouldContainSubstring, `"2"`)
			})
		})

		Convey("When the population policy is unknown", func() {
			cfg := config.New()
			cfg.Framework.PopulationPolicy = "everyone"

			_, err := cfg.ScoringFramework()

			Convey("Then conversion fails", func() {
				So(err, ShouldWrap, config.ErrInvalidConfig)
			})
		})

		Convey("When a factor references a named boundary preset", func() {
			cfg := config.New()
			cfg.Framework.Tracks[0].Factors[0].Boundaries = "top_heavy"

			fw, err := cfg.ScoringFramework()

			Convey("Then the preset is resolved onto the factor", func() {
				So(err, ShouldBeNil)
				So(fw.Tracks[0].Factors[0].Boundaries, ShouldResemble, scorecard.TopHeavyBoundaries())
			})
		})

		Convey("When a factor references an unknown preset", func() {
			cfg := config.New()
			cfg.Framework.Tracks[0].Factors[0].Boundaries = "bimodal"

			_, err := cfg.ScoringFramework()

			Convey("Then conversion fails naming the factor", func() {
				So(err, ShouldWrap, config.ErrInvalidConfig)
				So(err.Error(), ShouldContainSubstring, "orders")
			})
		})

		Convey("When track weights are broken in the document", func() {
			cfg := config.New()
			cfg.Framework.Tracks[0].Weight = 0.9

			_, err := cfg.ScoringFramework()

			Convey("Then framework validation catches it", func() {
				So(err, ShouldWrap, config.ErrInvalidConfig)
			})
		})

		Convey("When a tier ladder loses its catch-all rung", func() {
			cfg := config.New()
			cfg.Framework.TierThresholds = cfg.Framework.TierThresholds[:2]

			_, err := cfg.ScoringFramework()

			Convey("Then framework validation catches it", func() {
				So(err, ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}
