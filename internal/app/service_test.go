package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	service "github.com/dinneroo/zonescore/internal/app"
	"github.com/dinneroo/zonescore/internal/domain/model"
	scorecard "github.com/dinneroo/zonescore/internal/domain/scorecard"
	"github.com/dinneroo/zonescore/internal/domain/taxonomy"
	"github.com/dinneroo/zonescore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

// serviceFramework returns the two-track framework used across service
// tests: performance (orders, rating) at 0.6 and demand (latent_demand)
// at 0.4.
func serviceFramework() *scorecard.Framework {
	return &scorecard.Framework{
		SchemaVersion: "3",
		Tracks: []scorecard.TrackSpec{
			{
				Name:   "performance",
				Weight: 0.6,
				Factors: []scorecard.FactorSpec{
					{Name: "orders", Weight: 0.6},
					{Name: "rating", Weight: 0.4},
				},
			},
			{
				Name:   "demand",
				Weight: 0.4,
				Factors: []scorecard.FactorSpec{
					{Name: "latent_demand", Weight: 1.0},
				},
			},
		},
		Boundaries: scorecard.DefaultQuintiles(),
		Tiers: scorecard.TierTable{
			{Cutoff: 4.0, Label: "must_have"},
			{Cutoff: 3.0, Label: "should_have"},
			{Cutoff: 2.5, Label: "nice_to_have"},
			{Cutoff: 1.0, Label: "monitor"},
		},
		Gates: scorecard.QuadrantGates{X: 3.0, Y: 3.0},
		Labels: scorecard.QuadrantLabels{
			HighHigh: "core_drivers",
			HighLow:  "demand_boosters",
			LowHigh:  "preference_drivers",
			LowLow:   "deprioritised",
			Prospect: "prospect",
			Monitor:  "monitor",
		},
		AxisX:       "performance",
		AxisY:       "demand",
		MinMeasured: 2,
	}
}

func record(id, entityID, factor string, value float64) model.MetricRecord {
	return model.MetricRecord{
		RecordID:   id,
		EntityID:   entityID,
		EntityKind: model.KindDish,
		Factor:     factor,
		Value:      value,
		Source:     model.SourceBehavioral,
	}
}

func startedService(opts ...service.Option) *service.Service {
	opts = append([]service.Option{
		service.WithFramework(serviceFramework()),
		service.WithWorkerCount(2),
	}, opts...)
	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestServiceStart(t *testing.T) {
	Convey("Given a service without a framework", t, func() {
		svc := service.New()

		Convey("When starting", func() {
			err := svc.Start(context.Background())

			Convey("Then it refuses to start", func() {
				So(err, ShouldWrap, service.ErrNotConfigured)
			})
		})
	})

	Convey("Given a configured service", t, func() {
		ctx := context.Background()
		svc := startedService()

		Convey("When starting again", func() {
			err := svc.Start(ctx)

			Convey("Then the second start is a no-op", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When reading stats", func() {
			stats := svc.GetStats()

			Convey("Then the service reports started with no records", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats["records"], ShouldEqual, 0)
				So(stats["runs"], ShouldEqual, 0)
				So(stats["entitiesTracked"], ShouldEqual, 0)
			})
		})
	})
}

func TestSubmitRecord(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService()

		Convey("When submitting a valid record", func() {
			dup, err := svc.SubmitRecord(ctx, record("rec-1", "dish-1", "orders", 42))

			Convey("Then it is accepted as new", func() {
				So(err, ShouldBeNil)
				So(dup, ShouldBeFalse)
				So(svc.GetStats()["records"], ShouldEqual, 1)
			})
		})

		Convey("When submitting the same record id twice", func() {
			_, err := svc.SubmitRecord(ctx, record("rec-1", "dish-1", "orders", 42))
			So(err, ShouldBeNil)

			dup, err := svc.SubmitRecord(ctx, record("rec-1", "dish-1", "orders", 42))

			Convey("Then the replay is flagged and dropped", func() {
				So(err, ShouldBeNil)
				So(dup, ShouldBeTrue)
				So(svc.GetStats()["records"], ShouldEqual, 1)
			})
		})

		Convey("When the entity kind is unknown", func() {
			rec := record("rec-1", "dish-1", "orders", 42)
			rec.EntityKind = "franchise"

			_, err := svc.SubmitRecord(ctx, rec)

			Convey("Then the record is rejected", func() {
				So(err, ShouldWrap, service.ErrInvalidRecord)
			})
		})

		Convey("When the entity id is missing", func() {
			_, err := svc.SubmitRecord(ctx, record("rec-1", "", "orders", 42))

			Convey("Then the record is rejected", func() {
				So(err, ShouldWrap, service.ErrInvalidRecord)
			})
		})

		Convey("When the factor is missing", func() {
			_, err := svc.SubmitRecord(ctx, record("rec-1", "dish-1", "", 42))

			Convey("Then the record is rejected", func() {
				So(err, ShouldWrap, service.ErrInvalidRecord)
			})
		})

		Convey("When the source is not a measured one", func() {
			rec := record("rec-1", "dish-1", "orders", 42)
			rec.Source = model.SourceEstimated

			_, err := svc.SubmitRecord(ctx, rec)

			Convey("Then the record is rejected", func() {
				So(err, ShouldWrap, service.ErrInvalidRecord)
			})
		})
	})

	Convey("Given a service with a cuisine taxonomy", t, func() {
		ctx := context.Background()
		svc := startedService(service.WithTaxonomy(taxonomy.New(map[string]string{
			"thai_green": "thai",
		})))

		Convey("When submitting records for a sub-cuisine", func() {
			rec := record("rec-1", "Thai_Green", "orders", 42)
			rec.EntityKind = model.KindCuisine
			_, err := svc.SubmitRecord(ctx, rec)
			So(err, ShouldBeNil)

			_, err = svc.Run(ctx)
			So(err, ShouldBeNil)

			Convey("Then the scorecard lands under the canonical cuisine", func() {
				card, err := svc.Scorecard(ctx, "thai")
				So(err, ShouldBeNil)
				So(card.EntityID, ShouldEqual, "thai")
				So(card.EntityKind, ShouldEqual, string(model.KindCuisine))
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a started service with records for three dishes", t, func() {
		ctx := context.Background()
		svc := startedService()

		submit := func(entityID string, orders, rating, demand float64) {
			for factor, value := range map[string]float64{
				"orders":        orders,
				"rating":        rating,
				"latent_demand": demand,
			} {
				rec := record(entityID+"_"+factor, entityID, factor, value)
				_, err := svc.SubmitRecord(ctx, rec)
				So(err, ShouldBeNil)
			}
		}
		submit("dish-top", 50, 5, 500)
		submit("dish-mid", 30, 3, 300)
		submit("dish-low", 10, 1, 100)

		Convey("When executing a scoring run", func() {
			summary, err := svc.Run(ctx)

			Convey("Then every entity is scored", func() {
				So(err, ShouldBeNil)
				So(summary.RunID, ShouldNotBeEmpty)
				So(summary.RecordCount, ShouldEqual, 9)
				So(summary.EntitiesScored, ShouldEqual, 3)
			})

			Convey("And rankings order dishes by composite", func() {
				So(err, ShouldBeNil)
				out, err := svc.TopN(ctx, model.KindDish, 10)
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, 3)
				So(out[0].EntityID, ShouldEqual, "dish-top")
				So(out[1].EntityID, ShouldEqual, "dish-mid")
				So(out[2].EntityID, ShouldEqual, "dish-low")
			})

			Convey("And individual scorecards are readable", func() {
				So(err, ShouldBeNil)
				card, err := svc.Scorecard(ctx, "dish-top")
				So(err, ShouldBeNil)
				So(card.Composite, ShouldAlmostEqual, 4.0, 0.0001)
				So(card.Tier, ShouldEqual, "must_have")
			})

			Convey("And stats reflect the completed run", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["runs"], ShouldEqual, 1)
				So(stats["lastRunID"], ShouldEqual, summary.RunID)
				So(stats["lastRunEntities"], ShouldEqual, 3)
				So(stats["entitiesTracked"], ShouldEqual, 3)
			})
		})

		Convey("When running twice over the same records", func() {
			_, err := svc.Run(ctx)
			So(err, ShouldBeNil)
			summary, err := svc.Run(ctx)

			Convey("Then the store is rebuilt, not accumulated", func() {
				So(err, ShouldBeNil)
				So(summary.EntitiesScored, ShouldEqual, 3)
				So(svc.GetStats()["entitiesTracked"], ShouldEqual, 3)
			})
		})
	})

	Convey("Given a started service with no records", t, func() {
		ctx := context.Background()
		svc := startedService()

		Convey("When executing a scoring run", func() {
			summary, err := svc.Run(ctx)

			Convey("Then the run is a harmless no-op", func() {
				So(err, ShouldBeNil)
				So(summary.RecordCount, ShouldEqual, 0)
				So(summary.EntitiesScored, ShouldEqual, 0)
			})
		})
	})
}

func TestStartWithDatasets(t *testing.T) {
	Convey("Given a CSV dataset on disk", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "orders.csv")
		csv := "entity_id,entity_kind,factor,value\n" +
			"dish-1,dish,orders,50\n" +
			"dish-2,dish,orders,10\n"
		So(os.WriteFile(path, []byte(csv), 0600), ShouldBeNil)

		Convey("When the service starts with the dataset configured", func() {
			svc := service.New(
				service.WithFramework(serviceFramework()),
				service.WithWorkerCount(2),
				service.WithDatasets([]service.Dataset{
					{Path: path, Format: "csv", Source: model.SourceBehavioral},
				}),
			)
			err := svc.Start(ctx)

			Convey("Then records load and an initial run scores them", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["records"], ShouldEqual, 2)
				So(stats["runs"], ShouldEqual, 1)
				So(stats["entitiesTracked"], ShouldEqual, 2)
			})
		})

		Convey("When a configured dataset is missing", func() {
			svc := service.New(
				service.WithFramework(serviceFramework()),
				service.WithDatasets([]service.Dataset{
					{Path: "/no/such/file.csv", Format: "csv", Source: model.SourceBehavioral},
				}),
			)
			err := svc.Start(ctx)

			Convey("Then startup fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
