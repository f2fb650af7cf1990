package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	config "github.com/dinneroo/zonescore/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given the environment is clean", t, func() {
		ctx := context.Background()

		Convey("When loading with no overrides", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.MaxRankingLimit, ShouldEqual, 100)
				So(cfg.Framework.SchemaVersion, ShouldEqual, config.SupportedSchemaVersion)
			})

			Convey("And the default framework is valid", func() {
				So(err, ShouldBeNil)
				fw, err := cfg.ScoringFramework()
				So(err, ShouldBeNil)
				So(fw.Tracks, ShouldHaveLength, 2)
			})
		})

		Convey("When overriding via environment variables", func() {
			_ = os.Setenv("ZONESCORE_ADDR", ":8080")
			_ = os.Setenv("ZONESCORE_QUEUE_SIZE", "1000")
			_ = os.Setenv("ZONESCORE_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("ZONESCORE_ADDR")
				_ = os.Unsetenv("ZONESCORE_QUEUE_SIZE")
				_ = os.Unsetenv("ZONESCORE_WORKER_COUNT")
			}()

			cfg, err := config.Load(ctx)

			Convey("Then env values win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8080")
				So(cfg.QueueSize, ShouldEqual, 1000)
				So(cfg.WorkerCount, ShouldEqual, 4)
			})
		})

		Convey("When loading a YAML config file", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := `
addr: ":7070"
log_level: debug
datasets:
  - path: /data/orders.csv
    format: csv
    source: behavioral
framework:
  population_policy: all
`
			So(os.WriteFile(path, []byte(yaml), 0600), ShouldBeNil)
			_ = os.Setenv("ZONESCORE_CONFIG", path)
			defer func() { _ = os.Unsetenv("ZONESCORE_CONFIG") }()

			cfg, err := config.Load(ctx)

			Convey("Then file values layer over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.Datasets, ShouldHaveLength, 1)
				So(cfg.Datasets[0].Source, ShouldEqual, "behavioral")
				So(cfg.Framework.PopulationPolicy, ShouldEqual, config.PopulationAll)
			})

			Convey("And untouched framework sections keep their defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Framework.Tracks, ShouldHaveLength, 2)
				So(cfg.Framework.MinMeasuredFactors, ShouldEqual, 3)
			})
		})

		Convey("When env overrides the file", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			So(os.WriteFile(path, []byte("addr: \":7070\"\n"), 0600), ShouldBeNil)
			_ = os.Setenv("ZONESCORE_CONFIG", path)
			_ = os.Setenv("ZONESCORE_ADDR", ":6060")
			defer func() {
				_ = os.Unsetenv("ZONESCORE_CONFIG")
				_ = os.Unsetenv("ZONESCORE_ADDR")
			}()

			cfg, err := config.Load(ctx)

			Convey("Then env has the last word", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
			})
		})

		Convey("When the config file is missing", func() {
			_ = os.Setenv("ZONESCORE_CONFIG", "/no/such/config.yaml")
			defer func() { _ = os.Unsetenv("ZONESCORE_CONFIG") }()

			cfg, err := config.Load(ctx)

			Convey("Then loading fails", func() {
				So(err, ShouldWrap, config.ErrLoadConfig)
				So(cfg, ShouldBeNil)
			})
		})

		Convey("When the address is blanked out", func() {
			_ = os.Setenv("ZONESCORE_ADDR", "")
			defer func() { _ = os.Unsetenv("ZONESCORE_ADDR") }()

			cfg, err := config.Load(ctx)

			Convey("Then validation rejects the config", func() {
				So(err, ShouldWrap, config.ErrInvalidConfig)
				So(cfg, ShouldBeNil)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	Convey("Given a default config", t, func() {
		Convey("When it is untouched", func() {
			So(config.New().Validate(), ShouldBeNil)
		})

		Convey("When a dataset has an unknown format", func() {
			cfg := config.New()
			cfg.Datasets = []config.DatasetConfig{{Path: "/data/x.xml", Format: "xml", Source: "behavioral"}}

			Convey("Then validation fails", func() {
				So(cfg.Validate(), ShouldWrap, config.ErrInvalidConfig)
			})
		})

		Convey("When a dataset has an unknown source", func() {
			cfg := config.New()
			cfg.Datasets = []config.DatasetConfig{{Path: "/data/x.csv", Format: "csv", Source: "hearsay"}}

			Convey("Then validation fails", func() {
				So(cfg.Validate(), ShouldWrap, config.ErrInvalidConfig)
			})
		})

		Convey("When a dataset has no path", func() {
			cfg := config.New()
			cfg.Datasets = []config.DatasetConfig{{Format: "csv", Source: "survey"}}

			Convey("Then validation fails", func() {
				So(cfg.Validate(), ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}
