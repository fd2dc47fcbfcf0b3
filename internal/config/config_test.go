package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/scorecard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.PanelSize, convey.ShouldEqual, 4)
			convey.So(cfg.RejectMaxScore, convey.ShouldEqual, 3.4)
			convey.So(cfg.ReviewMinScore, convey.ShouldEqual, 3.5)
			convey.So(cfg.DecisionProfile, convey.ShouldEqual, "three_band")
			convey.So(cfg.CompletionThreshold, convey.ShouldEqual, 90.0)
			convey.So(cfg.LatencyThreshold(), convey.ShouldEqual, 24*time.Hour)
			convey.So(len(cfg.QoHWeights), convey.ShouldEqual, 6)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
		})

		convey.Convey("Then the defaults pass validation", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the defaults build a pipeline", func() {
			p, err := cfg.Pipeline()
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.PanelSize(), convey.ShouldEqual, 4)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs that break policy rules", t, func() {
		ctx := context.Background()

		cases := map[string]func(*config.Config){
			"non-positive panel":       func(c *config.Config) { c.PanelSize = 0 },
			"inverted bands":           func(c *config.Config) { c.RejectMaxScore, c.ReviewMinScore = 3.6, 3.5 },
			"unknown profile":          func(c *config.Config) { c.DecisionProfile = "five_band" },
			"zero completion":          func(c *config.Config) { c.CompletionThreshold = 0 },
			"completion over 100":      func(c *config.Config) { c.CompletionThreshold = 120 },
			"negative latency":         func(c *config.Config) { c.LatencyThresholdHours = -1 },
			"unknown log level":        func(c *config.Config) { c.LogLevel = "verbose" },
			"weights not summing to 1": func(c *config.Config) { c.QoHWeights["interpersonal"] = 0.10 },
			"unknown weight":           func(c *config.Config) { c.QoHWeights["charisma"] = 0 },
			"missing weights":          func(c *config.Config) { c.QoHWeights = nil },
			"no workers":               func(c *config.Config) { c.WorkerCount = 0 },
			"no queue":                 func(c *config.Config) { c.QueueSize = 0 },
			"bad trusted proxy":        func(c *config.Config) { c.TrustedProxies = []string{"not-an-ip"} },
		}

		for name, mutate := range cases {
			cfg := config.New(ctx)
			mutate(cfg)
			err := cfg.Validate()
			convey.So(name+": "+errString(err), convey.ShouldNotEqual, name+": <nil>")
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		}
	})
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
