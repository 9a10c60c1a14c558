package config_test

import (
	"errors"
	"testing"

	"github.com/okian/scoutdb/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.DataDir, convey.ShouldEqual, "data")
			convey.So(cfg.PlayersFile, convey.ShouldEqual, "players.csv")
			convey.So(cfg.RatingsFile, convey.ShouldEqual, "rating.csv")
			convey.So(cfg.TagsFile, convey.ShouldEqual, "tags.csv")
			convey.So(cfg.PlayerCapacity, convey.ShouldEqual, 22807)
			convey.So(cfg.UserCapacity, convey.ShouldEqual, 200001)
			convey.So(cfg.TagCapacity, convey.ShouldEqual, 438001)
			convey.So(cfg.PositionCapacity, convey.ShouldEqual, 101)
			convey.So(cfg.PopularityThreshold, convey.ShouldEqual, 1000)
			convey.So(cfg.RatingMin, convey.ShouldEqual, 0.5)
			convey.So(cfg.RatingMax, convey.ShouldEqual, 5.0)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with a single bad value", t, func() {
		cases := map[string]func(c *config.Config){
			"empty data dir":     func(c *config.Config) { c.DataDir = "" },
			"zero queue":         func(c *config.Config) { c.QueueSize = 0 },
			"negative cache":     func(c *config.Config) { c.CacheSize = -1 },
			"zero capacity":      func(c *config.Config) { c.TagCapacity = 0 },
			"negative threshold": func(c *config.Config) { c.PopularityThreshold = -5 },
			"order three":        func(c *config.Config) { c.BTreeOrder = 3 },
			"inverted bounds":    func(c *config.Config) { c.RatingMin, c.RatingMax = 5, 1 },
			"negative results":   func(c *config.Config) { c.MaxResults = -1 },
		}
		for name, mutate := range cases {
			convey.Convey("When the config has "+name, func() {
				cfg := config.New()
				mutate(cfg)

				convey.Convey("Then validation fails", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
