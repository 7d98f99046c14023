package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/kickout/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.Storage.Driver, convey.ShouldEqual, config.DriverFile)
			convey.So(cfg.Storage.Key, convey.ShouldEqual, "kickoutData")
			convey.So(cfg.PlayerCount, convey.ShouldEqual, 30)
			convey.So(cfg.AlertCooldown(), convey.ShouldEqual, 4*time.Second)
			convey.So(cfg.Setups, convey.ShouldBeEmpty)
			convey.So(cfg.MQTT.Broker, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config", t, func() {
		cfg := config.New()

		convey.Convey("When the driver is unknown", func() {
			cfg.Storage.Driver = "postgres"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "postgres")
		})

		convey.Convey("When the driver differs only in case", func() {
			cfg.Storage.Driver = "SQLite"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the player count is zero", func() {
			cfg.PlayerCount = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the cooldown is not positive", func() {
			cfg.AlertCooldownMS = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the QoS is out of range", func() {
			cfg.MQTT.QoS = 3
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
