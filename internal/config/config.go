// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a file and the environment over those defaults.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Supported storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	Storage Storage `koanf:"storage"`

	// PlayerCount is the size of the player grid.
	PlayerCount int `koanf:"player_count"`

	// Setups lists the accepted setup categories. Empty accepts any setup.
	Setups []string `koanf:"setups"`

	// AlertCooldownMS is how long a pattern-broken alert stays latched.
	AlertCooldownMS int `koanf:"alert_cooldown_ms"`

	// IdempotencySize bounds the number of remembered Idempotency-Key values.
	IdempotencySize int `koanf:"idempotency_size"`

	Notify Notify `koanf:"notify"`
	MQTT   MQTT   `koanf:"mqtt"`
}

// Storage selects and addresses the kickout log store.
type Storage struct {
	Driver string `koanf:"driver"`
	// Path is the directory of the file store.
	Path string `koanf:"path"`
	// DSN is the SQLite data source.
	DSN string `koanf:"dsn"`
	// URL is the Redis connection URL.
	URL string `koanf:"url"`
	// Key names the persisted log entry.
	Key string `koanf:"key"`
}

// Notify configures the signal queue.
type Notify struct {
	QueueSize int `koanf:"queue_size"`
}

// MQTT configures the optional broker notifier. An empty Broker disables it.
type MQTT struct {
	Broker   string `koanf:"broker"`
	ClientID string `koanf:"client_id"`
	Topic    string `koanf:"topic"`
	QoS      int    `koanf:"qos"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Addr:      ":9080",
		Storage: Storage{
			Driver: DriverFile,
			Path:   "data",
			DSN:    "kickout.db",
			URL:    "redis://localhost:6379/0",
			Key:    "kickoutData",
		},
		PlayerCount:     30,
		AlertCooldownMS: 4000,
		IdempotencySize: 10_000,
		Notify:          Notify{QueueSize: 1024},
		MQTT: MQTT{
			ClientID: "kickout-board",
			Topic:    "kickout",
			QoS:      1,
		},
	}
}

// AlertCooldown returns the cooldown as a duration.
func (c *Config) AlertCooldown() time.Duration {
	return time.Duration(c.AlertCooldownMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Storage.Driver) {
	case DriverFile, DriverSQLite, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.PlayerCount < 1 {
		return fmt.Errorf("%w: player_count must be at least 1", ErrInvalidConfig)
	}
	if c.AlertCooldownMS <= 0 {
		return fmt.Errorf("%w: alert_cooldown_ms must be positive", ErrInvalidConfig)
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("%w: mqtt.qos must be 0, 1 or 2", ErrInvalidConfig)
	}
	return nil
}
