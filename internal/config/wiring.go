package config

import (
	"github.com/okian/kickout/internal/adapters/notify"
	"github.com/okian/kickout/internal/adapters/repository"
)

// StoreOptions returns the repository options for the configured backend.
func (c *Config) StoreOptions() repository.Options {
	return repository.Options{
		Driver: c.Storage.Driver,
		Path:   c.Storage.Path,
		DSN:    c.Storage.DSN,
		URL:    c.Storage.URL,
		Key:    c.Storage.Key,
	}
}

// MQTTEnabled reports whether a broker is configured.
func (c *Config) MQTTEnabled() bool { return c.MQTT.Broker != "" }

// MQTTConfig returns the broker settings for the MQTT notifier.
func (c *Config) MQTTConfig() notify.MQTTConfig {
	return notify.MQTTConfig{
		Broker:   c.MQTT.Broker,
		ClientID: c.MQTT.ClientID,
		Topic:    c.MQTT.Topic,
		QoS:      byte(c.MQTT.QoS), //nolint:gosec // validated to 0..2
		Username: c.MQTT.Username,
		Password: c.MQTT.Password,
	}
}
