package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/okian/kickout/pkg/logger"
)

const (
	defaultPublishTimeout = 5 * time.Second
	disconnectQuiesceMS   = 250
)

// MQTTConfig addresses the broker.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
	Username string
	Password string
}

// pahoClient is the subset of paho.Client used here.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newPahoClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTT publishes each signal as JSON to <topic>/<kind>.
type MQTT struct {
	cli     pahoClient
	topic   string
	qos     byte
	timeout time.Duration
	log     logger.Logger

	mu     sync.Mutex
	closed bool
}

// NewMQTT connects to the broker described by cfg.
func NewMQTT(ctx context.Context, cfg MQTTConfig) (*MQTT, error) {
	log := logger.Get().Named("mqtt")

	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(_ paho.Client) {
		log.Info(ctx, "mqtt connected", logger.String("broker", cfg.Broker))
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Warn(ctx, "mqtt connection lost", logger.Error(err))
	}

	c := newPahoClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(defaultPublishTimeout) {
		return nil, fmt.Errorf("%w: connect to %s timed out", ErrPublish, cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: connect to %s: %w", ErrPublish, cfg.Broker, err)
	}
	return newMQTTWithClient(c, cfg, log), nil
}

func newMQTTWithClient(c pahoClient, cfg MQTTConfig, log logger.Logger) *MQTT {
	topic := strings.TrimSuffix(cfg.Topic, "/")
	if topic == "" {
		topic = "kickout"
	}
	return &MQTT{cli: c, topic: topic, qos: cfg.QoS, timeout: defaultPublishTimeout, log: log}
}

// Topic returns the topic a signal kind is published on.
func (n *MQTT) Topic(k Kind) string {
	return n.topic + "/" + string(k)
}

// Notify publishes s as JSON on its kind topic.
func (n *MQTT) Notify(ctx context.Context, s Signal) error {
	n.mu.Lock()
	closed := n.closed
	n.mu.Unlock()
	if closed {
		return ErrClosed
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPublish, s.Kind, err)
	}

	timeout := n.timeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	token := n.cli.Publish(n.Topic(s.Kind), n.qos, false, payload)
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("%w: %s timed out", ErrPublish, s.Kind)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublish, s.Kind, err)
	}
	n.log.Debug(ctx, "signal published", logger.String("topic", n.Topic(s.Kind)))
	return nil
}

// Close disconnects from the broker. Later Notify calls fail with ErrClosed.
func (n *MQTT) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	if n.cli.IsConnected() {
		n.cli.Disconnect(disconnectQuiesceMS)
	}
	return nil
}
