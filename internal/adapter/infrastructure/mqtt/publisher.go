// Package mqtt provides the MQTT publisher adapter implementation.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"nanodectl/internal/pkg/logging"
	"nanodectl/internal/port"
)

// tokenTimeout bounds how long we wait on the broker for a single operation.
const tokenTimeout = 10 * time.Second

// Config carries the broker connection parameters.
type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// PublisherAdapter is an adapter that implements the Publisher port using the
// Eclipse Paho MQTT client. Payloads are marshalled to JSON.
type PublisherAdapter struct {
	conn paho.Client
}

// Ensure PublisherAdapter implements the Publisher port
var _ port.Publisher = (*PublisherAdapter)(nil)

// NewPublisherAdapter connects to the broker. The connection re-establishes
// itself after a disconnect, so a flaky network does not need handling here.
func NewPublisherAdapter(cfg Config) (*PublisherAdapter, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker)
	opts.ClientID = cfg.ClientID
	opts.Username = cfg.Username
	opts.Password = cfg.Password

	conn := paho.NewClient(opts)
	token := conn.Connect()
	if !token.WaitTimeout(tokenTimeout) {
		return nil, fmt.Errorf("timeout connecting to MQTT broker %s", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, err)
	}

	logging.WithComponent("mqtt").WithField("broker", cfg.Broker).Info("Connected to MQTT broker")
	return &PublisherAdapter{conn: conn}, nil
}

// Publish marshals payload to JSON and publishes it at QoS 1, not retained.
func (p *PublisherAdapter) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := p.conn.Publish(topic, 1, false, data)
	if !token.WaitTimeout(tokenTimeout) {
		return fmt.Errorf("timeout publishing to %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker, giving in-flight messages a moment to
// drain.
func (p *PublisherAdapter) Close() {
	p.conn.Disconnect(250)
}
