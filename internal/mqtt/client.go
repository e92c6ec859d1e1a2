package mqtt

import (
	"codeberg.org/mutker/sleepctl/internal/config"
	"codeberg.org/mutker/sleepctl/internal/errors"
	"codeberg.org/mutker/sleepctl/internal/logger"
	paho "github.com/eclipse/paho.mqtt.golang"
)

const disconnectQuiesceMs = 250

// MessageHandler processes one inbound message.
type MessageHandler func(topic string, payload []byte) error

// Publisher is the outbound half of the client, narrow enough to fake.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// Subscriber is the inbound half of the client.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler MessageHandler) error
}

// Client wraps the paho MQTT client behind the two narrow halves.
type Client struct {
	client paho.Client
}

func NewClient(cfg *config.MQTT) (*Client, error) {
	errFactory := errors.New()

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errFactory.Wrap(errors.ErrUnavailable, token.Error())
	}

	logger.Debug().Str("broker", cfg.Broker).Str("client_id", cfg.ClientID).Msg("Connected to MQTT broker")

	return &Client{client: client}, nil
}

func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	errFactory := errors.New()

	token := c.client.Subscribe(topic, qos, func(_ paho.Client, msg paho.Message) {
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			logger.Warn().Err(err).Str("topic", msg.Topic()).Msg("Failed to handle MQTT message")
		}
	})
	if token.Wait() && token.Error() != nil {
		return errFactory.Wrap(errors.ErrOperationFailed, token.Error())
	}

	return nil
}

func (c *Client) Publish(topic string, qos byte, retained bool, payload []byte) error {
	errFactory := errors.New()

	token := c.client.Publish(topic, qos, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return errFactory.Wrap(errors.ErrOperationFailed, token.Error())
	}

	return nil
}

func (c *Client) Unsubscribe(topics ...string) error {
	errFactory := errors.New()

	token := c.client.Unsubscribe(topics...)
	token.Wait()
	if token.Error() != nil {
		return errFactory.Wrap(errors.ErrOperationFailed, token.Error())
	}

	return nil
}

func (c *Client) Disconnect() {
	c.client.Disconnect(disconnectQuiesceMs)
}

func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}
