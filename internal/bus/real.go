package bus

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/pipsimon/air-remote-mediator/internal/config"
	"github.com/pipsimon/air-remote-mediator/internal/mediator"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second

	// bufferCapacity bounds how many notifications are held for replay
	// while the broker is unreachable.
	bufferCapacity = 64
)

// Client connects to the real broker. Inbound messages on the command
// topics are decoded and emitted as mediator events; publications made
// while disconnected are buffered and replayed on reconnect.
type Client struct {
	client paho.Client
	emit   func(mediator.Event)
	logger *slog.Logger

	mu     sync.Mutex
	buffer *ringBuffer
}

// NewClient connects and subscribes. The paho auto-reconnect machinery
// owns retry after the initial connect succeeds.
func NewClient(cfg config.MQTTConfig, emit func(mediator.Event), logger *slog.Logger) (*Client, error) {
	c := &Client{
		emit:   emit,
		logger: logger,
		buffer: newRingBuffer(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Error("mqtt connection lost", "error", err)
		})

	c.client = paho.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return c, nil
}

func (c *Client) onConnect(client paho.Client) {
	c.logger.Info("mqtt connected")
	for _, topic := range SubscribeTopics {
		topic := topic
		token := client.Subscribe(topic, 1, c.onMessage)
		go func() {
			token.Wait()
			if err := token.Error(); err != nil {
				c.logger.Error("mqtt subscribe failed", "topic", topic, "error", err)
			}
		}()
	}
	c.replay()
}

func (c *Client) onMessage(_ paho.Client, msg paho.Message) {
	ev, err := DecodeMessage(msg.Topic(), msg.Payload())
	if err != nil {
		c.logger.Warn("bus message dropped", "topic", msg.Topic(), "error", err)
		return
	}
	c.emit(ev)
}

// replay publishes everything buffered while disconnected, oldest first.
func (c *Client) replay() {
	c.mu.Lock()
	msgs := c.buffer.drainAll()
	c.mu.Unlock()
	if len(msgs) == 0 {
		return
	}
	c.logger.Info("replaying buffered notifications", "count", len(msgs))
	for _, m := range msgs {
		if err := c.publishNow(m.topic, m.payload); err != nil {
			c.logger.Error("replay publish failed", "topic", m.topic, "error", err)
		}
	}
}

// Publish sends one message, buffering it instead when disconnected.
func (c *Client) Publish(topic string, payload []byte) error {
	if !c.client.IsConnected() {
		c.mu.Lock()
		dropped := c.buffer.push(bufferedMsg{topic: topic, payload: payload})
		n := c.buffer.len()
		c.mu.Unlock()
		if dropped {
			c.logger.Warn("notification buffer full, dropping oldest", "buffered", n)
		}
		return nil
	}
	return c.publishNow(topic, payload)
}

func (c *Client) publishNow(topic string, payload []byte) error {
	// QoS 1 (at-least-once); commands and notifications must survive a
	// flaky link.
	token := c.client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}

// Close disconnects from the broker.
func (c *Client) Close() error {
	c.client.Disconnect(1000) // 1 second timeout
	return nil
}
