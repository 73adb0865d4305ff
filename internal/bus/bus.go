// Package bus bridges the mediator to the home-automation MQTT broker:
// decoded bus messages become mediator events, mediator notifications
// become publications.
package bus

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pipsimon/air-remote-mediator/internal/mediator"
)

// Topics the bridge subscribes to.
const (
	TopicPowerButton  = "air-remote/power-button"
	TopicKey          = "air-remote/key"
	TopicConsumerCode = "air-remote/consumer-code"
	TopicOk           = "air-remote/ok"
	TopicWake         = "air-remote/usb-power-on"
	TopicSleep        = "air-remote/usb-power-off"
)

// Topics the bridge publishes to.
const (
	TopicTvPower      = "air-remote/tv/power"
	TopicSecondary    = "air-remote/secondary/power"
	TopicAmbientLight = "air-remote/ambient-light"

	topicRunScript = "homeassistant_cmd/run/script.turn_on"
)

// SubscribeTopics lists every inbound topic.
var SubscribeTopics = []string{
	TopicPowerButton,
	TopicKey,
	TopicConsumerCode,
	TopicOk,
	TopicWake,
	TopicSleep,
}

// Publisher publishes raw messages to the broker.
type Publisher interface {
	// Publish sends one message. Returns an error if publishing fails;
	// the bridge logs and moves on, it never crashes the process over a
	// lost notification.
	Publish(topic string, payload []byte) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the broker connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// StatePayload is the JSON body for on/off notifications.
type StatePayload struct {
	State     string `json:"state"`
	Timestamp string `json:"timestamp"`
}

// ScriptPayload is the JSON body for Home Assistant script triggers.
type ScriptPayload struct {
	EntityID string `json:"entity_id"`
}

// FormatState creates the payload for an on/off notification.
func FormatState(on bool, now time.Time) ([]byte, error) {
	state := "off"
	if on {
		state = "on"
	}
	return json.Marshal(StatePayload{
		State:     state,
		Timestamp: now.UTC().Format(time.RFC3339),
	})
}

// FormatScript creates the payload that triggers a Home Assistant script.
func FormatScript(name string) ([]byte, error) {
	return json.Marshal(ScriptPayload{EntityID: "script." + name})
}

// DecodeMessage maps one inbound bus message to a mediator event.
func DecodeMessage(topic string, payload []byte) (mediator.Event, error) {
	switch topic {
	case TopicPowerButton:
		return mediator.PowerButton(), nil
	case TopicOk:
		return mediator.OkPressed(), nil
	case TopicWake:
		return mediator.WakeSecondary(), nil
	case TopicSleep:
		return mediator.SleepSecondary(), nil
	case TopicKey:
		code, err := parseCode(payload)
		if err != nil {
			return mediator.Event{}, fmt.Errorf("key payload: %w", err)
		}
		return mediator.KeyCode(code), nil
	case TopicConsumerCode:
		code, err := parseCode(payload)
		if err != nil {
			return mediator.Event{}, fmt.Errorf("consumer-code payload: %w", err)
		}
		return mediator.ConsumerCode(code), nil
	}
	return mediator.Event{}, fmt.Errorf("message from unknown topic %q", topic)
}

// parseCode accepts a single raw byte or a decimal/hex string ("79",
// "0x4f").
func parseCode(payload []byte) (byte, error) {
	s := strings.TrimSpace(string(payload))
	if len(payload) == 1 && (payload[0] < '0' || payload[0] > '9') {
		return payload[0], nil
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("parse code %q: %w", s, err)
	}
	return byte(v), nil
}
