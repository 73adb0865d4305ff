package bus

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pipsimon/air-remote-mediator/internal/mediator"
)

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
		want    mediator.Event
	}{
		{"power button", TopicPowerButton, "", mediator.PowerButton()},
		{"ok", TopicOk, "", mediator.OkPressed()},
		{"wake", TopicWake, "", mediator.WakeSecondary()},
		{"sleep", TopicSleep, "", mediator.SleepSecondary()},
		{"key decimal", TopicKey, "82", mediator.KeyCode(0x52)},
		{"key hex", TopicKey, "0x4f", mediator.KeyCode(0x4f)},
		{"key raw byte", TopicKey, "\x52", mediator.KeyCode(0x52)},
		{"consumer decimal", TopicConsumerCode, "234", mediator.ConsumerCode(0xea)},
		{"consumer hex", TopicConsumerCode, "0xea", mediator.ConsumerCode(0xea)},
		{"consumer raw byte", TopicConsumerCode, "\xea", mediator.ConsumerCode(0xea)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMessage(tt.topic, []byte(tt.payload))
			if err != nil {
				t.Fatalf("DecodeMessage: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeMessage = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeMessageErrors(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
	}{
		{"unknown topic", "air-remote/does-not-exist", ""},
		{"key not a number", TopicKey, "up"},
		{"key out of range", TopicKey, "300"},
		{"consumer empty", TopicConsumerCode, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeMessage(tt.topic, []byte(tt.payload)); err == nil {
				t.Error("DecodeMessage succeeded, want error")
			}
		})
	}
}

func TestParseCodeSingleDigitIsText(t *testing.T) {
	// A one-byte payload in the digit range reads as text, not raw.
	code, err := parseCode([]byte("7"))
	if err != nil {
		t.Fatalf("parseCode: %v", err)
	}
	if code != 7 {
		t.Errorf("code = %d, want 7", code)
	}
}

func TestFormatState(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC)

	payload, err := FormatState(true, now)
	if err != nil {
		t.Fatalf("FormatState: %v", err)
	}
	var got StatePayload
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.State != "on" {
		t.Errorf("state = %q, want on", got.State)
	}
	if got.Timestamp != "2025-06-01T20:30:00Z" {
		t.Errorf("timestamp = %q", got.Timestamp)
	}

	payload, err = FormatState(false, now)
	if err != nil {
		t.Fatalf("FormatState: %v", err)
	}
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.State != "off" {
		t.Errorf("state = %q, want off", got.State)
	}
}

func TestFormatScript(t *testing.T) {
	payload, err := FormatScript("secondary_sleep")
	if err != nil {
		t.Fatalf("FormatScript: %v", err)
	}
	var got ScriptPayload
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.EntityID != "script.secondary_sleep" {
		t.Errorf("entity_id = %q, want script.secondary_sleep", got.EntityID)
	}
}

func TestSubscribeTopicsCoverEveryInboundEvent(t *testing.T) {
	for _, topic := range SubscribeTopics {
		payload := ""
		if topic == TopicKey || topic == TopicConsumerCode {
			payload = "82"
		}
		if _, err := DecodeMessage(topic, []byte(payload)); err != nil {
			t.Errorf("subscribed topic %q does not decode: %v", topic, err)
		}
	}
}
