package main

import (
	"testing"

	"github.com/pipsimon/air-remote-mediator/internal/config"
)

func TestApplyOverridesEmptyFlagsKeepConfig(t *testing.T) {
	cfg := config.Default()
	got := applyOverrides(cfg, "", "", "")
	if got != cfg {
		t.Errorf("config changed with no flags set: %+v", got)
	}
}

func TestApplyOverridesBrokerAndSerial(t *testing.T) {
	got := applyOverrides(config.Default(), "tcp://other:1883", "/dev/ttyAMA0", "")
	if got.MQTT.Broker != "tcp://other:1883" {
		t.Errorf("broker = %q", got.MQTT.Broker)
	}
	if got.TV.Port != "/dev/ttyAMA0" {
		t.Errorf("serial port = %q", got.TV.Port)
	}
	if got.HTTPAddr != config.Default().HTTPAddr {
		t.Errorf("http addr changed: %q", got.HTTPAddr)
	}
}

func TestApplyOverridesHTTPAddr(t *testing.T) {
	got := applyOverrides(config.Default(), "", "", ":9191")
	if got.HTTPAddr != ":9191" {
		t.Errorf("http addr = %q, want :9191", got.HTTPAddr)
	}
}

func TestApplyOverridesHTTPOff(t *testing.T) {
	got := applyOverrides(config.Default(), "", "", "off")
	if got.HTTPAddr != "" {
		t.Errorf("http addr = %q, want disabled", got.HTTPAddr)
	}
}
