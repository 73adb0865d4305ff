package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TV.Dialect != "bravia" {
		t.Errorf("dialect = %q, want bravia", cfg.TV.Dialect)
	}
	if cfg.Panel.Address != 0x05 {
		t.Errorf("panel address = %#x, want 0x05", cfg.Panel.Address)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
tv:
  dialect: fake
  port: /dev/ttyAMA0
  poll_interval: 250ms
mediator:
  grace_period: 20s
  anti_hijack: true
http_addr: ":9090"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TV.Dialect != "fake" {
		t.Errorf("dialect = %q, want fake", cfg.TV.Dialect)
	}
	if cfg.TV.Port != "/dev/ttyAMA0" {
		t.Errorf("port = %q", cfg.TV.Port)
	}
	if cfg.TV.PollInterval != 250*time.Millisecond {
		t.Errorf("poll_interval = %v", cfg.TV.PollInterval)
	}
	if cfg.Mediator.GracePeriod != 20*time.Second {
		t.Errorf("grace_period = %v", cfg.Mediator.GracePeriod)
	}
	if !cfg.Mediator.AntiHijack {
		t.Error("anti_hijack not set")
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("http_addr = %q", cfg.HTTPAddr)
	}

	// Unmentioned fields keep their defaults.
	if cfg.TV.BaudRate != 9600 {
		t.Errorf("baud_rate = %d, want 9600", cfg.TV.BaudRate)
	}
	if cfg.Mediator.Heartbeat != time.Second {
		t.Errorf("heartbeat = %v, want 1s", cfg.Mediator.Heartbeat)
	}
}

func TestLoadPasswordFromEnvironment(t *testing.T) {
	t.Setenv("MQTT_PASS", "hunter2")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTT.Password != "hunter2" {
		t.Errorf("password = %q, want env value", cfg.MQTT.Password)
	}
}

func TestLoadEnvironmentBeatsFile(t *testing.T) {
	t.Setenv("MQTT_PASS", "from-env")
	path := writeConfig(t, `
mqtt:
  password: from-file
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTT.Password != "from-env" {
		t.Errorf("password = %q, want from-env", cfg.MQTT.Password)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load succeeded on a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "tv: [not a map")
	if _, err := Load(path); err == nil {
		t.Error("Load succeeded on malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown dialect", func(c *Config) { c.TV.Dialect = "lg" }},
		{"zero baud", func(c *Config) { c.TV.BaudRate = 0 }},
		{"zero poll interval", func(c *Config) { c.TV.PollInterval = 0 }},
		{"panel address zero", func(c *Config) { c.Panel.Address = 0 }},
		{"panel address too wide", func(c *Config) { c.Panel.Address = 0x80 }},
		{"empty broker", func(c *Config) { c.MQTT.Broker = "" }},
		{"zero grace period", func(c *Config) { c.Mediator.GracePeriod = 0 }},
		{"zero idle timeout", func(c *Config) { c.Mediator.IdleTimeout = 0 }},
		{"zero heartbeat", func(c *Config) { c.Mediator.Heartbeat = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate passed, want error")
			}
		})
	}
}
