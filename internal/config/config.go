// Package config loads daemon configuration from YAML with environment
// overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the mediator daemon.
type Config struct {
	TV       TVConfig       `yaml:"tv"`
	Panel    PanelConfig    `yaml:"panel"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Mediator MediatorConfig `yaml:"mediator"`
	Logging  LoggingConfig  `yaml:"logging"`
	HTTPAddr string         `yaml:"http_addr"`
}

// TVConfig contains the serial television link settings.
type TVConfig struct {
	// Dialect selects the Device Link implementation: "bravia" or "fake".
	Dialect      string        `yaml:"dialect"`
	Port         string        `yaml:"port"`
	BaudRate     int           `yaml:"baud_rate"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
	// PrimaryInput is the HDMI index treated as the default input.
	PrimaryInput byte `yaml:"primary_input"`
}

// PanelConfig contains the I2C button-panel settings.
type PanelConfig struct {
	Bus          string        `yaml:"bus"`
	Address      uint16        `yaml:"address"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// MQTTConfig contains broker connection settings.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	// Password is normally supplied via the MQTT_PASS environment variable.
	Password string `yaml:"password"`
}

// MediatorConfig contains the business-rule timings.
type MediatorConfig struct {
	// GracePeriod bounds how long an Off reading is distrusted after power-on.
	GracePeriod time.Duration `yaml:"grace_period"`
	// IdleTimeout bounds how long the secondary device stays awake unused.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	Heartbeat   time.Duration `yaml:"heartbeat"`
	// AntiHijack re-selects the primary input if the TV switches away on its
	// own shortly after power-on.
	AntiHijack       bool          `yaml:"anti_hijack"`
	AntiHijackWindow time.Duration `yaml:"anti_hijack_window"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		TV: TVConfig{
			Dialect:      "bravia",
			Port:         "/dev/ttyUSB0",
			BaudRate:     9600,
			ReadTimeout:  500 * time.Millisecond,
			PollInterval: 500 * time.Millisecond,
			PrimaryInput: 1,
		},
		Panel: PanelConfig{
			Bus:          "1",
			Address:      0x05,
			PollInterval: 10 * time.Millisecond,
		},
		MQTT: MQTTConfig{
			Broker:   "tcp://mqtt.sinclair.pipsimon.com:1883",
			ClientID: "air-remote-mediator",
			Username: "lcars",
		},
		Mediator: MediatorConfig{
			GracePeriod:      10 * time.Second,
			IdleTimeout:      10 * time.Second,
			Heartbeat:        time.Second,
			AntiHijack:       false,
			AntiHijackWindow: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		HTTPAddr: ":8080",
	}
}

// Load reads the YAML file at path (if non-empty), applies environment
// overrides, validates, and returns the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if pass := os.Getenv("MQTT_PASS"); pass != "" {
		cfg.MQTT.Password = pass
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the daemon cannot run with.
func (c Config) Validate() error {
	switch c.TV.Dialect {
	case "bravia", "fake":
	default:
		return fmt.Errorf("config: unknown tv dialect %q", c.TV.Dialect)
	}
	if c.TV.BaudRate <= 0 {
		return fmt.Errorf("config: tv baud_rate must be positive, got %d", c.TV.BaudRate)
	}
	if c.TV.PollInterval <= 0 {
		return fmt.Errorf("config: tv poll_interval must be positive")
	}
	if c.Panel.Address == 0 || c.Panel.Address > 0x7f {
		return fmt.Errorf("config: panel address %#x out of 7-bit range", c.Panel.Address)
	}
	if c.MQTT.Broker == "" {
		return fmt.Errorf("config: mqtt broker is required")
	}
	if c.Mediator.GracePeriod <= 0 {
		return fmt.Errorf("config: mediator grace_period must be positive")
	}
	if c.Mediator.IdleTimeout <= 0 {
		return fmt.Errorf("config: mediator idle_timeout must be positive")
	}
	if c.Mediator.Heartbeat <= 0 {
		return fmt.Errorf("config: mediator heartbeat must be positive")
	}
	return nil
}
