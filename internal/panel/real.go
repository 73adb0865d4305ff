//go:build linux

package panel

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/pipsimon/air-remote-mediator/internal/config"
)

// RealConn talks to the panel over the Linux I2C bus.
type RealConn struct {
	bus i2c.BusCloser
	dev *i2c.Dev
}

// NewRealConn opens the configured I2C bus and addresses the panel.
func NewRealConn(cfg config.PanelConfig) (*RealConn, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}
	return &RealConn{
		bus: bus,
		dev: &i2c.Dev{Bus: bus, Addr: cfg.Address},
	}, nil
}

// ReadEvent reads one 2-byte [code, data] frame.
func (c *RealConn) ReadEvent() (byte, byte, error) {
	var buf [2]byte
	if err := c.dev.Tx(nil, buf[:]); err != nil {
		return 0, 0, fmt.Errorf("i2c read: %w", err)
	}
	return buf[0], buf[1], nil
}

// WriteCommand writes one command byte.
func (c *RealConn) WriteCommand(b byte) error {
	if err := c.dev.Tx([]byte{b}, nil); err != nil {
		return fmt.Errorf("i2c write: %w", err)
	}
	return nil
}

// Close releases the bus.
func (c *RealConn) Close() error {
	return c.bus.Close()
}
