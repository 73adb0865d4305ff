//go:build !linux

package panel

import (
	"errors"

	"github.com/pipsimon/air-remote-mediator/internal/config"
)

// RealConn is not available on non-Linux platforms.
type RealConn struct{}

// NewRealConn returns an error on non-Linux platforms.
func NewRealConn(cfg config.PanelConfig) (*RealConn, error) {
	return nil, errors.New("panel: not supported on this platform (requires Linux)")
}

// ReadEvent is not implemented on non-Linux platforms.
func (c *RealConn) ReadEvent() (byte, byte, error) {
	return 0, 0, errors.New("panel: not supported")
}

// WriteCommand is not implemented on non-Linux platforms.
func (c *RealConn) WriteCommand(b byte) error {
	return errors.New("panel: not supported")
}

// Close is not implemented on non-Linux platforms.
func (c *RealConn) Close() error {
	return nil
}
