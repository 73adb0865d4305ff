package tv

import (
	"fmt"
	"log/slog"

	"go.bug.st/serial"

	"github.com/pipsimon/air-remote-mediator/internal/config"
)

// Open creates the Link selected by the configured dialect. The dialect set
// is closed: "bravia" opens the serial protocol, "fake" returns an inert
// link for dry runs without hardware.
func Open(cfg config.TVConfig, logger *slog.Logger) (Link, error) {
	switch cfg.Dialect {
	case "fake":
		return NewFakeLink([]State{StateOff}), nil
	case "bravia":
		port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.BaudRate})
		if err != nil {
			return nil, fmt.Errorf("open serial port %s: %w", cfg.Port, err)
		}
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("set read timeout: %w", err)
		}
		return NewBravia(port, cfg.PrimaryInput, logger), nil
	default:
		return nil, fmt.Errorf("tv: unknown dialect %q", cfg.Dialect)
	}
}
