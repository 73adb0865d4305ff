package panel

import (
	"context"
	"log/slog"
	"time"

	"github.com/pipsimon/air-remote-mediator/internal/mediator"
)

// Decoder owns the panel connection: it polls for event frames, forwards
// decoded events, and drains the outbound command queue on its own
// schedule. On any I/O error it closes and redials after a fixed backoff.
type Decoder struct {
	dial     func() (Conn, error)
	emit     func(mediator.Event)
	cmds     <-chan mediator.PanelOp
	interval time.Duration
	backoff  time.Duration
	logger   *slog.Logger
}

// NewDecoder creates a decoder.
func NewDecoder(dial func() (Conn, error), emit func(mediator.Event), cmds <-chan mediator.PanelOp, interval time.Duration, logger *slog.Logger) *Decoder {
	return &Decoder{
		dial:     dial,
		emit:     emit,
		cmds:     cmds,
		interval: interval,
		backoff:  time.Second,
		logger:   logger,
	}
}

// Run decodes until the context is cancelled. Connection errors are
// absorbed here by reconnecting; they never reach the caller.
func (d *Decoder) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, err := d.dial()
		if err != nil {
			d.logger.Error("panel connect failed, retrying", "error", err)
			if err := d.sleep(ctx); err != nil {
				return err
			}
			continue
		}

		err = d.loop(ctx, conn)
		conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.logger.Error("panel connection lost, reconnecting", "error", err)
		if err := d.sleep(ctx); err != nil {
			return err
		}
	}
}

func (d *Decoder) loop(ctx context.Context, conn Conn) error {
	// Throw away events that backed up while we were not listening; they
	// are no longer relevant.
	for {
		code, _, err := conn.ReadEvent()
		if err != nil {
			return err
		}
		if code == codeNone {
			break
		}
	}
	d.logger.Info("panel ready")

	for {
		code, data, err := conn.ReadEvent()
		if err != nil {
			return err
		}
		if code != codeNone {
			if ev, ok := decode(code, data); ok {
				d.emit(ev)
			} else {
				d.logger.Warn("unknown panel frame dropped", "code", code, "data", data)
			}
		}

		drained := false
		for !drained {
			select {
			case op := <-d.cmds:
				d.logger.Debug("panel command", "op", op)
				if err := conn.WriteCommand(commandByte(op)); err != nil {
					return err
				}
			default:
				drained = true
			}
		}

		timer := time.NewTimer(d.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (d *Decoder) sleep(ctx context.Context) error {
	timer := time.NewTimer(d.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
