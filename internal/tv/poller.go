package tv

import (
	"context"
	"log/slog"
	"time"
)

// Command is one queued action for the poller to apply on the link between
// polls.
type Command int

const (
	CmdPowerOn Command = iota
	CmdPowerOff
	CmdSelectPrimary
	CmdVolumeUp
	CmdVolumeDown
	CmdInputCycle
	CmdHome
	CmdBack
	CmdConfirm
	CmdCursorUp
	CmdCursorDown
	CmdCursorLeft
	CmdCursorRight
)

var commandNames = map[Command]string{
	CmdPowerOn:       "power_on",
	CmdPowerOff:      "power_off",
	CmdSelectPrimary: "select_primary",
	CmdVolumeUp:      "volume_up",
	CmdVolumeDown:    "volume_down",
	CmdInputCycle:    "input_cycle",
	CmdHome:          "home",
	CmdBack:          "back",
	CmdConfirm:       "confirm",
	CmdCursorUp:      "cursor_up",
	CmdCursorDown:    "cursor_down",
	CmdCursorLeft:    "cursor_left",
	CmdCursorRight:   "cursor_right",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "invalid"
}

// Poller owns the television connection. It derives the state every cycle,
// forwards each reading, and drains the command queue between polls. On any
// exchange error it closes the link and redials after a fixed backoff.
type Poller struct {
	dial     func() (Link, error)
	observe  func(State)
	cmds     <-chan Command
	primary  byte
	interval time.Duration
	backoff  time.Duration
	logger   *slog.Logger
}

// NewPoller creates a poller. observe is called with every reading; the
// mediator deduplicates repeats.
func NewPoller(dial func() (Link, error), observe func(State), cmds <-chan Command, primary byte, interval time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		dial:     dial,
		observe:  observe,
		cmds:     cmds,
		primary:  primary,
		interval: interval,
		backoff:  time.Second,
		logger:   logger,
	}
}

// Run polls until the context is cancelled. Connection and protocol errors
// are absorbed here by reconnecting; they never reach the caller.
func (p *Poller) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		link, err := p.dial()
		if err != nil {
			p.logger.Error("tv connect failed, retrying", "error", err)
			if err := sleepCtx(ctx, p.backoff); err != nil {
				return err
			}
			continue
		}
		p.logger.Info("tv connected")

		err = p.poll(ctx, link)
		link.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Error("tv connection lost, reconnecting", "error", err)
		if err := sleepCtx(ctx, p.backoff); err != nil {
			return err
		}
	}
}

func (p *Poller) poll(ctx context.Context, link Link) error {
	for {
		state, err := link.GetState()
		if err != nil {
			return err
		}
		p.observe(state)

		drained := false
		for !drained {
			select {
			case cmd := <-p.cmds:
				p.logger.Debug("tv command", "command", cmd)
				if err := p.apply(link, cmd); err != nil {
					return err
				}
			default:
				drained = true
			}
		}

		if err := sleepCtx(ctx, p.interval); err != nil {
			return err
		}
	}
}

func (p *Poller) apply(link Link, cmd Command) error {
	switch cmd {
	case CmdPowerOn:
		return link.PowerOn()
	case CmdPowerOff:
		return link.PowerOff()
	case CmdSelectPrimary:
		return link.SelectInput(p.primary)
	case CmdVolumeUp:
		return link.VolumeUp()
	case CmdVolumeDown:
		return link.VolumeDown()
	case CmdInputCycle:
		return link.SendRemoteCode(codeInputToggle)
	case CmdHome:
		return link.SendRemoteCode(codeHome)
	case CmdBack:
		return link.SendRemoteCode(codeBack)
	case CmdConfirm:
		return link.SendRemoteCode(codeConfirm)
	case CmdCursorUp:
		return link.SendRemoteCode(codeCursorUp)
	case CmdCursorDown:
		return link.SendRemoteCode(codeCursorDown)
	case CmdCursorLeft:
		return link.SendRemoteCode(codeCursorLeft)
	case CmdCursorRight:
		return link.SendRemoteCode(codeCursorRight)
	}
	p.logger.Warn("unknown tv command dropped", "command", int(cmd))
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
