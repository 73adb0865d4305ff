package mediator

import (
	"log/slog"
	"time"

	"github.com/pipsimon/air-remote-mediator/internal/tv"
)

// Consumer codes sent by the air remote.
const (
	consumerVolumeUp   byte = 0xe9
	consumerVolumeDown byte = 0xea
	consumerBack       byte = 0x46
	consumerInputCycle byte = 0x86
	consumerHome       byte = 0x9a
	consumerPlayPause  byte = 0xcd
)

// HID key codes sent by the air remote.
const (
	hidArrowRight byte = 0x4f
	hidArrowLeft  byte = 0x50
	hidArrowDown  byte = 0x51
	hidArrowUp    byte = 0x52
)

// Rules holds the business-rule timings, fixed at startup.
type Rules struct {
	// GracePeriod bounds how long an Off reading is distrusted after a
	// power-on was issued. Early polls often misreport.
	GracePeriod time.Duration

	// IdleTimeout bounds how long the secondary device stays awake while
	// the television is off or on another input.
	IdleTimeout time.Duration

	// AntiHijack re-selects the primary input when the television switches
	// away on its own shortly after power-on.
	AntiHijack       bool
	AntiHijackWindow time.Duration
}

// Machine is the mediator state machine. Handle is a pure function of
// (state, event, now): it never blocks and never touches a device.
// Not safe for concurrent use; Loop is the single caller.
type Machine struct {
	rules  Rules
	logger *slog.Logger

	tv            TvState
	secondary     SecondaryState
	lastIdleCheck time.Time
	// guardStart is zero when no anti-hijack window is open.
	guardStart time.Time

	counts Counts
}

// NewMachine creates a machine with everything Unknown.
func NewMachine(rules Rules, start time.Time, logger *slog.Logger) *Machine {
	return &Machine{
		rules:         rules,
		logger:        logger,
		lastIdleCheck: start,
	}
}

// Handle applies one event and returns the commands to emit, in order.
func (m *Machine) Handle(ev Event, now time.Time) []Command {
	switch ev.Kind {
	case KindTvStateObserved:
		return m.handleTvObserved(ev.TvState, now)
	case KindPowerButtonPressed:
		return m.handlePowerButton(now)
	case KindRemoteConsumerCodePressed:
		return m.handleConsumerCode(ev.Code)
	case KindRemoteKeyPressed:
		return m.handleKeyCode(ev.Code)
	case KindAsciiKeyPressed:
		m.counts.Unmapped++
		m.logger.Info("unhandled ascii key", "code", ev.Code)
		return nil
	case KindOkPressed:
		m.counts.Keys++
		return []Command{tvCmd(tv.CmdConfirm)}
	case KindWakeSecondaryRequested:
		return []Command{panelCmd(PanelWake)}
	case KindSleepSecondaryRequested:
		return []Command{scriptCmd(ScriptSleepSecondary)}
	case KindSecondaryReadinessChanged:
		return m.handleSecondaryReadiness(ev.On)
	case KindHeartbeat:
		return m.handleHeartbeat(now)
	}
	m.logger.Warn("unknown event dropped", "kind", int(ev.Kind))
	return nil
}

func (m *Machine) handleTvObserved(observed tv.State, now time.Time) []Command {
	kind := observedKind(observed)
	if kind == m.tv.Kind {
		return nil
	}

	if m.tv.Kind == TvStarting && kind == TvOff && now.Sub(m.tv.Since) < m.rules.GracePeriod {
		// Early polls after a power-on often still report off.
		m.logger.Debug("ignoring off reading inside power-on grace window")
		return nil
	}

	if m.rules.AntiHijack && kind == TvOnOther &&
		!m.guardStart.IsZero() && now.Sub(m.guardStart) < m.rules.AntiHijackWindow {
		m.logger.Info("tv switched input on its own, re-selecting primary")
		return []Command{tvCmd(tv.CmdSelectPrimary)}
	}

	m.tv = TvState{Kind: kind}
	m.lastIdleCheck = now
	if kind == TvOff {
		m.guardStart = time.Time{}
	}
	m.counts.TvChanges++
	m.logger.Info("tv state", "tv", kind, "secondary", m.secondary)

	on := kind != TvOff
	cmds := []Command{
		panelCmd(passthruOp(kind)),
		notifyCmd(NotifyTvPower, on),
		notifyCmd(NotifyAmbientLight, on),
	}
	if kind == TvOnPrimary {
		cmds = append(cmds, panelCmd(PanelWake))
	}
	return cmds
}

func (m *Machine) handlePowerButton(now time.Time) []Command {
	switch m.tv.Kind {
	case TvOff:
		m.tv = TvState{Kind: TvStarting, Since: now}
		m.lastIdleCheck = now
		if m.rules.AntiHijack {
			m.guardStart = now
		}
		m.counts.PowerButtons++
		m.logger.Info("power button: turning tv on")
		return []Command{
			tvCmd(tv.CmdPowerOn),
			tvCmd(tv.CmdSelectPrimary),
			panelCmd(passthruOp(TvStarting)),
			notifyCmd(NotifyTvPower, true),
			notifyCmd(NotifyAmbientLight, true),
		}
	case TvOnPrimary, TvOnOther:
		m.counts.PowerButtons++
		m.logger.Info("power button: turning tv off")
		return []Command{
			tvCmd(tv.CmdPowerOff),
			notifyCmd(NotifyTvPower, false),
			notifyCmd(NotifyAmbientLight, false),
		}
	}
	// No confirmed baseline; acting blind could fight the television.
	m.logger.Info("power button ignored", "tv", m.tv.Kind)
	return nil
}

func (m *Machine) handleConsumerCode(code byte) []Command {
	var cmds []Command
	switch code {
	case consumerVolumeUp:
		cmds = []Command{tvCmd(tv.CmdVolumeUp)}
	case consumerVolumeDown:
		cmds = []Command{tvCmd(tv.CmdVolumeDown)}
	case consumerBack:
		cmds = []Command{tvCmd(tv.CmdBack)}
	case consumerInputCycle:
		// A deliberate input switch ends any anti-hijack window.
		m.guardStart = time.Time{}
		cmds = []Command{tvCmd(tv.CmdInputCycle)}
	case consumerHome:
		cmds = []Command{tvCmd(tv.CmdHome)}
	case consumerPlayPause:
		m.counts.ConsumerCodes++
		if m.tv.Kind == TvOnPrimary {
			return nil
		}
		return []Command{scriptCmd(ScriptPlayPause)}
	default:
		m.counts.Unmapped++
		m.logger.Info("unhandled consumer code", "code", code)
		return nil
	}
	m.counts.ConsumerCodes++
	return cmds
}

func (m *Machine) handleKeyCode(code byte) []Command {
	var op tv.Command
	switch code {
	case hidArrowUp:
		op = tv.CmdCursorUp
	case hidArrowDown:
		op = tv.CmdCursorDown
	case hidArrowLeft:
		op = tv.CmdCursorLeft
	case hidArrowRight:
		op = tv.CmdCursorRight
	default:
		m.counts.Unmapped++
		m.logger.Info("unhandled key code", "code", code)
		return nil
	}
	m.counts.Keys++
	return []Command{tvCmd(op)}
}

func (m *Machine) handleSecondaryReadiness(on bool) []Command {
	if on {
		m.secondary = SecondaryOn
	} else {
		m.secondary = SecondaryOff
	}
	m.logger.Info("secondary readiness", "on", on)
	return []Command{notifyCmd(NotifySecondaryPower, on)}
}

func (m *Machine) handleHeartbeat(now time.Time) []Command {
	idle := m.tv.Kind == TvOff || m.tv.Kind == TvOnOther
	if idle && m.secondary == SecondaryOn && now.Sub(m.lastIdleCheck) > m.rules.IdleTimeout {
		m.lastIdleCheck = now
		m.counts.IdleSleeps++
		m.logger.Info("secondary device idle, requesting sleep", "tv", m.tv.Kind)
		return []Command{scriptCmd(ScriptSleepSecondary)}
	}
	return nil
}

// Snapshot returns a copy of the machine state for observation.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Tv:        m.tv,
		Secondary: m.secondary,
		Passthru:  passthru(m.tv.Kind),
		Counts:    m.counts,
	}
}

// passthru reports whether the panel's pass-through relay should be
// engaged for the given television state.
func passthru(kind TvKind) bool {
	return kind == TvStarting || kind == TvUnknown || kind == TvOnPrimary
}

func passthruOp(kind TvKind) PanelOp {
	if passthru(kind) {
		return PanelPassthruOn
	}
	return PanelPassthruOff
}

func observedKind(s tv.State) TvKind {
	switch s {
	case tv.StateOnPrimary:
		return TvOnPrimary
	case tv.StateOnOther:
		return TvOnOther
	}
	return TvOff
}
