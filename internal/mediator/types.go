// Package mediator contains the pure state machine at the centre of the
// daemon. It owns the canonical derived state, consumes the unified event
// stream from every collaborator, and emits outbound commands. It performs
// no I/O of its own.
package mediator

import (
	"time"

	"github.com/pipsimon/air-remote-mediator/internal/tv"
)

// TvKind enumerates the mediator's view of the television.
type TvKind int

const (
	TvUnknown TvKind = iota
	TvStarting
	TvOff
	TvOnPrimary
	TvOnOther
)

func (k TvKind) String() string {
	switch k {
	case TvUnknown:
		return "UNKNOWN"
	case TvStarting:
		return "STARTING"
	case TvOff:
		return "OFF"
	case TvOnPrimary:
		return "ON_PRIMARY"
	case TvOnOther:
		return "ON_OTHER"
	}
	return "INVALID"
}

// TvState pairs the kind with the time Starting was entered. Since is zero
// for every other kind.
type TvState struct {
	Kind  TvKind
	Since time.Time
}

// SecondaryState is the companion device's USB readiness, reported by the
// panel and never polled.
type SecondaryState int

const (
	SecondaryUnknown SecondaryState = iota
	SecondaryOff
	SecondaryOn
)

func (s SecondaryState) String() string {
	switch s {
	case SecondaryUnknown:
		return "UNKNOWN"
	case SecondaryOff:
		return "OFF"
	case SecondaryOn:
		return "ON"
	}
	return "INVALID"
}

// EventKind enumerates inbound events.
type EventKind int

const (
	KindTvStateObserved EventKind = iota
	KindPowerButtonPressed
	KindRemoteKeyPressed
	KindRemoteConsumerCodePressed
	KindAsciiKeyPressed
	KindOkPressed
	KindWakeSecondaryRequested
	KindSleepSecondaryRequested
	KindSecondaryReadinessChanged
	KindHeartbeat
)

// Event is one inbound message from a collaborator. Only the fields
// relevant to the kind are set.
type Event struct {
	Kind    EventKind
	TvState tv.State // KindTvStateObserved
	Code    byte     // key / consumer / ascii events
	On      bool     // KindSecondaryReadinessChanged
}

// Event constructors used by the producing collaborators.

func TvObserved(s tv.State) Event   { return Event{Kind: KindTvStateObserved, TvState: s} }
func PowerButton() Event            { return Event{Kind: KindPowerButtonPressed} }
func KeyCode(code byte) Event       { return Event{Kind: KindRemoteKeyPressed, Code: code} }
func ConsumerCode(code byte) Event  { return Event{Kind: KindRemoteConsumerCodePressed, Code: code} }
func AsciiKey(code byte) Event      { return Event{Kind: KindAsciiKeyPressed, Code: code} }
func OkPressed() Event              { return Event{Kind: KindOkPressed} }
func WakeSecondary() Event          { return Event{Kind: KindWakeSecondaryRequested} }
func SleepSecondary() Event         { return Event{Kind: KindSleepSecondaryRequested} }
func SecondaryReadiness(on bool) Event {
	return Event{Kind: KindSecondaryReadinessChanged, On: on}
}
func Heartbeat() Event { return Event{Kind: KindHeartbeat} }

// PanelOp is one outbound action for the input decoder, which maps it to
// its single-byte wire command.
type PanelOp int

const (
	PanelPassthruOn PanelOp = iota
	PanelPassthruOff
	PanelWake
)

func (op PanelOp) String() string {
	switch op {
	case PanelPassthruOn:
		return "passthru_on"
	case PanelPassthruOff:
		return "passthru_off"
	case PanelWake:
		return "wake"
	}
	return "invalid"
}

// Notification enumerates the bus notifications the bridge publishes.
type Notification int

const (
	NotifyTvPower Notification = iota
	NotifySecondaryPower
	NotifyAmbientLight
)

func (n Notification) String() string {
	switch n {
	case NotifyTvPower:
		return "tv_power"
	case NotifySecondaryPower:
		return "secondary_power"
	case NotifyAmbientLight:
		return "ambient_light"
	}
	return "invalid"
}

// Home Assistant scripts triggered through the bus.
const (
	ScriptSleepSecondary = "secondary_sleep"
	ScriptPlayPause      = "media_play_pause"
)

// CommandKind routes a Command to one of the three collaborator queues.
type CommandKind int

const (
	CmdTv CommandKind = iota
	CmdPanel
	CmdBusNotify
	CmdBusScript
)

// Command is one outbound action. Comparable with ==, which the tests rely
// on.
type Command struct {
	Kind   CommandKind
	Tv     tv.Command   // CmdTv
	Panel  PanelOp      // CmdPanel
	Notify Notification // CmdBusNotify
	On     bool         // CmdBusNotify
	Script string       // CmdBusScript
}

func tvCmd(op tv.Command) Command  { return Command{Kind: CmdTv, Tv: op} }
func panelCmd(op PanelOp) Command  { return Command{Kind: CmdPanel, Panel: op} }
func scriptCmd(name string) Command {
	return Command{Kind: CmdBusScript, Script: name}
}
func notifyCmd(n Notification, on bool) Command {
	return Command{Kind: CmdBusNotify, Notify: n, On: on}
}

// Counts tracks handled events since startup, surfaced on the status page.
type Counts struct {
	TvChanges     int
	PowerButtons  int
	Keys          int
	ConsumerCodes int
	Unmapped      int
	IdleSleeps    int
}

// Snapshot is a copy of the machine's state for observation. Nothing
// outside the mediator loop reads the live state.
type Snapshot struct {
	Tv        TvState
	Secondary SecondaryState
	Passthru  bool
	Counts    Counts
}
