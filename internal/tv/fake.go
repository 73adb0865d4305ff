package tv

import (
	"errors"
	"fmt"
)

// FakeLink is a test double that returns scripted states and records
// commands.
type FakeLink struct {
	// States contains scripted GetState results. Each call consumes the
	// next one; the last repeats once exhausted.
	States []State

	// index tracks current position in States
	index int

	// Commands records every command in call order, e.g. "power_on",
	// "select_input 1", "remote_code 0x65".
	Commands []string

	// StateErr, if set, will be returned by GetState.
	StateErr error

	// CommandErr, if set, will be returned by every command method.
	CommandErr error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeLink creates a FakeLink with the given scripted states.
func NewFakeLink(states []State) *FakeLink {
	return &FakeLink{States: states}
}

// GetState returns the next scripted state.
func (f *FakeLink) GetState() (State, error) {
	if f.StateErr != nil {
		return StateOff, f.StateErr
	}
	if len(f.States) == 0 {
		return StateOff, errors.New("no states configured")
	}
	s := f.States[f.index]
	if f.index < len(f.States)-1 {
		f.index++
	}
	return s, nil
}

func (f *FakeLink) record(cmd string) error {
	if f.CommandErr != nil {
		return f.CommandErr
	}
	f.Commands = append(f.Commands, cmd)
	return nil
}

func (f *FakeLink) PowerOn() error  { return f.record("power_on") }
func (f *FakeLink) PowerOff() error { return f.record("power_off") }

func (f *FakeLink) SelectInput(index byte) error {
	return f.record(fmt.Sprintf("select_input %d", index))
}

func (f *FakeLink) VolumeUp() error   { return f.record("volume_up") }
func (f *FakeLink) VolumeDown() error { return f.record("volume_down") }

func (f *FakeLink) SendRemoteCode(code byte) error {
	return f.record(fmt.Sprintf("remote_code %#02x", code))
}

// Close marks the link as closed.
func (f *FakeLink) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded commands and rewinds the state script.
func (f *FakeLink) Reset() {
	f.index = 0
	f.Commands = nil
	f.Closed = false
	f.StateErr = nil
	f.CommandErr = nil
}
