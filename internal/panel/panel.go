// Package panel decodes events from the I2C air-remote button panel and
// writes its single-byte commands. The panel reports fixed 2-byte
// [code, data] frames; a zero code means no event is pending.
package panel

import (
	"github.com/pipsimon/air-remote-mediator/internal/mediator"
)

// Event frame codes reported by the panel firmware.
const (
	codeNone         byte = 0
	codeAsciiKey     byte = 'A'
	codeConsumerCode byte = 'C'
	codeKeyCode      byte = 'K'
	codeOkButton     byte = 'O'
	codePowerButton  byte = 'W'
	codeUsbReadiness byte = 'U'

	usbReady byte = 'Y'
)

// Command bytes written to the panel.
const (
	cmdPassthruOn  byte = 'P'
	cmdPassthruOff byte = 'p'
	cmdWake        byte = 'R'
)

// Conn is one 2-byte-frame connection to the panel. Implementations are
// not safe for concurrent use; the decoder is the single owner.
type Conn interface {
	// ReadEvent reads one [code, data] frame.
	ReadEvent() (code, data byte, err error)

	// WriteCommand writes one command byte.
	WriteCommand(b byte) error

	Close() error
}

// decode maps one non-empty frame to a mediator event. The second return
// is false for codes with no defined action.
func decode(code, data byte) (mediator.Event, bool) {
	switch code {
	case codeAsciiKey:
		return mediator.AsciiKey(data), true
	case codeConsumerCode:
		return mediator.ConsumerCode(data), true
	case codeKeyCode:
		return mediator.KeyCode(data), true
	case codeOkButton:
		return mediator.OkPressed(), true
	case codePowerButton:
		return mediator.PowerButton(), true
	case codeUsbReadiness:
		return mediator.SecondaryReadiness(data == usbReady), true
	}
	return mediator.Event{}, false
}

// commandByte maps a mediator panel op to its wire byte.
func commandByte(op mediator.PanelOp) byte {
	switch op {
	case mediator.PanelPassthruOn:
		return cmdPassthruOn
	case mediator.PanelWake:
		return cmdWake
	}
	return cmdPassthruOff
}
