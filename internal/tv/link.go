package tv

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// State is the television state derived from one poll cycle.
type State int

const (
	StateOff State = iota
	StateOnPrimary
	StateOnOther
)

// String returns the state name for logs and the status page.
func (s State) String() string {
	switch s {
	case StateOff:
		return "OFF"
	case StateOnPrimary:
		return "ON_PRIMARY"
	case StateOnOther:
		return "ON_OTHER"
	}
	return "INVALID"
}

// Link is the capability interface over one wire dialect. Implementations
// are not safe for concurrent use; the poller is the single owner.
type Link interface {
	// GetState derives the television state: power query first, input query
	// only if powered.
	GetState() (State, error)

	PowerOn() error
	PowerOff() error
	SelectInput(index byte) error
	VolumeUp() error
	VolumeDown() error
	SendRemoteCode(code byte) error

	Close() error
}

// Bravia speaks the BRAVIA serial dialect over a byte stream.
type Bravia struct {
	port    io.ReadWriteCloser
	primary byte
	logger  *slog.Logger

	// sleep is replaced in tests to avoid real delays in the power-on
	// readiness poll.
	sleep func(time.Duration)
}

// NewBravia wraps an open port. primary is the HDMI index treated as the
// default input.
func NewBravia(port io.ReadWriteCloser, primary byte, logger *slog.Logger) *Bravia {
	return &Bravia{
		port:    port,
		primary: primary,
		logger:  logger,
		sleep:   time.Sleep,
	}
}

func (b *Bravia) query(function byte) ([]byte, error) {
	return exchange(b.port, []byte{queryRequest, category, function, queryWildcard, queryWildcard})
}

func (b *Bravia) command(frame ...byte) error {
	_, err := exchange(b.port, frame)
	return err
}

// PoweredOn queries the power function.
func (b *Bravia) PoweredOn() (bool, error) {
	data, err := b.query(fnPower)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, fmt.Errorf("tv: empty power reply")
	}
	return data[0] == 1, nil
}

// CurrentInput queries the input-select function and returns the
// (type, index) pair.
func (b *Bravia) CurrentInput() (byte, byte, error) {
	data, err := b.query(fnInputSelect)
	if err != nil {
		return 0, 0, err
	}
	if len(data) < 2 {
		return 0, 0, fmt.Errorf("tv: short input reply (%d bytes)", len(data))
	}
	return data[0], data[1], nil
}

// GetState composes the power and input queries into a single reading.
// The input query is skipped entirely when the set is off.
func (b *Bravia) GetState() (State, error) {
	on, err := b.PoweredOn()
	if err != nil {
		return StateOff, err
	}
	if !on {
		return StateOff, nil
	}
	typ, idx, err := b.CurrentInput()
	if err != nil {
		return StateOff, err
	}
	if typ == inputTypeHDMI && idx == b.primary {
		return StateOnPrimary, nil
	}
	return StateOnOther, nil
}

// PowerOn issues the power-on command, then polls briefly so the log shows
// when the set settled. The readiness poll never fails the call; slow
// televisions are normal.
func (b *Bravia) PowerOn() error {
	if err := b.command(controlRequest, category, fnPower, 0x02, 0x01); err != nil {
		return err
	}

	const (
		attempts = 10
		step     = 100 * time.Millisecond
	)
	for i := 0; i < attempts; i++ {
		on, err := b.PoweredOn()
		if err == nil && on {
			if typ, idx, err := b.CurrentInput(); err == nil {
				b.logger.Info("tv settled after power-on",
					"input_type", typ, "input_index", idx)
				return nil
			}
		}
		b.sleep(step)
	}
	b.logger.Info("tv still settling after power-on")
	return nil
}

func (b *Bravia) PowerOff() error {
	return b.command(controlRequest, category, fnPower, 0x02, 0x00)
}

func (b *Bravia) SelectInput(index byte) error {
	return b.command(controlRequest, category, fnInputSelect, 0x03, inputTypeHDMI, index)
}

func (b *Bravia) VolumeUp() error {
	return b.command(controlRequest, category, fnVolume, 0x03, 0x00, 0x00)
}

func (b *Bravia) VolumeDown() error {
	return b.command(controlRequest, category, fnVolume, 0x03, 0x00, 0x01)
}

func (b *Bravia) SendRemoteCode(code byte) error {
	return b.command(controlRequest, category, fnSIRCS, 0x02, code)
}

func (b *Bravia) Close() error {
	return b.port.Close()
}
