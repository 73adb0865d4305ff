package panel

// Frame is one scripted [code, data] pair.
type Frame struct {
	Code byte
	Data byte
}

// FakeConn is a test double that returns scripted frames and records
// written command bytes.
type FakeConn struct {
	// Frames contains scripted frames. Each call to ReadEvent consumes the
	// next one; once exhausted, empty frames are returned.
	Frames []Frame

	// index tracks current position in Frames
	index int

	// Written records every command byte in write order.
	Written []byte

	// ReadErr, if set, will be returned by ReadEvent.
	ReadErr error

	// WriteErr, if set, will be returned by WriteCommand.
	WriteErr error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeConn creates a FakeConn with the given scripted frames.
func NewFakeConn(frames []Frame) *FakeConn {
	return &FakeConn{Frames: frames}
}

// ReadEvent returns the next scripted frame, or an empty frame once the
// script is exhausted.
func (f *FakeConn) ReadEvent() (byte, byte, error) {
	if f.ReadErr != nil {
		return 0, 0, f.ReadErr
	}
	if f.index >= len(f.Frames) {
		return 0, 0, nil
	}
	fr := f.Frames[f.index]
	f.index++
	return fr.Code, fr.Data, nil
}

// WriteCommand records the command byte.
func (f *FakeConn) WriteCommand(b byte) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.Written = append(f.Written, b)
	return nil
}

// Close marks the connection as closed.
func (f *FakeConn) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the script and clears recorded writes.
func (f *FakeConn) Reset() {
	f.index = 0
	f.Written = nil
	f.Closed = false
	f.ReadErr = nil
	f.WriteErr = nil
}
