// Package tv implements the BRAVIA RS-232 control protocol and the poller
// that owns the serial connection to the television.
package tv

import (
	"errors"
	"fmt"
	"io"
)

// Request and response framing constants.
const (
	controlRequest byte = 0x8c
	queryRequest   byte = 0x83
	category       byte = 0x00

	fnPower       byte = 0x00
	fnInputSelect byte = 0x02
	fnVolume      byte = 0x05
	fnMuting      byte = 0x06
	fnPicture     byte = 0x0d
	fnDisplay     byte = 0x0f
	fnBrightness  byte = 0x24
	fnSIRCS       byte = 0x67

	inputTypeHDMI byte = 0x04

	responseHeader byte = 0x70
	responseAnswer byte = 0x00

	queryWildcard byte = 0xff
)

// SIRCS remote codes accepted by the remote emulation function.
const (
	codeCursorUp    byte = 0x74
	codeCursorDown  byte = 0x75
	codeCursorLeft  byte = 0x34
	codeCursorRight byte = 0x33
	codeConfirm     byte = 0x65
	codeHome        byte = 0x60
	codeBack        byte = 0xa3
	codeInputToggle byte = 0x25
)

// Protocol errors. Any of these aborts the exchange; the poller responds by
// reopening the connection.
var (
	ErrUnexpectedHeader = errors.New("tv: unexpected response header")
	ErrUnexpectedStatus = errors.New("tv: unexpected response status")
	ErrChecksumMismatch = errors.New("tv: response checksum mismatch")
	ErrTimeout          = errors.New("tv: read timed out")
)

// checksum is the wrapping byte sum of the frame, mod 255. The television
// computes it the same way on both directions of the link.
func checksum(frame []byte) byte {
	var sum byte
	for _, b := range frame {
		sum += b
	}
	return sum % 255
}

// exchange writes one frame (checksum appended) and reads back the reply.
// Query frames return the data payload; command frames return nil.
func exchange(port io.ReadWriter, frame []byte) ([]byte, error) {
	out := make([]byte, 0, len(frame)+1)
	out = append(out, frame...)
	out = append(out, checksum(frame))
	if _, err := port.Write(out); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	head := make([]byte, 3)
	if err := readFull(port, head); err != nil {
		return nil, err
	}
	if head[0] != responseHeader {
		return nil, fmt.Errorf("%w: %#02x", ErrUnexpectedHeader, head[0])
	}
	if head[1] != responseAnswer {
		return nil, fmt.Errorf("%w: %#02x", ErrUnexpectedStatus, head[1])
	}

	if frame[0] != queryRequest {
		// Command reply: third header byte is the checksum itself.
		if head[2] != checksum(head[:2]) {
			return nil, ErrChecksumMismatch
		}
		return nil, nil
	}

	// Query reply: third header byte is the length of data + checksum.
	body := make([]byte, int(head[2]))
	if err := readFull(port, body); err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty query reply", ErrChecksumMismatch)
	}
	data := body[:len(body)-1]
	sum := body[len(body)-1]

	check := make([]byte, 0, 2+len(data))
	check = append(check, head[0], head[1])
	check = append(check, data...)
	if sum != checksum(check) {
		return nil, ErrChecksumMismatch
	}
	return data, nil
}

// readFull fills buf from the port. A zero-byte read means the port-level
// read timeout expired without any reply.
func readFull(r io.Reader, buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		if err != nil {
			return fmt.Errorf("read reply: %w", err)
		}
		if n == 0 {
			return ErrTimeout
		}
		total += n
	}
	return nil
}
