package panel

import (
	"testing"

	"github.com/pipsimon/air-remote-mediator/internal/mediator"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		code byte
		data byte
		want mediator.Event
	}{
		{"ascii key", 'A', 'x', mediator.AsciiKey('x')},
		{"consumer code", 'C', 0xea, mediator.ConsumerCode(0xea)},
		{"key code", 'K', 0x52, mediator.KeyCode(0x52)},
		{"ok button", 'O', 0, mediator.OkPressed()},
		{"power button", 'W', 0, mediator.PowerButton()},
		{"usb ready", 'U', 'Y', mediator.SecondaryReadiness(true)},
		{"usb not ready", 'U', 'N', mediator.SecondaryReadiness(false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decode(tt.code, tt.data)
			if !ok {
				t.Fatalf("decode(%q, %#02x) not ok", tt.code, tt.data)
			}
			if got != tt.want {
				t.Errorf("decode(%q, %#02x) = %+v, want %+v", tt.code, tt.data, got, tt.want)
			}
		})
	}
}

func TestDecodeUnknownCode(t *testing.T) {
	if _, ok := decode('Z', 0x01); ok {
		t.Error("unknown code decoded")
	}
}

func TestCommandByte(t *testing.T) {
	tests := []struct {
		op   mediator.PanelOp
		want byte
	}{
		{mediator.PanelPassthruOn, 'P'},
		{mediator.PanelPassthruOff, 'p'},
		{mediator.PanelWake, 'R'},
	}
	for _, tt := range tests {
		if got := commandByte(tt.op); got != tt.want {
			t.Errorf("commandByte(%v) = %q, want %q", tt.op, got, tt.want)
		}
	}
}
