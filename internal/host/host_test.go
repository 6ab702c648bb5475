package host

import "testing"

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeUnknown, "unknown"},
		{ModeNormal, "normal"},
		{ModeInsert, "insert"},
		{ModeVisual, "visual"},
		{ModeTerminal, "terminal"},
		{ModeCommand, "command"},
		{Mode(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestBufferKindString(t *testing.T) {
	tests := []struct {
		kind BufferKind
		want string
	}{
		{BufferNormal, "normal"},
		{BufferSpecial, "special"},
		{BufferKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("BufferKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
