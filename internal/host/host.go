// Package host defines the interfaces keyladder expects from the embedding
// editor: command execution and read-only state introspection.
//
// The escalation machinery never reaches into editor internals directly.
// Everything it needs at dispatch time flows through Executor and
// Inspector, so any host that can answer these few questions can drive the
// full ladder.
package host

// Executor executes editor commands by name.
//
// Execute is fire-and-forget from the dispatcher's point of view: a
// returned error is logged and the escalation state machine advances as if
// the command had succeeded.
type Executor interface {
	// Execute runs the named editor command (e.g., "write", "quit").
	Execute(command string) error
}

// Inspector provides read-only access to host editor state.
//
// Implementations must be safe to call from the thread that delivers key
// events; keyladder never calls them from its timer goroutines.
type Inspector interface {
	// Mode returns the current editing mode.
	Mode() Mode

	// CommandPending returns true while a partially entered command line
	// is awaiting input.
	CommandPending() bool

	// CompletionVisible returns true if the host's own completion popup
	// is currently shown. Used by the "auto" completion probe.
	CompletionVisible() bool

	// HasCapability reports whether the host exposes the named optional
	// facility (e.g., a specific completion engine).
	HasCapability(name string) bool

	// CurrentBuffer returns the buffer under focus.
	CurrentBuffer() Buffer

	// Windows returns all open windows, including floating overlays.
	Windows() []Window
}

// Host combines command execution and state introspection. The demo
// application implements it; embedders supply their own.
type Host interface {
	Executor
	Inspector
}

// Mode identifies the host's current editing mode.
type Mode uint8

const (
	// ModeUnknown is the zero value; classified as a normal buffer.
	ModeUnknown Mode = iota

	// ModeNormal is command/navigation mode.
	ModeNormal

	// ModeInsert is text input mode.
	ModeInsert

	// ModeVisual covers all selection modes (char, line, block).
	ModeVisual

	// ModeTerminal is an embedded terminal taking raw input.
	ModeTerminal

	// ModeCommand is the ex-style command line.
	ModeCommand
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInsert:
		return "insert"
	case ModeVisual:
		return "visual"
	case ModeTerminal:
		return "terminal"
	case ModeCommand:
		return "command"
	default:
		return "unknown"
	}
}

// BufferKind distinguishes ordinary file buffers from special buffers.
type BufferKind uint8

const (
	// BufferNormal is a regular file-backed buffer.
	BufferNormal BufferKind = iota

	// BufferSpecial is a utility buffer (scratch, log, file tree).
	BufferSpecial
)

// String returns a human-readable buffer kind name.
func (k BufferKind) String() string {
	switch k {
	case BufferNormal:
		return "normal"
	case BufferSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// Buffer describes one host buffer.
type Buffer struct {
	// Name is the buffer's display name (file path or "*scratch*").
	Name string

	// Kind distinguishes file buffers from special buffers.
	Kind BufferKind

	// Modified is true if the buffer has unsaved changes.
	Modified bool
}

// Window describes one host window.
type Window struct {
	// ID uniquely identifies the window within the host.
	ID int

	// Floating is true for overlay windows (popups, help panels).
	Floating bool

	// Buffer is the buffer the window displays.
	Buffer Buffer
}
