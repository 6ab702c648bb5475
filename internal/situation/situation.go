// Package situation classifies the host editor's current state into one of
// a small set of situations the escalation ladder can react to.
package situation

// Situation describes what the editor is doing right now, from the point
// of view of an escalating trigger key.
type Situation uint8

const (
	// Unknown is the zero value; treated like NormalBuffer.
	Unknown Situation = iota

	// CommandPending means a partially entered command line awaits input.
	CommandPending

	// CompletionPopup means a completion popup is visible.
	CompletionPopup

	// Overlay means at least one floating window is open.
	Overlay

	// TerminalMode means an embedded terminal has raw input focus.
	TerminalMode

	// VisualMode means a selection is active.
	VisualMode

	// InsertMode means the editor is taking text input.
	InsertMode

	// SpecialBuffer means focus is on a utility buffer (scratch, log).
	SpecialBuffer

	// NormalBuffer means focus is on an ordinary file buffer.
	NormalBuffer
)

// String returns a human-readable situation name.
func (s Situation) String() string {
	switch s {
	case CommandPending:
		return "command-pending"
	case CompletionPopup:
		return "completion-popup"
	case Overlay:
		return "overlay"
	case TerminalMode:
		return "terminal"
	case VisualMode:
		return "visual"
	case InsertMode:
		return "insert"
	case SpecialBuffer:
		return "special-buffer"
	case NormalBuffer:
		return "normal-buffer"
	default:
		return "unknown"
	}
}
