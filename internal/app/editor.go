package app

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/keyladder/internal/host"
	"github.com/dshills/keyladder/internal/logging"
)

// Buffer command spellings the demo editor interprets. These are the
// DefaultCommands spellings; a configuration may rename them, in which
// case Execute reports the renamed spelling as unknown, exactly like a
// real host would for a bad command string.
const (
	cmdWrite         = "write"
	cmdQuit          = "quit"
	cmdQuitAll       = "quit-all"
	cmdForceQuitAll  = "quit-all!"
	cmdBufferDelete  = "buffer-delete"
	cmdCloseOverlays = "close-overlays"
	cmdPopupDismiss  = "popup-dismiss"
	cmdCommandAbort  = "command-abort"
	cmdTerminalLeave = "terminal-leave"
	cmdNormalMode    = "normal-mode"
	cmdCenterView    = "center-view"
)

// buffer is one toy editor buffer.
type buffer struct {
	name     string
	kind     host.BufferKind
	modified bool
	lines    []string
}

// Editor is the demo host state. It implements host.Host.
//
// All state lives behind one mutex so Execute (called from dispatch) and
// the key-event handlers (called from the tcell loop) cannot interleave a
// half-applied transition.
type Editor struct {
	mu      sync.Mutex
	logger  *logging.Logger
	buffers []*buffer
	current int
	mode    host.Mode
	command string
	overlay bool
	popup   bool
	quit    bool
	notice  string
}

// NewEditor creates the demo editor with its stock buffers.
func NewEditor(logger *logging.Logger) *Editor {
	if logger == nil {
		logger = logging.NullLogger
	}
	return &Editor{
		logger: logger.WithComponent("editor"),
		mode:   host.ModeNormal,
		buffers: []*buffer{
			{
				name: "demo.txt",
				kind: host.BufferNormal,
				lines: []string{
					"keyladder demo buffer",
					"",
					"i/v/t/: enter modes, F1 toggles help, Tab cycles buffers.",
					"Press a trigger key repeatedly to climb its ladder.",
				},
			},
			{name: "*scratch*", kind: host.BufferSpecial, lines: []string{"scratch space"}},
			{name: "*log*", kind: host.BufferSpecial, lines: []string{"command log"}},
		},
	}
}

// Execute implements host.Executor. It interprets the demo command set;
// anything else is an unknown-command error, which the escalation
// machinery logs and otherwise ignores.
func (e *Editor) Execute(command string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.log(command)

	switch command {
	case cmdWrite:
		e.buffers[e.current].modified = false
		e.notice = "written " + e.buffers[e.current].name
		return nil

	case cmdQuit:
		return e.closeCurrent(false)

	case cmdQuitAll:
		for _, b := range e.buffers {
			if b.modified {
				return fmt.Errorf("%w: %s", ErrUnsavedChanges, b.name)
			}
		}
		e.quit = true
		return nil

	case cmdForceQuitAll:
		e.quit = true
		return nil

	case cmdBufferDelete:
		return e.closeCurrent(true)

	case cmdCloseOverlays:
		e.overlay = false
		return nil

	case cmdPopupDismiss:
		e.popup = false
		return nil

	case cmdCommandAbort:
		e.command = ""
		if e.mode == host.ModeCommand {
			e.mode = host.ModeNormal
		}
		return nil

	case cmdTerminalLeave:
		if e.mode == host.ModeTerminal {
			e.mode = host.ModeNormal
		}
		return nil

	case cmdNormalMode:
		e.mode = host.ModeNormal
		e.command = ""
		return nil

	case cmdCenterView:
		e.notice = "view centered"
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
}

// closeCurrent closes the focused buffer. force skips the unsaved-changes
// check. Closing the last buffer quits. Caller must hold the lock.
func (e *Editor) closeCurrent(force bool) error {
	b := e.buffers[e.current]
	if b.modified && !force {
		return fmt.Errorf("%w: %s", ErrUnsavedChanges, b.name)
	}

	if len(e.buffers) == 1 {
		e.quit = true
		return nil
	}

	e.buffers = append(e.buffers[:e.current], e.buffers[e.current+1:]...)
	if e.current >= len(e.buffers) {
		e.current = len(e.buffers) - 1
	}
	e.notice = "closed " + b.name
	return nil
}

// log appends a command to the *log* buffer.
// Caller must hold the lock.
func (e *Editor) log(command string) {
	for _, b := range e.buffers {
		if b.name == "*log*" {
			b.lines = append(b.lines, "> "+command)
			return
		}
	}
}

// Mode implements host.Inspector.
func (e *Editor) Mode() host.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// CommandPending implements host.Inspector.
func (e *Editor) CommandPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode == host.ModeCommand && e.command != ""
}

// CompletionVisible implements host.Inspector.
func (e *Editor) CompletionVisible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.popup
}

// HasCapability implements host.Inspector. The demo host advertises one
// completion engine so named-engine probes can be exercised.
func (e *Editor) HasCapability(name string) bool {
	return name == "demo-completion"
}

// CurrentBuffer implements host.Inspector.
func (e *Editor) CurrentBuffer() host.Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	b := e.buffers[e.current]
	return host.Buffer{Name: b.name, Kind: b.kind, Modified: b.modified}
}

// Windows implements host.Inspector. One window per buffer plus a
// floating window while the help overlay is open.
func (e *Editor) Windows() []host.Window {
	e.mu.Lock()
	defer e.mu.Unlock()

	windows := make([]host.Window, 0, len(e.buffers)+1)
	for i, b := range e.buffers {
		windows = append(windows, host.Window{
			ID:     i + 1,
			Buffer: host.Buffer{Name: b.name, Kind: b.kind, Modified: b.modified},
		})
	}
	if e.overlay {
		windows = append(windows, host.Window{
			ID:       len(windows) + 1,
			Floating: true,
			Buffer:   host.Buffer{Name: "*help*", Kind: host.BufferSpecial},
		})
	}
	return windows
}

// QuitRequested reports whether a quit command has been executed.
func (e *Editor) QuitRequested() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quit
}

// EnterMode switches the editing mode directly (demo key handling).
func (e *Editor) EnterMode(m host.Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = m
	if m != host.ModeCommand {
		e.command = ""
	}
}

// InsertRune types a character into the current buffer or the command
// line, depending on mode.
func (e *Editor) InsertRune(r rune) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.mode {
	case host.ModeCommand:
		e.command += string(r)
	case host.ModeInsert:
		b := e.buffers[e.current]
		if len(b.lines) == 0 {
			b.lines = []string{""}
		}
		b.lines[len(b.lines)-1] += string(r)
		b.modified = true
	case host.ModeTerminal:
		// Raw input is swallowed; the embedded terminal is imaginary.
	}
}

// ToggleOverlay opens or closes the floating help window.
func (e *Editor) ToggleOverlay() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.overlay = !e.overlay
}

// ShowPopup displays the simulated completion popup.
func (e *Editor) ShowPopup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.popup = true
}

// NextBuffer cycles focus to the next buffer.
func (e *Editor) NextBuffer() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = (e.current + 1) % len(e.buffers)
}

// Notice returns the most recent one-line status message.
func (e *Editor) Notice() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notice
}

// Snapshot returns display state for rendering.
func (e *Editor) Snapshot() EditorView {
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.buffers[e.current]
	names := make([]string, len(e.buffers))
	for i, buf := range e.buffers {
		names[i] = buf.name
		if buf.modified {
			names[i] += " [+]"
		}
	}

	lines := make([]string, len(b.lines))
	copy(lines, b.lines)

	return EditorView{
		Mode:        e.mode,
		BufferName:  b.name,
		BufferNames: names,
		Lines:       lines,
		Command:     e.command,
		Overlay:     e.overlay,
		Popup:       e.popup,
		Notice:      e.notice,
	}
}

// EditorView is an immutable rendering snapshot.
type EditorView struct {
	Mode        host.Mode
	BufferName  string
	BufferNames []string
	Lines       []string
	Command     string
	Overlay     bool
	Popup       bool
	Notice      string
}

// Title renders the buffer tab line.
func (v EditorView) Title() string {
	return strings.Join(v.BufferNames, " | ")
}
