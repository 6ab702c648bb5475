package situation

import (
	"sync"

	"github.com/dshills/keyladder/internal/host"
	"github.com/dshills/keyladder/internal/logging"
)

// PopupProbe reports whether a completion popup is currently visible.
//
// Probes may be supplied by the host, by configuration, or by a script.
// A probe that returns an error or panics is treated as "no popup"; the
// classifier never lets a probe failure escape.
type PopupProbe func() (bool, error)

// Classifier derives the current Situation from host state.
//
// Classification is computed fresh on every call and never cached; the
// situation can change between two presses of the same key.
type Classifier struct {
	inspector host.Inspector
	logger    *logging.Logger

	mu    sync.Mutex
	probe PopupProbe
}

// NewClassifier creates a classifier over the given inspector.
// A nil probe means completion popups are never detected.
func NewClassifier(inspector host.Inspector, probe PopupProbe, logger *logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NullLogger
	}
	return &Classifier{
		inspector: inspector,
		probe:     probe,
		logger:    logger.WithComponent("classifier"),
	}
}

// SetProbe replaces the completion popup probe. Used on reconfiguration,
// which may happen on a different goroutine than classification.
func (c *Classifier) SetProbe(probe PopupProbe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probe = probe
}

// Classify inspects the host and returns the highest-precedence situation.
//
// Precedence, most specific first: pending command line, completion popup,
// overlay window, terminal mode, visual mode, insert mode, special buffer,
// normal buffer.
func (c *Classifier) Classify() Situation {
	if c.inspector.CommandPending() || c.inspector.Mode() == host.ModeCommand {
		return CommandPending
	}
	if c.popupActive() {
		return CompletionPopup
	}
	if c.overlayOpen() {
		return Overlay
	}

	switch c.inspector.Mode() {
	case host.ModeTerminal:
		return TerminalMode
	case host.ModeVisual:
		return VisualMode
	case host.ModeInsert:
		return InsertMode
	}

	if c.inspector.CurrentBuffer().Kind == host.BufferSpecial {
		return SpecialBuffer
	}
	return NormalBuffer
}

// popupActive consults the probe, mapping errors and panics to false.
func (c *Classifier) popupActive() (active bool) {
	c.mu.Lock()
	probe := c.probe
	c.mu.Unlock()

	if probe == nil {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("completion probe panicked: %v", r)
			active = false
		}
	}()

	visible, err := probe()
	if err != nil {
		c.logger.Debug("completion probe failed: %v", err)
		return false
	}
	return visible
}

// overlayOpen returns true if any window is floating.
func (c *Classifier) overlayOpen() bool {
	for _, w := range c.inspector.Windows() {
		if w.Floating {
			return true
		}
	}
	return false
}

// ProbeForEngine builds a popup probe for the configured completion engine.
//
// "auto" (or empty) asks the host directly. "none" disables detection.
// Any other name is treated as an engine identifier: the probe answers
// false while the host lacks that capability, and defers to the host's
// popup state once it is present.
func ProbeForEngine(engine string, inspector host.Inspector) PopupProbe {
	switch engine {
	case "", "auto":
		return func() (bool, error) {
			return inspector.CompletionVisible(), nil
		}
	case "none":
		return nil
	default:
		return func() (bool, error) {
			if !inspector.HasCapability(engine) {
				return false, nil
			}
			return inspector.CompletionVisible(), nil
		}
	}
}
