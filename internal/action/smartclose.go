package action

import (
	"github.com/dshills/keyladder/internal/situation"
)

// SmartClose dismisses the most specific transient UI state.
//
// It consults the classifier exactly once per application, then runs the
// single branch for that situation. In a plain normal-mode file buffer
// there is nothing to dismiss and the result is NoOp, which lets a ladder
// place escalating actions behind it.
type SmartClose struct {
	cmds Commands
}

// NewSmartClose creates the smart_close composite effect.
func NewSmartClose(cmds Commands) *SmartClose {
	return &SmartClose{cmds: cmds}
}

// Name implements Effect.Name.
func (s *SmartClose) Name() string {
	return NameSmartClose
}

// Apply implements Effect.Apply.
func (s *SmartClose) Apply(ctx *Context) Result {
	switch sit := ctx.Situation(); sit {
	case situation.CommandPending:
		return ctx.Exec(s.cmds.AbortCommand)
	case situation.CompletionPopup:
		return ctx.Exec(s.cmds.DismissPopup)
	case situation.Overlay:
		return ctx.Exec(s.cmds.CloseOverlays)
	case situation.TerminalMode:
		return ctx.Exec(s.cmds.LeaveTerminal)
	case situation.VisualMode, situation.InsertMode:
		return ctx.Exec(s.cmds.ToNormal)
	case situation.SpecialBuffer:
		var name string
		if ctx.Inspector != nil {
			name = ctx.Inspector.CurrentBuffer().Name
		}
		if ctx.IsPreserved(name) {
			return NoOp().WithMessage("buffer preserved: " + name)
		}
		return ctx.Exec(s.cmds.DeleteBuffer)
	default:
		return NoOp()
	}
}
