package action

// Built-in action names usable in ladder definitions.
const (
	NameSmartClose    = "smart_close"
	NameSave          = "save"
	NameQuit          = "quit"
	NameQuitAll       = "quit_all"
	NameForceQuitAll  = "force_quit_all"
	NameDeleteBuffer  = "delete_buffer"
	NameCloseOverlays = "close_overlays"
	NameNoop          = "noop"
)

// builtinNames is the set of names RegisterBuiltins claims.
var builtinNames = map[string]bool{
	NameSmartClose:    true,
	NameSave:          true,
	NameQuit:          true,
	NameQuitAll:       true,
	NameForceQuitAll:  true,
	NameDeleteBuffer:  true,
	NameCloseOverlays: true,
	NameNoop:          true,
}

// IsBuiltin reports whether name belongs to a built-in effect. Custom
// actions may not shadow built-ins.
func IsBuiltin(name string) bool {
	return builtinNames[name]
}

// Commands holds the host command strings the built-in effects issue.
// Spellings are configuration data; hosts differ.
type Commands struct {
	Save          string
	Quit          string
	QuitAll       string
	ForceQuitAll  string
	DeleteBuffer  string
	CloseOverlays string
	DismissPopup  string
	AbortCommand  string
	LeaveTerminal string
	ToNormal      string
}

// DefaultCommands returns the command spellings the demo host understands.
func DefaultCommands() Commands {
	return Commands{
		Save:          "write",
		Quit:          "quit",
		QuitAll:       "quit-all",
		ForceQuitAll:  "quit-all!",
		DeleteBuffer:  "buffer-delete",
		CloseOverlays: "close-overlays",
		DismissPopup:  "popup-dismiss",
		AbortCommand:  "command-abort",
		LeaveTerminal: "terminal-leave",
		ToNormal:      "normal-mode",
	}
}

// RegisterBuiltins registers the standard effects using the given command
// spellings. Each simple built-in issues exactly one host command.
func RegisterBuiltins(r *Registry, cmds Commands) error {
	effects := []Effect{
		NewSmartClose(cmds),
		NewFunc(NameSave, func(ctx *Context) Result {
			return ctx.Exec(cmds.Save)
		}),
		NewFunc(NameQuit, func(ctx *Context) Result {
			return ctx.Exec(cmds.Quit)
		}),
		NewFunc(NameQuitAll, func(ctx *Context) Result {
			return ctx.Exec(cmds.QuitAll)
		}),
		NewFunc(NameForceQuitAll, func(ctx *Context) Result {
			return ctx.Exec(cmds.ForceQuitAll)
		}),
		NewFunc(NameDeleteBuffer, func(ctx *Context) Result {
			return ctx.Exec(cmds.DeleteBuffer)
		}),
		NewFunc(NameCloseOverlays, func(ctx *Context) Result {
			return ctx.Exec(cmds.CloseOverlays)
		}),
		NewFunc(NameNoop, func(*Context) Result {
			return NoOp()
		}),
	}

	for _, e := range effects {
		if err := r.Register(e); err != nil {
			return err
		}
	}
	return nil
}
