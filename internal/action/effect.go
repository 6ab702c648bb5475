package action

import (
	"github.com/dshills/keyladder/internal/host"
	"github.com/dshills/keyladder/internal/logging"
	"github.com/dshills/keyladder/internal/situation"
)

// Effect is one executable rung of an escalation ladder.
type Effect interface {
	// Name returns the action name this effect is registered under.
	Name() string

	// Apply executes the effect against the host.
	Apply(ctx *Context) Result
}

// Func is a function adapter for the Effect interface.
type Func struct {
	name string
	fn   func(*Context) Result
}

// NewFunc creates an Effect from a function.
func NewFunc(name string, fn func(*Context) Result) *Func {
	return &Func{name: name, fn: fn}
}

// Name implements Effect.Name.
func (f *Func) Name() string {
	return f.name
}

// Apply implements Effect.Apply.
func (f *Func) Apply(ctx *Context) Result {
	if f.fn == nil {
		return Errorf("effect %s: function is nil", f.name)
	}
	return f.fn(ctx)
}

// Context carries the host collaborators for one dispatch.
//
// The dispatcher builds a fresh Context per dispatch; effects must not
// retain it past Apply.
type Context struct {
	// Executor runs editor commands.
	Executor host.Executor

	// Inspector provides read-only host state.
	Inspector host.Inspector

	// Classify returns the current situation. Computed on demand so an
	// effect that never looks never pays for a probe.
	Classify func() situation.Situation

	// Preserved reports whether a special buffer name is exempt from
	// smart_close deletion.
	Preserved func(bufferName string) bool

	// Logger is scoped to the dispatch in progress.
	Logger *logging.Logger
}

// Exec runs one host command and maps the outcome to a Result.
func (c *Context) Exec(command string) Result {
	if c.Executor == nil {
		return Errorf("no executor for command %q", command)
	}
	if err := c.Executor.Execute(command); err != nil {
		return Error(err).WithMessage(command)
	}
	return Changed().WithMessage(command)
}

// Situation classifies the host, tolerating a nil Classify func.
func (c *Context) Situation() situation.Situation {
	if c.Classify == nil {
		return situation.Unknown
	}
	return c.Classify()
}

// IsPreserved reports whether the named buffer must not be deleted.
func (c *Context) IsPreserved(bufferName string) bool {
	if c.Preserved == nil {
		return false
	}
	return c.Preserved(bufferName)
}
