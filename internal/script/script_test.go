package script_test

import (
	"errors"
	"testing"

	"github.com/dshills/keyladder/internal/action"
	"github.com/dshills/keyladder/internal/host"
	"github.com/dshills/keyladder/internal/logging"
	"github.com/dshills/keyladder/internal/script"
	"github.com/dshills/keyladder/internal/situation"
)

// fakeHost implements host.Executor and host.Inspector for testing.
type fakeHost struct {
	mode       host.Mode
	cmdPending bool
	completion bool
	buffer     host.Buffer
	windows    []host.Window
	executed   []string
	execErr    error
}

func (f *fakeHost) Execute(command string) error {
	f.executed = append(f.executed, command)
	return f.execErr
}

func (f *fakeHost) Mode() host.Mode                { return f.mode }
func (f *fakeHost) CommandPending() bool           { return f.cmdPending }
func (f *fakeHost) CompletionVisible() bool        { return f.completion }
func (f *fakeHost) HasCapability(name string) bool { return false }
func (f *fakeHost) CurrentBuffer() host.Buffer     { return f.buffer }
func (f *fakeHost) Windows() []host.Window         { return f.windows }

func newState(t *testing.T, h *fakeHost) *script.State {
	t.Helper()
	s := script.New(h, logging.NullLogger)
	t.Cleanup(s.Close)
	return s
}

func dispatchContext(h *fakeHost, sit situation.Situation) *action.Context {
	return &action.Context{
		Executor:  h,
		Inspector: h,
		Classify:  func() situation.Situation { return sit },
		Logger:    logging.NullLogger,
	}
}

func TestEffectReturnValueMapsToResult(t *testing.T) {
	tests := []struct {
		name  string
		chunk string
		want  action.Status
	}{
		{"true is changed", "return true", action.StatusChanged},
		{"false is no-op", "return false", action.StatusNoOp},
		{"nil is no-op", "return nil", action.StatusNoOp},
		{"no return is no-op", "local x = 1", action.StatusNoOp},
		{"runtime error is error", "error('boom')", action.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &fakeHost{}
			s := newState(t, h)

			eff, err := s.Effect("custom", tt.chunk)
			if err != nil {
				t.Fatalf("Effect() error = %v", err)
			}
			if eff.Name() != "custom" {
				t.Errorf("Name() = %q, want %q", eff.Name(), "custom")
			}

			result := eff.Apply(dispatchContext(h, situation.NormalBuffer))
			if result.Status != tt.want {
				t.Errorf("Apply() = %v, want %v", result.Status, tt.want)
			}
		})
	}
}

func TestEffectCompileErrorIsConfigurationTime(t *testing.T) {
	h := &fakeHost{}
	s := newState(t, h)

	if _, err := s.Effect("bad", "this is not lua"); !errors.Is(err, script.ErrCompile) {
		t.Errorf("Effect() error = %v, want ErrCompile", err)
	}
	if _, err := s.Effect("empty", "   "); !errors.Is(err, script.ErrEmptyChunk) {
		t.Errorf("Effect() error = %v, want ErrEmptyChunk", err)
	}
}

func TestEffectHostExecute(t *testing.T) {
	h := &fakeHost{}
	s := newState(t, h)

	eff, err := s.Effect("center", "return host.execute('center-view')")
	if err != nil {
		t.Fatalf("Effect() error = %v", err)
	}

	result := eff.Apply(dispatchContext(h, situation.NormalBuffer))
	if !result.IsChanged() {
		t.Errorf("Apply() = %v, want changed", result.Status)
	}
	if len(h.executed) != 1 || h.executed[0] != "center-view" {
		t.Errorf("executed = %v, want [center-view]", h.executed)
	}
}

func TestEffectHostExecuteFailureReturnsFalse(t *testing.T) {
	h := &fakeHost{execErr: errors.New("blocked")}
	s := newState(t, h)

	eff, err := s.Effect("try", "return host.execute('write')")
	if err != nil {
		t.Fatalf("Effect() error = %v", err)
	}

	result := eff.Apply(dispatchContext(h, situation.NormalBuffer))
	if !result.IsNoOp() {
		t.Errorf("Apply() with failing executor = %v, want no-op", result.Status)
	}
}

func TestEffectHostIntrospection(t *testing.T) {
	h := &fakeHost{
		mode:   host.ModeInsert,
		buffer: host.Buffer{Name: "*scratch*", Kind: host.BufferSpecial},
	}
	s := newState(t, h)

	chunk := `
		if host.mode() == "insert" and host.buffer_name() == "*scratch*"
			and host.situation() == "insert" then
			return true
		end
		return false
	`
	eff, err := s.Effect("check", chunk)
	if err != nil {
		t.Fatalf("Effect() error = %v", err)
	}

	result := eff.Apply(dispatchContext(h, situation.InsertMode))
	if !result.IsChanged() {
		t.Errorf("Apply() = %v, want changed (introspection mismatch)", result.Status)
	}
}

func TestProbeTruthiness(t *testing.T) {
	h := &fakeHost{}
	s := newState(t, h)

	probe, err := s.Probe("return host.mode() == 'insert'")
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	visible, err := probe()
	if err != nil {
		t.Fatalf("probe() error = %v", err)
	}
	if visible {
		t.Error("probe() = true in normal mode, want false")
	}

	h.mode = host.ModeInsert
	visible, err = probe()
	if err != nil {
		t.Fatalf("probe() error = %v", err)
	}
	if !visible {
		t.Error("probe() = false in insert mode, want true")
	}
}

func TestProbeRuntimeErrorReported(t *testing.T) {
	h := &fakeHost{}
	s := newState(t, h)

	probe, err := s.Probe("error('engine gone')")
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	visible, err := probe()
	if err == nil {
		t.Fatal("probe() error = nil, want runtime error")
	}
	if visible {
		t.Error("probe() = true on error, want false")
	}
}

func TestSandboxRemovesLoaders(t *testing.T) {
	h := &fakeHost{}
	s := newState(t, h)

	for _, fn := range []string{"dofile", "loadfile", "load", "loadstring"} {
		eff, err := s.Effect(fn, "return "+fn+" == nil")
		if err != nil {
			t.Fatalf("Effect() error = %v", err)
		}
		if result := eff.Apply(dispatchContext(h, situation.NormalBuffer)); !result.IsChanged() {
			t.Errorf("%s is still defined in the sandbox", fn)
		}
	}
}

func TestRegisterEffects(t *testing.T) {
	h := &fakeHost{}
	s := newState(t, h)
	registry := action.NewRegistry(logging.NullLogger)

	chunks := map[string]string{
		"center": "return host.execute('center-view')",
		"ping":   "return true",
	}
	if err := s.RegisterEffects(registry, chunks); err != nil {
		t.Fatalf("RegisterEffects() error = %v", err)
	}

	for name := range chunks {
		if !registry.Has(name) {
			t.Errorf("registry missing custom action %q", name)
		}
	}
}

func TestRegisterEffectsCompileFailure(t *testing.T) {
	h := &fakeHost{}
	s := newState(t, h)
	registry := action.NewRegistry(logging.NullLogger)

	err := s.RegisterEffects(registry, map[string]string{"bad": "not lua at all"})
	if !errors.Is(err, script.ErrCompile) {
		t.Errorf("RegisterEffects() error = %v, want ErrCompile", err)
	}
}

func TestClosedStateRejectsCalls(t *testing.T) {
	h := &fakeHost{}
	s := script.New(h, logging.NullLogger)

	eff, err := s.Effect("late", "return true")
	if err != nil {
		t.Fatalf("Effect() error = %v", err)
	}

	s.Close()
	s.Close() // double close is harmless

	result := eff.Apply(dispatchContext(h, situation.NormalBuffer))
	if !result.IsError() {
		t.Errorf("Apply() after Close = %v, want error", result.Status)
	}
	if _, err := s.Effect("more", "return true"); !errors.Is(err, script.ErrStateClosed) {
		t.Errorf("Effect() after Close error = %v, want ErrStateClosed", err)
	}
}
