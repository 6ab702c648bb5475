package action_test

import (
	"testing"

	"github.com/dshills/keyladder/internal/action"
	"github.com/dshills/keyladder/internal/host"
	"github.com/dshills/keyladder/internal/logging"
	"github.com/dshills/keyladder/internal/situation"
)

func smartCloseContext(h *fakeHost, sit situation.Situation) *action.Context {
	return &action.Context{
		Executor:  h,
		Inspector: h,
		Classify:  func() situation.Situation { return sit },
		Logger:    logging.NullLogger,
	}
}

func TestSmartCloseBranches(t *testing.T) {
	cmds := action.DefaultCommands()
	tests := []struct {
		sit     situation.Situation
		command string
	}{
		{situation.CommandPending, cmds.AbortCommand},
		{situation.CompletionPopup, cmds.DismissPopup},
		{situation.Overlay, cmds.CloseOverlays},
		{situation.TerminalMode, cmds.LeaveTerminal},
		{situation.VisualMode, cmds.ToNormal},
		{situation.InsertMode, cmds.ToNormal},
		{situation.SpecialBuffer, cmds.DeleteBuffer},
	}

	for _, tt := range tests {
		t.Run(tt.sit.String(), func(t *testing.T) {
			h := &fakeHost{buffer: host.Buffer{Name: "*scratch*", Kind: host.BufferSpecial}}
			sc := action.NewSmartClose(cmds)

			result := sc.Apply(smartCloseContext(h, tt.sit))
			if !result.IsChanged() {
				t.Errorf("Apply() = %v, want changed", result.Status)
			}
			if len(h.executed) != 1 || h.executed[0] != tt.command {
				t.Errorf("executed = %v, want [%s]", h.executed, tt.command)
			}
		})
	}
}

func TestSmartCloseNormalBufferIsNoOp(t *testing.T) {
	h := &fakeHost{buffer: host.Buffer{Name: "main.go", Kind: host.BufferNormal}}
	sc := action.NewSmartClose(action.DefaultCommands())

	result := sc.Apply(smartCloseContext(h, situation.NormalBuffer))
	if !result.IsNoOp() {
		t.Errorf("Apply() in normal buffer = %v, want no-op", result.Status)
	}
	if len(h.executed) != 0 {
		t.Errorf("normal buffer executed commands: %v", h.executed)
	}
}

func TestSmartClosePreservedBuffer(t *testing.T) {
	h := &fakeHost{buffer: host.Buffer{Name: "*scratch*", Kind: host.BufferSpecial}}
	sc := action.NewSmartClose(action.DefaultCommands())

	ctx := smartCloseContext(h, situation.SpecialBuffer)
	ctx.Preserved = func(name string) bool { return name == "*scratch*" }

	result := sc.Apply(ctx)
	if !result.IsNoOp() {
		t.Errorf("Apply() on preserved buffer = %v, want no-op", result.Status)
	}
	if len(h.executed) != 0 {
		t.Errorf("preserved buffer executed commands: %v", h.executed)
	}
}

func TestSmartCloseUnknownSituationIsNoOp(t *testing.T) {
	h := &fakeHost{}
	sc := action.NewSmartClose(action.DefaultCommands())

	result := sc.Apply(smartCloseContext(h, situation.Unknown))
	if !result.IsNoOp() {
		t.Errorf("Apply() in unknown situation = %v, want no-op", result.Status)
	}
}

func TestSmartCloseNilClassify(t *testing.T) {
	h := &fakeHost{}
	sc := action.NewSmartClose(action.DefaultCommands())

	ctx := &action.Context{Executor: h, Inspector: h, Logger: logging.NullLogger}
	result := sc.Apply(ctx)
	if !result.IsNoOp() {
		t.Errorf("Apply() with nil classify = %v, want no-op", result.Status)
	}
}
