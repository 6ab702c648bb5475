package action_test

import (
	"errors"
	"testing"

	"github.com/dshills/keyladder/internal/action"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status action.Status
		want   string
	}{
		{action.StatusChanged, "changed"},
		{action.StatusNoOp, "no-op"},
		{action.StatusError, "error"},
		{action.Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestResultConstructors(t *testing.T) {
	if r := action.Changed(); !r.IsChanged() || r.IsNoOp() || r.IsError() {
		t.Errorf("Changed() = %+v, want StatusChanged", r)
	}
	if r := action.NoOp(); !r.IsNoOp() || r.IsChanged() {
		t.Errorf("NoOp() = %+v, want StatusNoOp", r)
	}

	errBoom := errors.New("boom")
	r := action.Error(errBoom)
	if !r.IsError() {
		t.Errorf("Error() = %+v, want StatusError", r)
	}
	if !errors.Is(r.Error, errBoom) {
		t.Errorf("Error().Error = %v, want %v", r.Error, errBoom)
	}

	r = action.Errorf("failed %d times", 3)
	if !r.IsError() || r.Error == nil {
		t.Fatalf("Errorf() = %+v, want StatusError with error", r)
	}
	if r.Error.Error() != "failed 3 times" {
		t.Errorf("Errorf().Error = %q, want %q", r.Error.Error(), "failed 3 times")
	}
}

func TestResultWithMessage(t *testing.T) {
	r := action.Changed().WithMessage("saved")
	if r.Message != "saved" {
		t.Errorf("WithMessage() = %q, want %q", r.Message, "saved")
	}
	if !r.IsChanged() {
		t.Error("WithMessage() should preserve status")
	}
}
