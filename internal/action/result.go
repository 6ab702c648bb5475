package action

import "fmt"

// Status indicates the outcome of an effect.
type Status uint8

const (
	// StatusChanged indicates the effect changed host state.
	StatusChanged Status = iota
	// StatusNoOp indicates the effect had nothing to do.
	StatusNoOp
	// StatusError indicates the effect failed.
	StatusError
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusChanged:
		return "changed"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result represents the outcome of applying an effect.
type Result struct {
	// Status indicates the result status.
	Status Status

	// Error contains any error that occurred.
	Error error

	// Message is an optional status message for display.
	Message string
}

// IsChanged returns true if the effect changed host state.
func (r Result) IsChanged() bool {
	return r.Status == StatusChanged
}

// IsNoOp returns true if the effect had nothing to do.
func (r Result) IsNoOp() bool {
	return r.Status == StatusNoOp
}

// IsError returns true if the effect failed.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// Changed creates a result indicating the effect changed host state.
func Changed() Result {
	return Result{Status: StatusChanged}
}

// NoOp creates a no-operation result.
func NoOp() Result {
	return Result{Status: StatusNoOp}
}

// Error creates an error result.
func Error(err error) Result {
	return Result{Status: StatusError, Error: err}
}

// Errorf creates an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Result{
		Status: StatusError,
		Error:  fmt.Errorf(format, args...),
	}
}

// WithMessage returns a copy of the result with the specified message.
func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}
