package app

import "errors"

// Application errors.
var (
	// ErrQuit signals a user-requested exit. Not a failure.
	ErrQuit = errors.New("app: quit requested")

	// ErrUnknownCommand indicates Execute received a command the demo
	// host does not interpret.
	ErrUnknownCommand = errors.New("app: unknown command")

	// ErrUnsavedChanges indicates a quit command was blocked by a
	// modified buffer.
	ErrUnsavedChanges = errors.New("app: unsaved changes")

	// ErrNoScreen indicates Run was called without a terminal screen.
	ErrNoScreen = errors.New("app: no screen")
)
