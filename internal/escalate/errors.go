package escalate

import "errors"

// Dispatcher errors.
var (
	// ErrUnknownPath indicates an operation named a path that is not configured.
	ErrUnknownPath = errors.New("escalate: unknown path")

	// ErrNoPaths indicates a configuration with no escalation paths.
	ErrNoPaths = errors.New("escalate: no paths configured")

	// ErrEmptyPathName indicates a path with an empty name.
	ErrEmptyPathName = errors.New("escalate: empty path name")

	// ErrDuplicatePath indicates two paths share a name.
	ErrDuplicatePath = errors.New("escalate: duplicate path name")

	// ErrEmptyLadder indicates a path with no ladder rungs.
	ErrEmptyLadder = errors.New("escalate: empty ladder")

	// ErrEmptyActionName indicates a ladder rung with an empty action name.
	ErrEmptyActionName = errors.New("escalate: empty action name in ladder")

	// ErrInvalidOverflow indicates an unrecognized overflow policy.
	ErrInvalidOverflow = errors.New("escalate: invalid overflow policy")

	// ErrNoRegistry indicates the dispatcher was built without an action registry.
	ErrNoRegistry = errors.New("escalate: no action registry")

	// ErrClosed indicates the dispatcher has been closed.
	ErrClosed = errors.New("escalate: dispatcher closed")
)
