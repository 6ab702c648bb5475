package action

import "errors"

// Registry errors.
var (
	// ErrDuplicateAction indicates an action name is already registered.
	ErrDuplicateAction = errors.New("action: duplicate action name")

	// ErrEmptyName indicates an effect with an empty name.
	ErrEmptyName = errors.New("action: empty action name")

	// ErrNilEffect indicates a nil effect was registered.
	ErrNilEffect = errors.New("action: nil effect")
)
