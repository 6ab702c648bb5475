package script

import "errors"

// Script errors.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("script: state is closed")

	// ErrEmptyChunk indicates an empty Lua chunk.
	ErrEmptyChunk = errors.New("script: empty chunk")

	// ErrCompile indicates a chunk failed to compile.
	ErrCompile = errors.New("script: compile error")
)
