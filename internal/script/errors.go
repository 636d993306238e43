package script

import "errors"

// Errors returned while running scripts.
var (
	// ErrUnknownOp indicates a step with an unrecognized op.
	ErrUnknownOp = errors.New("unknown op")

	// ErrExpectation indicates an expect step that did not hold.
	ErrExpectation = errors.New("expectation failed")

	// ErrUnsupportedScript indicates a script file extension with no runner.
	ErrUnsupportedScript = errors.New("unsupported script type")

	// ErrStateClosed is returned when running Lua on a closed state.
	ErrStateClosed = errors.New("lua state is closed")
)
