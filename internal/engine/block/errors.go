package block

import "errors"

// Errors returned when parsing or validating block types.
var (
	// ErrUnknownType indicates a block type name that is not recognized.
	ErrUnknownType = errors.New("unknown block type")

	// ErrHeadingLevel indicates a heading level outside 1..6.
	ErrHeadingLevel = errors.New("heading level out of range")

	// ErrUnknownAlignment indicates an alignment name that is not recognized.
	ErrUnknownAlignment = errors.New("unknown alignment")
)
