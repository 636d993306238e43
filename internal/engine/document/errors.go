package document

import (
	"errors"

	"github.com/dshills/blocknest/internal/engine/buffer"
)

// Errors returned by document operations.
var (
	// ErrOffsetOutOfRange indicates a position outside [0, Len()].
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange

	// ErrRangeInvalid indicates a range whose start is after its end.
	ErrRangeInvalid = buffer.ErrRangeInvalid

	// ErrInvariant indicates that an operation would have left the block
	// structure inconsistent. The document is restored before it is returned.
	ErrInvariant = errors.New("block invariant violated")

	// ErrUnsupportedType indicates a block type that cannot be applied or
	// removed directly, such as a bare list item.
	ErrUnsupportedType = errors.New("unsupported block type")
)
