package history

import (
	"time"
	"unicode/utf8"

	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/buffer"
	"github.com/dshills/blocknest/internal/engine/document"
)

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Operation represents a single undoable document change.
// It captures all information needed to undo or redo the change.
type Operation struct {
	Before document.Snapshot // State before the change (for undo)
	After  document.Snapshot // State after the change (for redo)

	// Selection reported by the operation
	Selection Range

	// Metadata
	Timestamp time.Time // When the operation occurred
}

// NewOperation creates a new operation.
func NewOperation(before, after document.Snapshot) *Operation {
	return &Operation{
		Before:    before,
		After:     after,
		Timestamp: time.Now(),
	}
}

// IsNoop returns true if this operation makes no changes.
func (op *Operation) IsNoop() bool {
	return op.Before.Text == op.After.Text &&
		sameAnnotations(op.Before.Annotations, op.After.Annotations)
}

// TextChanged returns true if the operation changed the text.
func (op *Operation) TextChanged() bool {
	return op.Before.Text != op.After.Text
}

// RuneDelta returns the change in document length.
func (op *Operation) RuneDelta() int {
	return utf8.RuneCountInString(op.After.Text) - utf8.RuneCountInString(op.Before.Text)
}

// sameAnnotations compares two snapshots' annotation sets by value. IDs are
// part of the comparison since restoring a snapshot keeps them.
func sameAnnotations(a, b []annotation.Annotation) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := &a[i], &b[i]
		if x.ID != y.ID || x.Start != y.Start || x.End != y.End || !x.SameShape(y) {
			return false
		}
	}
	return true
}

// OperationInfo provides read-only info about an operation.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	Description string    // Human-readable description
	Timestamp   time.Time // When the operation occurred
	RuneDelta   int       // Positive for insertions, negative for deletions
}

// OperationList is a collection of operations applied together.
type OperationList []*Operation

// TotalRuneDelta returns the total change in document length.
func (ops OperationList) TotalRuneDelta() int {
	total := 0
	for _, op := range ops {
		total += op.RuneDelta()
	}
	return total
}

// Changed returns true if any operation changed the document.
func (ops OperationList) Changed() bool {
	for _, op := range ops {
		if !op.IsNoop() {
			return true
		}
	}
	return false
}
