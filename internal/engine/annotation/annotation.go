package annotation

import (
	"fmt"

	"github.com/dshills/blocknest/internal/engine/block"
)

// ID identifies an annotation for the lifetime of its index.
type ID uint64

// Annotation is a typed, leveled block region over [Start, End).
type Annotation struct {
	ID    ID
	Type  block.Type
	Start int
	End   int
	Level int
	Attrs block.Attributes
	Align block.Alignment
}

// Len returns the extent of the annotation.
func (a *Annotation) Len() int {
	return a.End - a.Start
}

// IsEmpty reports whether the annotation has collapsed.
func (a *Annotation) IsEmpty() bool {
	return a.End <= a.Start
}

// Covers reports whether a's range contains [start, end).
func (a *Annotation) Covers(start, end int) bool {
	return a.Start <= start && end <= a.End
}

// Contains reports whether a's range contains b's range.
func (a *Annotation) Contains(b *Annotation) bool {
	return a.Covers(b.Start, b.End)
}

// Overlaps reports whether a shares at least one position with [start, end).
func (a *Annotation) Overlaps(start, end int) bool {
	return a.Start < end && start < a.End
}

// SameShape reports whether a and b would merge if adjacent: same type,
// level, attributes and alignment.
func (a *Annotation) SameShape(b *Annotation) bool {
	return a.Type == b.Type && a.Level == b.Level &&
		a.Align == b.Align && a.Attrs.Equal(b.Attrs)
}

// Clone returns a deep copy.
func (a *Annotation) Clone() Annotation {
	c := *a
	c.Attrs = a.Attrs.Clone()
	return c
}

func (a *Annotation) String() string {
	return fmt.Sprintf("%s@%d[%d, %d)", a.Type, a.Level, a.Start, a.End)
}

// Less reports whether a precedes b in document order.
func Less(a, b *Annotation) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.End != b.End {
		return a.End > b.End
	}
	if a.Level != b.Level {
		return a.Level < b.Level
	}
	return a.ID < b.ID
}
