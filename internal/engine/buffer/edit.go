package buffer

import "fmt"

// Edit describes a single text replacement applied to a buffer.
// Positions are those of the buffer before the edit.
type Edit struct {
	Start   int    // First replaced position
	OldText string // Removed text
	NewText string // Inserted text
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(pos int, text string) Edit {
	return Edit{Start: pos, NewText: text}
}

// NewDelete creates an Edit that records the removal of text at start.
func NewDelete(start int, removed string) Edit {
	return Edit{Start: start, OldText: removed}
}

// OldLen returns the number of removed runes.
func (e Edit) OldLen() int {
	return len([]rune(e.OldText))
}

// NewLen returns the number of inserted runes.
func (e Edit) NewLen() int {
	return len([]rune(e.NewText))
}

// OldRange is the replaced range in pre-edit coordinates.
func (e Edit) OldRange() Range {
	return Range{Start: e.Start, End: e.Start + e.OldLen()}
}

// NewRange is the inserted range in post-edit coordinates.
func (e Edit) NewRange() Range {
	return Range{Start: e.Start, End: e.Start + e.NewLen()}
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() int {
	return e.NewLen() - e.OldLen()
}

// IsInsert returns true if this is a pure insertion.
func (e Edit) IsInsert() bool {
	return e.OldText == "" && e.NewText != ""
}

// IsDelete returns true if this is a pure deletion.
func (e Edit) IsDelete() bool {
	return e.OldText != "" && e.NewText == ""
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.OldText == "" && e.NewText == ""
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	switch {
	case e.IsInsert():
		return fmt.Sprintf("Insert(%d, %q)", e.Start, e.NewText)
	case e.IsDelete():
		return fmt.Sprintf("Delete%s", e.OldRange())
	default:
		return fmt.Sprintf("Replace%s with %q", e.OldRange(), e.NewText)
	}
}

// Apply performs the replacement [start, end) -> text on b and returns the
// applied Edit.
func (b *Buffer) Apply(start, end int, text string) (Edit, error) {
	if err := b.ValidateRange(start, end); err != nil {
		return Edit{}, err
	}
	old := b.TextRange(start, end)
	text = normalizeLineEndings(text)
	if _, err := b.Replace(start, end, text); err != nil {
		return Edit{}, err
	}
	return Edit{Start: start, OldText: old, NewText: text}, nil
}
