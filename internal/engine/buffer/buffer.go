package buffer

import (
	"errors"
	"strings"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Newline is the only line terminator stored in a buffer.
const Newline = '\n'

// Buffer is a rune-indexed mutable text sequence.
type Buffer struct {
	runes []rune
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBufferFromString creates a buffer with initial content.
// CRLF and lone CR line endings are normalized to '\n'.
func NewBufferFromString(s string) *Buffer {
	return &Buffer{runes: []rune(normalizeLineEndings(s))}
}

// normalizeLineEndings converts all line endings to '\n'.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read Operations

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	return string(b.runes)
}

// TextRange returns text in [start, end). Out-of-range bounds are clamped.
func (b *Buffer) TextRange(start, end int) string {
	start = clamp(start, 0, len(b.runes))
	end = clamp(end, start, len(b.runes))
	return string(b.runes[start:end])
}

// Len returns the number of runes in the buffer.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// IsEmpty reports whether the buffer holds no characters.
func (b *Buffer) IsEmpty() bool {
	return len(b.runes) == 0
}

// RuneAt returns the rune at pos. The second result is false when pos is not
// a character position (the sentinel slot included).
func (b *Buffer) RuneAt(pos int) (rune, bool) {
	if pos < 0 || pos >= len(b.runes) {
		return 0, false
	}
	return b.runes[pos], true
}

// IsNewline reports whether the rune at pos is '\n'.
func (b *Buffer) IsNewline(pos int) bool {
	r, ok := b.RuneAt(pos)
	return ok && r == Newline
}

// IndexOf returns the index of the first occurrence of r at or after from,
// or -1 if there is none.
func (b *Buffer) IndexOf(r rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(b.runes); i++ {
		if b.runes[i] == r {
			return i
		}
	}
	return -1
}

// LastIndexOf returns the index of the last occurrence of r at or before
// from, or -1 if there is none.
func (b *Buffer) LastIndexOf(r rune, from int) int {
	if from >= len(b.runes) {
		from = len(b.runes) - 1
	}
	for i := from; i >= 0; i-- {
		if b.runes[i] == r {
			return i
		}
	}
	return -1
}

// Line Operations

// LineStart returns the start of the line containing pos.
func (b *Buffer) LineStart(pos int) int {
	return b.LastIndexOf(Newline, pos-1) + 1
}

// LineEnd returns the end of the line containing pos: one past its
// terminator. For the last line the terminator is the sentinel, so the
// result is Len()+1.
func (b *Buffer) LineEnd(pos int) int {
	nl := b.IndexOf(Newline, pos)
	if nl < 0 {
		return len(b.runes) + 1
	}
	return nl + 1
}

// LineExtent returns the [start, end) extent of the line containing pos.
func (b *Buffer) LineExtent(pos int) (int, int) {
	return b.LineStart(pos), b.LineEnd(pos)
}

// IsLineStart reports whether pos begins a line.
func (b *Buffer) IsLineStart(pos int) bool {
	if pos == 0 {
		return true
	}
	if pos < 0 || pos > len(b.runes) {
		return false
	}
	return b.runes[pos-1] == Newline
}

// IsLineBoundary reports whether pos ends a line extent: it is just past a
// '\n' or just past the sentinel.
func (b *Buffer) IsLineBoundary(pos int) bool {
	if pos == len(b.runes)+1 {
		return true
	}
	return pos > 0 && pos <= len(b.runes) && b.runes[pos-1] == Newline
}

// LineCount returns the number of lines, counting the line terminated by the
// sentinel.
func (b *Buffer) LineCount() int {
	n := 1
	for _, r := range b.runes {
		if r == Newline {
			n++
		}
	}
	return n
}

// Lines returns the extents of all lines intersecting [start, end).
// A zero-width request returns the extent of the line containing start.
func (b *Buffer) Lines(start, end int) []Range {
	var lines []Range
	pos := b.LineStart(start)
	for {
		ls, le := pos, b.LineEnd(pos)
		lines = append(lines, Range{Start: ls, End: le})
		if le >= end || le > len(b.runes) {
			break
		}
		pos = le
	}
	return lines
}

// Write Operations

// Insert inserts text at pos and returns the position after the inserted
// text.
func (b *Buffer) Insert(pos int, text string) (int, error) {
	return b.Replace(pos, pos, text)
}

// Delete removes the runes in [start, end).
func (b *Buffer) Delete(start, end int) error {
	_, err := b.Replace(start, end, "")
	return err
}

// Replace replaces [start, end) with text and returns the position after the
// inserted text.
func (b *Buffer) Replace(start, end int, text string) (int, error) {
	if err := b.ValidateRange(start, end); err != nil {
		return 0, err
	}

	ins := []rune(normalizeLineEndings(text))
	next := make([]rune, 0, len(b.runes)-(end-start)+len(ins))
	next = append(next, b.runes[:start]...)
	next = append(next, ins...)
	next = append(next, b.runes[end:]...)
	b.runes = next

	return start + len(ins), nil
}

// ValidateRange checks that [start, end) is a legal character range.
func (b *Buffer) ValidateRange(start, end int) error {
	if start > end {
		return ErrRangeInvalid
	}
	if start < 0 || end > len(b.runes) {
		return ErrOffsetOutOfRange
	}
	return nil
}

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{runes: make([]rune, len(b.runes))}
	copy(c.runes, b.runes)
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
