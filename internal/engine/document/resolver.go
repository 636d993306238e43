package document

import (
	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/block"
	"github.com/dshills/blocknest/internal/engine/buffer"
)

// LineBounds expands [start, end) to whole lines. The returned end is in
// extended coordinates: a range reaching the last line ends at Len()+1.
//
// A newline belongs to the line it terminates, except that a selection
// starting on the first of two consecutive newlines starts on the empty line
// between them.
func (d *Document) LineBounds(start, end int) (int, int) {
	n := d.buf.Len()
	start = clamp(start, 0, n)
	end = clamp(end, start, n)

	ls := d.buf.LineStart(start)
	if end > start+1 && !d.buf.IsLineStart(start) &&
		d.buf.IsNewline(start) && d.buf.IsNewline(start+1) {
		ls = start + 1
	}

	var le int
	switch {
	case start == end:
		le = d.buf.LineEnd(start)
	case end == n:
		le = n + 1
	case d.buf.IsNewline(end - 1):
		le = end
	default:
		le = d.buf.LineEnd(end)
	}
	return ls, le
}

// NestingLevelAt returns the level of the innermost annotation covering pos,
// or 0 when pos is plain text.
func (d *Document) NestingLevelAt(pos int) int {
	chain := d.chain(clamp(pos, 0, d.buf.Len()))
	if len(chain) == 0 {
		return 0
	}
	return chain[len(chain)-1].Level
}

// MinNestingLevelAt returns the smallest innermost level over the lines of
// [start, end).
func (d *Document) MinNestingLevelAt(start, end int) int {
	ls, le := d.LineBounds(start, end)
	lowest := -1
	for _, line := range d.buf.Lines(ls, le) {
		lvl := d.NestingLevelAt(line.Start)
		if lowest < 0 || lvl < lowest {
			lowest = lvl
		}
	}
	return max(lowest, 0)
}

// Chain returns copies of the annotations covering pos, outermost first.
func (d *Document) Chain(pos int) []annotation.Annotation {
	chain := d.chain(clamp(pos, 0, d.buf.Len()))
	out := make([]annotation.Annotation, len(chain))
	for i, a := range chain {
		out[i] = a.Clone()
	}
	return out
}

// ParentOf returns the nearest enclosing annotation of id.
func (d *Document) ParentOf(id annotation.ID) (annotation.Annotation, bool) {
	a, ok := d.idx.Get(id)
	if !ok {
		return annotation.Annotation{}, false
	}
	p := d.parent(a)
	if p == nil {
		return annotation.Annotation{}, false
	}
	return p.Clone(), true
}

// chain returns the annotations covering the line at pos, outermost first.
func (d *Document) chain(pos int) []*annotation.Annotation {
	return d.idx.Containing(pos, pos+1)
}

// parent returns the deepest annotation containing a at a lower level.
func (d *Document) parent(a *annotation.Annotation) *annotation.Annotation {
	var p *annotation.Annotation
	for _, c := range d.idx.Containing(a.Start, a.End) {
		if c.ID == a.ID || c.Level >= a.Level {
			continue
		}
		if p == nil || c.Level > p.Level {
			p = c
		}
	}
	return p
}

// children returns the direct children of p in document order. A nil p
// stands for the document root.
func (d *Document) children(p *annotation.Annotation) []*annotation.Annotation {
	if p == nil {
		return d.idx.Filter(func(a *annotation.Annotation) bool { return a.Level == 1 })
	}
	return d.idx.Filter(func(a *annotation.Annotation) bool {
		return a.ID != p.ID && a.Level == p.Level+1 && p.Contains(a)
	})
}

// deepest returns the deepest annotation covering [start, end) accepted by
// match.
func (d *Document) deepest(start, end int, match func(*annotation.Annotation) bool) *annotation.Annotation {
	var found *annotation.Annotation
	for _, a := range d.idx.Containing(start, end) {
		if match(a) && (found == nil || a.Level > found.Level) {
			found = a
		}
	}
	return found
}

// innermostItem returns the deepest list item covering the line at pos.
func (d *Document) innermostItem(pos int) *annotation.Annotation {
	return d.deepest(pos, pos+1, isKind(block.KindListItem))
}

// expand grows [start, end) over every child of p it partially overlaps.
func (d *Document) expand(p *annotation.Annotation, start, end int) (int, int) {
	for _, c := range d.children(p) {
		if c.Overlaps(start, end) {
			start = min(start, c.Start)
			end = max(end, c.End)
		}
	}
	return start, end
}

// lines returns the line extents of [start, end).
func (d *Document) lines(start, end int) []buffer.Range {
	return d.buf.Lines(start, end)
}

// aligned reports whether pos is a legal annotation boundary.
func (d *Document) aligned(pos int) bool {
	return pos == 0 || d.buf.IsLineBoundary(pos)
}

// nextBoundary returns the smallest legal annotation boundary >= pos.
func (d *Document) nextBoundary(pos int) int {
	if d.aligned(pos) {
		return pos
	}
	return d.buf.LineEnd(pos)
}

func isKind(k block.Kind) func(*annotation.Annotation) bool {
	return func(a *annotation.Annotation) bool { return a.Type.Kind == k }
}

func isList(a *annotation.Annotation) bool {
	return a.Type.Kind.IsList()
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
