package document

import (
	"fmt"

	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/block"
)

// Check verifies the block invariants and returns an error wrapping
// ErrInvariant describing the first violation found:
//
//   - every annotation is non-empty and aligned to line boundaries, and only
//     annotations ending at Len()+1 cover the end-of-text sentinel
//   - overlapping annotations nest, and each annotation sits exactly one
//     level below its parent (top-level annotations at level 1)
//   - list items sit directly in lists, lists hold only items and are fully
//     covered by them
//   - line blocks span exactly one line and contain nothing
//   - no two adjacent sibling wrappers share type, level, attributes and
//     alignment
func (d *Document) Check() error {
	ext := d.buf.Len() + 1
	all := d.idx.All()

	for _, a := range all {
		if err := a.Type.Validate(); err != nil {
			return violation(a, "%v", err)
		}
		if a.Start < 0 || a.End > ext || a.IsEmpty() {
			return violation(a, "range outside [0, %d) or empty", ext)
		}
		if !d.buf.IsLineStart(a.Start) || !d.aligned(a.End) {
			return violation(a, "not aligned to line boundaries")
		}
		if a.Type.Kind.IsLineBlock() && d.buf.LineEnd(a.Start) != a.End {
			return violation(a, "line block spans several lines")
		}
		if a.Align != block.AlignNone && !a.Type.Kind.IsAlignable() {
			return violation(a, "alignment on non-alignable block")
		}
	}

	type frame struct {
		a       *annotation.Annotation
		covered int
		lastKid *annotation.Annotation
	}
	var stack []*frame
	var rootLast *annotation.Annotation

	closeFrame := func(f *frame) error {
		if f.a.Type.Kind.IsList() && f.covered != f.a.Len() {
			return violation(f.a, "list not fully covered by items")
		}
		return nil
	}

	for _, a := range all {
		for len(stack) > 0 && stack[len(stack)-1].a.End <= a.Start {
			if err := closeFrame(stack[len(stack)-1]); err != nil {
				return err
			}
			stack = stack[:len(stack)-1]
		}

		var parent *frame
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}

		var prev *annotation.Annotation
		if parent == nil {
			if a.Level != 1 {
				return violation(a, "top-level block at level %d", a.Level)
			}
			prev, rootLast = rootLast, a
		} else {
			p := parent.a
			if a.End > p.End {
				return violation(a, "crosses %s", p)
			}
			if a.Level != p.Level+1 {
				return violation(a, "level %d inside %s", a.Level, p)
			}
			if p.Type.Kind.IsLineBlock() {
				return violation(a, "nested in line block %s", p)
			}
			if p.Type.Kind.IsList() {
				if a.Type.Kind != block.KindListItem {
					return violation(a, "non-item inside list %s", p)
				}
				parent.covered += a.Len()
			}
			prev, parent.lastKid = parent.lastKid, a
		}

		if a.Type.Kind == block.KindListItem && (parent == nil || !parent.a.Type.Kind.IsList()) {
			return violation(a, "list item outside a list")
		}
		if prev != nil && prev.End == a.Start && a.Type.Kind.IsWrapper() && prev.SameShape(a) {
			return violation(a, "adjacent to identical sibling %s", prev)
		}

		stack = append(stack, &frame{a: a})
	}

	for i := len(stack) - 1; i >= 0; i-- {
		if err := closeFrame(stack[i]); err != nil {
			return err
		}
	}
	return nil
}

func violation(a *annotation.Annotation, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvariant, a, fmt.Sprintf(format, args...))
}
