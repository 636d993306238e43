package document

import (
	"fmt"

	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/block"
)

// pushDeeper raises by n the level of every annotation inside [start, end)
// whose level is at least fromLevel. It is used before a new container is
// installed around the range.
func (d *Document) pushDeeper(start, end, fromLevel, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: push deeper by %d", ErrInvariant, n)
	}
	for _, a := range d.idx.Within(start, end) {
		if a.Level >= fromLevel {
			a.Level += n
		}
	}
	return nil
}

// pullUp lowers by n the level of every annotation inside [start, end) whose
// level is above fromLevel. It is used after an ancestor has been removed
// from the range. Either every affected annotation moves or none does.
func (d *Document) pullUp(start, end, fromLevel, n int) error {
	affected := d.idx.Filter(func(a *annotation.Annotation) bool {
		return start <= a.Start && a.End <= end && a.Level > fromLevel
	})
	for _, a := range affected {
		if a.Level-n < 1 {
			return fmt.Errorf("%w: pull up %s by %d", ErrInvariant, a, n)
		}
	}
	for _, a := range affected {
		a.Level -= n
	}
	return nil
}

// excise removes [start, end) from a's range. A span in the middle splits a
// into two annotations of the same shape; a covered annotation is deleted.
func (d *Document) excise(a *annotation.Annotation, start, end int) {
	switch {
	case start <= a.Start && a.End <= end:
		d.idx.Remove(a.ID)
	case start <= a.Start:
		a.Start = end
	case a.End <= end:
		a.End = start
	default:
		tail := a.Clone()
		tail.Start = end
		a.End = start
		d.idx.Add(tail)
	}
}

// splitAt cuts a at pos and returns the new annotation covering the part
// after pos.
func (d *Document) splitAt(a *annotation.Annotation, pos int) *annotation.Annotation {
	tail := a.Clone()
	tail.Start = pos
	a.End = pos
	return d.idx.Add(tail)
}

// splitLineBlocks cuts every line block spanning several lines into one
// annotation per line.
func (d *Document) splitLineBlocks() {
	for _, a := range d.idx.All() {
		if !a.Type.Kind.IsLineBlock() {
			continue
		}
		for cur := a; ; {
			end := d.buf.LineEnd(cur.Start)
			if end >= cur.End {
				break
			}
			cur = d.splitAt(cur, end)
		}
	}
}

// normalize merges adjacent identical wrappers and drops list containers
// that hold no items.
func (d *Document) normalize() {
	for d.mergeSiblings() {
	}
	if d.dropEmptyLists() {
		for d.mergeSiblings() {
		}
	}
}

// mergeSiblings merges one pair of adjacent identical wrapper siblings and
// reports whether it found one.
func (d *Document) mergeSiblings() bool {
	for _, a := range d.idx.All() {
		if !a.Type.Kind.IsWrapper() {
			continue
		}
		for _, b := range d.idx.StartingAt(a.End) {
			if b.ID == a.ID || !a.SameShape(b) || !d.sameParent(a, b) {
				continue
			}
			a.End = b.End
			d.idx.Remove(b.ID)
			return true
		}
	}
	return false
}

func (d *Document) dropEmptyLists() bool {
	dropped := false
	for _, l := range d.idx.Filter(isList) {
		hasItem := false
		for _, c := range d.children(l) {
			if c.Type.Kind == block.KindListItem {
				hasItem = true
				break
			}
		}
		if hasItem {
			continue
		}
		d.idx.Remove(l.ID)
		_ = d.pullUp(l.Start, l.End, l.Level, 1)
		dropped = true
	}
	return dropped
}

func (d *Document) sameParent(a, b *annotation.Annotation) bool {
	pa, pb := d.parent(a), d.parent(b)
	if pa == nil || pb == nil {
		return pa == nil && pb == nil
	}
	return pa.ID == pb.ID
}
