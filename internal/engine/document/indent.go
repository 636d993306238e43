package document

import (
	"sort"

	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/block"
	"github.com/dshills/blocknest/internal/engine/buffer"
)

// listState describes the items an indent or outdent would move.
type listState struct {
	list     *annotation.Annotation   // container directly owning the run
	siblings []*annotation.Annotation // all items of list
	run      []*annotation.Annotation // contiguous moved items
	index    int                      // position of run[0] in siblings
	selected []*annotation.Annotation // innermost item of every selected line
}

func (s *listState) before() *annotation.Annotation {
	if s.index == 0 {
		return nil
	}
	return s.siblings[s.index-1]
}

func (s *listState) hasAfter() bool {
	return s.index+len(s.run) < len(s.siblings)
}

func (s *listState) bounds() (int, int) {
	return s.run[0].Start, s.run[len(s.run)-1].End
}

// selectedWithin reports whether any selected item lies inside a.
func (s *listState) selectedWithin(a *annotation.Annotation) bool {
	for _, it := range s.selected {
		if a.Contains(it) && it.Level > a.Level {
			return true
		}
	}
	return false
}

// listState computes the run for the lines of [start, end). The run is the
// set of topmost selected items; it must be a contiguous sibling run.
func (d *Document) listState(start, end int) (*listState, bool) {
	ls, le := d.LineBounds(start, end)
	seen := make(map[annotation.ID]bool)
	var selected []*annotation.Annotation
	for _, line := range d.lines(ls, le) {
		item := d.innermostItem(line.Start)
		if item == nil {
			return nil, false
		}
		if !seen[item.ID] {
			seen[item.ID] = true
			selected = append(selected, item)
		}
	}

	var run []*annotation.Annotation
	for _, it := range selected {
		top := true
		for _, other := range selected {
			if other.ID != it.ID && other.Level < it.Level && other.Contains(it) {
				top = false
				break
			}
		}
		if top {
			run = append(run, it)
		}
	}
	sort.Slice(run, func(i, j int) bool { return run[i].Start < run[j].Start })

	list := d.parent(run[0])
	if list == nil || !list.Type.Kind.IsList() {
		return nil, false
	}
	siblings := d.children(list)
	index := -1
	for i, s := range siblings {
		if s.ID == run[0].ID {
			index = i
			break
		}
	}
	if index < 0 || index+len(run) > len(siblings) {
		return nil, false
	}
	for i, it := range run {
		if siblings[index+i].ID != it.ID {
			return nil, false
		}
	}

	return &listState{
		list:     list,
		siblings: siblings,
		run:      run,
		index:    index,
		selected: selected,
	}, true
}

// CanIndent reports whether Indent would change the document.
func (d *Document) CanIndent(start, end int) bool {
	if d.validateRange(start, end) != nil {
		return false
	}
	s, ok := d.listState(start, end)
	return ok && s.before() != nil
}

// CanOutdent reports whether Outdent would change the document.
func (d *Document) CanOutdent(start, end int) bool {
	if d.validateRange(start, end) != nil {
		return false
	}
	_, ok := d.listState(start, end)
	return ok
}

// Indent moves the selected items one list depth deeper, into a list nested
// in the preceding item. Nested lists of the moved items that hold no
// selected item keep their depth.
func (d *Document) Indent(start, end int) (Result, error) {
	if err := d.validateRange(start, end); err != nil {
		return Result{}, err
	}
	return d.mutate("indent", rangeFields(start, end), func() (Result, error) {
		res := Result{Selection: buffer.NewRange(start, end)}
		s, ok := d.listState(start, end)
		if !ok || s.before() == nil {
			return res, nil
		}
		res.Changed = true
		return res, d.indent(s)
	})
}

// Outdent moves the selected items one list depth up. Items of a top-level
// list leave the list entirely.
func (d *Document) Outdent(start, end int) (Result, error) {
	if err := d.validateRange(start, end); err != nil {
		return Result{}, err
	}
	return d.mutate("outdent", rangeFields(start, end), func() (Result, error) {
		res := Result{Selection: buffer.NewRange(start, end)}
		s, ok := d.listState(start, end)
		if !ok {
			return res, nil
		}
		res.Changed = true
		return res, d.outdent(s)
	})
}

// trailingList returns the child list of item that ends where item ends.
func (d *Document) trailingList(item *annotation.Annotation) *annotation.Annotation {
	var found *annotation.Annotation
	for _, c := range d.children(item) {
		if c.Type.Kind.IsList() && c.End == item.End {
			found = c
		}
	}
	return found
}

func (d *Document) indent(s *listState) error {
	prev := s.before()
	rs, re := s.bounds()
	target := d.trailingList(prev)

	// A nested list holding no selected item keeps its depth and its own
	// type and attributes; it ends up next to the receiving list and merges
	// with it only when both have the same shape.
	var kept []*annotation.Annotation
	for _, x := range s.run {
		nested := d.trailingList(x)
		if nested != nil && !s.selectedWithin(nested) {
			if err := d.pushDeeper(x.Start, nested.Start, x.Level+1, 2); err != nil {
				return err
			}
			x.End = nested.Start
			kept = append(kept, nested)
		} else if err := d.pushDeeper(x.Start, x.End, x.Level+1, 2); err != nil {
			return err
		}
		x.Level += 2
	}

	tmpl := annotation.Annotation{
		Type:  s.list.Type,
		Level: s.list.Level + 2,
		Attrs: s.list.Attrs.Clone(),
	}
	if target != nil {
		tmpl = target.Clone()
	}
	receive := func(start, end int) {
		if start >= end {
			return
		}
		if target != nil && target.End == start {
			target.End = end
			return
		}
		l := tmpl.Clone()
		l.Start, l.End = start, end
		d.idx.Add(l)
	}

	pos := rs
	for _, k := range kept {
		receive(pos, k.Start)
		pos = k.End
	}
	receive(pos, re)
	prev.End = re
	return nil
}

func (d *Document) outdent(s *listState) error {
	list := s.list
	owner := d.parent(list)
	if owner == nil || owner.Type.Kind != block.KindListItem {
		for i := len(s.run) - 1; i >= 0; i-- {
			if err := d.removeItem(s.run[i]); err != nil {
				return err
			}
		}
		return nil
	}

	rs, re := s.bounds()
	last := s.run[len(s.run)-1]
	listEnd, ownerEnd := list.End, owner.End
	hasBefore, hasAfter := s.before() != nil, s.hasAfter()
	nested := d.trailingList(last)

	for _, x := range s.run {
		if err := d.pullUp(x.Start, x.End, x.Level, 2); err != nil {
			return err
		}
		x.Level -= 2
	}

	// Items after the run become a list nested in the last moved item.
	switch {
	case !hasAfter:
	case nested != nil:
		nested.End = listEnd
	case !hasBefore:
		list.Start = re
	default:
		tail := list.Clone()
		tail.Start = re
		d.idx.Add(tail)
	}

	switch {
	case hasBefore:
		list.End = rs
	case !hasAfter || nested != nil:
		d.idx.Remove(list.ID)
	}

	last.End = ownerEnd
	owner.End = rs
	if owner.Start >= owner.End {
		d.idx.Remove(owner.ID)
	}
	return nil
}
