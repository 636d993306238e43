package document

import (
	"sort"

	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/block"
)

// listItemOf returns the deepest item covering the line at pos whose list is
// of kind k. KindListItem accepts any list kind.
func (d *Document) listItemOf(pos int, k block.Kind) *annotation.Annotation {
	chain := d.chain(pos)
	for i := len(chain) - 1; i > 0; i-- {
		item, list := chain[i], chain[i-1]
		if item.Type.Kind != block.KindListItem || !list.Type.Kind.IsList() {
			continue
		}
		if k == block.KindListItem || list.Type.Kind == k {
			return item
		}
	}
	return nil
}

func (d *Document) applyList(ls, le int, typ block.Type, attrs block.Attributes) (bool, error) {
	lines := d.lines(ls, le)
	for _, line := range lines {
		if d.innermostItem(line.Start) == nil {
			return d.wrapList(ls, le, typ, attrs)
		}
	}
	return d.retypeLists(ls, le, typ, attrs), nil
}

// retypeLists changes the kind of the innermost lists of the selected lines.
// A list extending beyond the selected items is split around them.
func (d *Document) retypeLists(ls, le int, typ block.Type, attrs block.Attributes) bool {
	type run struct {
		list        *annotation.Annotation
		first, last *annotation.Annotation
	}
	var order []annotation.ID
	runs := make(map[annotation.ID]*run)

	for _, line := range d.lines(ls, le) {
		item := d.innermostItem(line.Start)
		list := d.parent(item)
		r, ok := runs[list.ID]
		if !ok {
			r = &run{list: list, first: item, last: item}
			runs[list.ID] = r
			order = append(order, list.ID)
		}
		if item.Start < r.first.Start {
			r.first = item
		}
		if item.End > r.last.End {
			r.last = item
		}
	}

	changed := false
	for _, id := range order {
		r := runs[id]
		c := r.list
		if c.Type == typ && (attrs.Len() == 0 || c.Attrs.Equal(attrs)) {
			continue
		}
		rs, re := r.first.Start, r.last.End
		if c.Start < rs {
			head := c.Clone()
			head.End = rs
			d.idx.Add(head)
		}
		if re < c.End {
			tail := c.Clone()
			tail.Start = re
			d.idx.Add(tail)
		}
		c.Start, c.End = rs, re
		c.Type = typ
		c.Attrs = attrs.Clone()
		changed = true
	}
	return changed
}

// wrapList creates a new list over the selection. Every direct child of the
// enclosing container becomes one item, except child lists, whose items join
// the new list directly.
func (d *Document) wrapList(ls, le int, typ block.Type, attrs block.Attributes) (bool, error) {
	p := d.deepest(ls, le, func(a *annotation.Annotation) bool {
		return a.Type.Kind == block.KindQuote || a.Type.Kind == block.KindListItem
	})
	ls, le = d.expand(p, ls, le)
	level := 1
	if p != nil {
		level = p.Level + 1
	}

	var kids []*annotation.Annotation
	for _, c := range d.children(p) {
		if c.Overlaps(ls, le) {
			kids = append(kids, c)
		}
	}

	type span struct{ start, end int }
	var items []span
	for pos, k := ls, 0; pos < le; {
		if k < len(kids) && kids[k].Start == pos {
			c := kids[k]
			k++
			pos = c.End
			if c.Type.Kind.IsList() {
				d.idx.Remove(c.ID)
				continue
			}
			if err := d.pushDeeper(c.Start, c.End, level, 2); err != nil {
				return false, err
			}
			items = append(items, span{c.Start, c.End})
			continue
		}
		end := d.buf.LineEnd(pos)
		items = append(items, span{pos, end})
		pos = end
	}

	for _, it := range items {
		d.idx.Add(annotation.Annotation{
			Type: block.ListItem(), Start: it.start, End: it.end, Level: level + 1,
		})
	}
	d.idx.Add(annotation.Annotation{
		Type: typ, Start: ls, End: le, Level: level, Attrs: attrs.Clone(),
	})
	return true, nil
}

// removeList removes the list membership of every selected line. Items are
// removed deepest first; their content moves up to the level of the list
// they left.
func (d *Document) removeList(ls, le int, typ block.Type) (bool, error) {
	seen := make(map[annotation.ID]bool)
	var targets []*annotation.Annotation
	for _, line := range d.lines(ls, le) {
		item := d.listItemOf(line.Start, typ.Kind)
		if item == nil || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		targets = append(targets, item)
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].Level != targets[j].Level {
			return targets[i].Level > targets[j].Level
		}
		return targets[i].Start > targets[j].Start
	})

	for _, item := range targets {
		if err := d.removeItem(item); err != nil {
			return false, err
		}
	}
	return len(targets) > 0, nil
}

// removeItem deletes item, cuts it out of its list and pulls its content up
// to the list's level.
func (d *Document) removeItem(item *annotation.Annotation) error {
	list := d.parent(item)
	start, end := item.Start, item.End
	d.idx.Remove(item.ID)
	if list == nil {
		return d.pullUp(start, end, item.Level-1, 1)
	}
	level := list.Level
	d.excise(list, start, end)
	return d.pullUp(start, end, level, 2)
}
