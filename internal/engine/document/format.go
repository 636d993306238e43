package document

import (
	"fmt"

	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/block"
	"github.com/dshills/blocknest/internal/engine/buffer"
)

// Apply formats the lines of [start, end) as typ.
//
// Line blocks are applied per line and convert an existing line block in
// place. A quote wraps the selected content below the deepest enclosing list
// item. A list either retypes the lists the selection already sits in or
// wraps the selection in a new list with one item per block.
func (d *Document) Apply(start, end int, typ block.Type, attrs block.Attributes) (Result, error) {
	if err := d.validateRange(start, end); err != nil {
		return Result{}, err
	}
	if err := typ.Validate(); err != nil {
		return Result{}, err
	}
	return d.mutate("apply", typeFields(start, end, typ), func() (Result, error) {
		changed, err := d.apply(start, end, typ, attrs)
		return Result{Changed: changed, Selection: buffer.NewRange(start, end)}, err
	})
}

// Remove removes typ from the lines of [start, end). A heading type with
// level 0 removes headings of any level.
func (d *Document) Remove(start, end int, typ block.Type) (Result, error) {
	if err := d.validateRange(start, end); err != nil {
		return Result{}, err
	}
	if !typ.Kind.IsValid() {
		return Result{}, fmt.Errorf("%w: %s", block.ErrUnknownType, typ)
	}
	return d.mutate("remove", typeFields(start, end, typ), func() (Result, error) {
		changed, err := d.remove(start, end, typ)
		return Result{Changed: changed, Selection: buffer.NewRange(start, end)}, err
	})
}

// Toggle removes typ when every selected line already carries it and applies
// it otherwise.
func (d *Document) Toggle(start, end int, typ block.Type, attrs block.Attributes) (Result, error) {
	if err := d.validateRange(start, end); err != nil {
		return Result{}, err
	}
	if err := typ.Validate(); err != nil {
		return Result{}, err
	}
	if d.IsFormatted(start, end, typ) {
		return d.Remove(start, end, typ)
	}
	return d.Apply(start, end, typ, attrs)
}

// IsFormatted reports whether every line of [start, end) carries typ.
func (d *Document) IsFormatted(start, end int, typ block.Type) bool {
	if d.validateRange(start, end) != nil {
		return false
	}
	ls, le := d.LineBounds(start, end)
	for _, line := range d.lines(ls, le) {
		if d.carrier(line.Start, typ) == nil {
			return false
		}
	}
	return true
}

// SetAlignment aligns the innermost block of each selected line. Plain lines
// receive a paragraph carrying the alignment.
func (d *Document) SetAlignment(start, end int, align block.Alignment) (Result, error) {
	if err := d.validateRange(start, end); err != nil {
		return Result{}, err
	}
	return d.mutate("align", rangeFields(start, end), func() (Result, error) {
		ls, le := d.LineBounds(start, end)
		changed := false
		for _, line := range d.lines(ls, le) {
			chain := d.chain(line.Start)
			if len(chain) == 0 {
				if align == block.AlignNone {
					continue
				}
				d.idx.Add(annotation.Annotation{
					Type: block.Paragraph(), Start: line.Start, End: line.End, Level: 1, Align: align,
				})
				changed = true
				continue
			}
			inner := chain[len(chain)-1]
			if inner.Type.Kind.IsAlignable() && inner.Align != align {
				inner.Align = align
				changed = true
			}
		}
		return Result{Changed: changed, Selection: buffer.NewRange(start, end)}, nil
	})
}

func (d *Document) apply(start, end int, typ block.Type, attrs block.Attributes) (bool, error) {
	ls, le := d.LineBounds(start, end)
	switch {
	case typ.Kind.IsLineBlock():
		return d.applyLineBlock(ls, le, typ, attrs), nil
	case typ.Kind == block.KindQuote:
		return d.applyQuote(ls, le, attrs)
	case typ.Kind.IsList():
		return d.applyList(ls, le, typ, attrs)
	}
	return false, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
}

func (d *Document) remove(start, end int, typ block.Type) (bool, error) {
	ls, le := d.LineBounds(start, end)
	switch {
	case typ.Kind.IsLineBlock():
		return d.removeLineBlock(ls, le, typ), nil
	case typ.Kind == block.KindQuote:
		return d.removeQuote(ls, le)
	case typ.Kind.IsList():
		return d.removeList(ls, le, typ)
	}
	return false, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
}

// carrier returns the annotation that makes the line at pos carry typ.
func (d *Document) carrier(pos int, typ block.Type) *annotation.Annotation {
	chain := d.chain(pos)
	switch {
	case typ.Kind.IsLineBlock():
		if n := len(chain); n > 0 && typ.Matches(chain[n-1].Type) {
			return chain[n-1]
		}
	case typ.Kind == block.KindQuote:
		return d.deepest(pos, pos+1, isKind(block.KindQuote))
	case typ.Kind.IsList():
		return d.listItemOf(pos, typ.Kind)
	}
	return nil
}

// Line blocks

func (d *Document) applyLineBlock(ls, le int, typ block.Type, attrs block.Attributes) bool {
	changed := false
	for _, line := range d.lines(ls, le) {
		chain := d.chain(line.Start)
		level := 1
		if n := len(chain); n > 0 {
			inner := chain[n-1]
			if inner.Type.Kind.IsLineBlock() {
				if inner.Type == typ && (attrs.Len() == 0 || inner.Attrs.Equal(attrs)) {
					continue
				}
				inner.Type = typ
				if attrs.Len() > 0 {
					inner.Attrs = attrs.Clone()
				}
				changed = true
				continue
			}
			level = inner.Level + 1
		}
		d.idx.Add(annotation.Annotation{
			Type: typ, Start: line.Start, End: line.End, Level: level, Attrs: attrs.Clone(),
		})
		changed = true
	}
	return changed
}

func (d *Document) removeLineBlock(ls, le int, typ block.Type) bool {
	changed := false
	for _, line := range d.lines(ls, le) {
		if a := d.carrier(line.Start, typ); a != nil {
			d.idx.Remove(a.ID)
			changed = true
		}
	}
	return changed
}

// Quotes

func (d *Document) applyQuote(ls, le int, attrs block.Attributes) (bool, error) {
	p := d.deepest(ls, le, isKind(block.KindListItem))
	for _, c := range d.children(p) {
		if c.Type.Kind == block.KindQuote && c.Covers(ls, le) {
			return false, nil
		}
	}

	ls, le = d.expand(p, ls, le)
	level := 1
	if p != nil {
		level = p.Level + 1
	}
	if err := d.pushDeeper(ls, le, level, 1); err != nil {
		return false, err
	}
	d.idx.Add(annotation.Annotation{
		Type: block.Quote(), Start: ls, End: le, Level: level, Attrs: attrs.Clone(),
	})
	return true, nil
}

func (d *Document) removeQuote(ls, le int) (bool, error) {
	p := d.deepest(ls, le, isKind(block.KindListItem))

	var targets []*annotation.Annotation
	for _, c := range d.children(p) {
		if c.Type.Kind == block.KindQuote && c.Overlaps(ls, le) {
			targets = append(targets, c)
		}
	}
	if len(targets) == 0 {
		q := d.deepest(ls, le, isKind(block.KindQuote))
		if q == nil {
			return false, nil
		}
		targets = append(targets, q)
	}

	for _, q := range targets {
		bs, be := d.expand(q, max(ls, q.Start), min(le, q.End))
		level := q.Level
		d.excise(q, bs, be)
		if err := d.pullUp(bs, be, level, 1); err != nil {
			return false, err
		}
	}
	return true, nil
}
