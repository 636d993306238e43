package document

import (
	"go.uber.org/zap"

	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/block"
	"github.com/dshills/blocknest/internal/engine/buffer"
)

// Insert inserts text at pos and reconciles the block structure.
//
// A newline splits the list item and line block it lands in. Typing a
// newline on an empty last line inside a block closes that block instead of
// inserting anything.
func (d *Document) Insert(pos int, text string) (Result, error) {
	if err := d.validateRange(pos, pos); err != nil {
		return Result{}, err
	}
	fields := append(rangeFields(pos, pos), zap.Int("inserted", len([]rune(text))))
	return d.mutate("insert", fields, func() (Result, error) {
		if text == "\n" && d.closeTrailingBlock(pos) {
			return Result{Changed: true, Selection: buffer.NewRange(pos, pos)}, nil
		}
		return d.replace(pos, pos, text)
	})
}

// Delete removes [start, end) and reconciles the block structure. Lines
// joined by the deletion keep the blocks of the first line.
func (d *Document) Delete(start, end int) (Result, error) {
	if err := d.validateRange(start, end); err != nil {
		return Result{}, err
	}
	return d.mutate("delete", rangeFields(start, end), func() (Result, error) {
		return d.replace(start, end, "")
	})
}

// Replace replaces [start, end) with text and reconciles the block
// structure.
func (d *Document) Replace(start, end int, text string) (Result, error) {
	if start == end {
		return d.Insert(start, text)
	}
	if err := d.validateRange(start, end); err != nil {
		return Result{}, err
	}
	return d.mutate("replace", rangeFields(start, end), func() (Result, error) {
		return d.replace(start, end, text)
	})
}

func (d *Document) replace(start, end int, text string) (Result, error) {
	joins := d.itemJoins(start, end)
	edit, err := d.buf.Apply(start, end, text)
	if err != nil {
		return Result{}, err
	}
	if end > start {
		d.idx.ShiftDelete(start, end)
		d.joinItems(joins)
	}
	if n := edit.NewLen(); n > 0 {
		d.idx.ShiftInsert(start, n)
		q := start
		for _, r := range edit.NewText {
			if r == buffer.Newline {
				d.splitLine(q + 1)
			}
			q++
		}
	}
	d.realign()

	caret := edit.NewRange().End
	return Result{Changed: !edit.IsNoOp(), Selection: buffer.NewRange(caret, caret)}, nil
}

// itemJoin is a list item whose terminating newline is being deleted and the
// sibling item that follows it.
type itemJoin struct {
	first, next annotation.ID
}

// itemJoins finds the list items that survive the deletion of [start, end)
// but lose the newline ending them. The line after that newline joins the
// item, so the following sibling item merges into it.
func (d *Document) itemJoins(start, end int) []itemJoin {
	var joins []itemJoin
	for _, a := range d.idx.Filter(isKind(block.KindListItem)) {
		if a.Start >= start || a.End <= start || a.End > end || a.End > d.buf.Len() {
			continue
		}
		for _, b := range d.idx.StartingAt(a.End) {
			if b.Type.Kind == block.KindListItem && b.Level == a.Level && d.sameParent(a, b) {
				joins = append(joins, itemJoin{first: a.ID, next: b.ID})
				break
			}
		}
	}
	return joins
}

// joinItems merges each recorded sibling into the item before it. Children
// of the same shape meet at the old boundary and merge when the structure is
// normalized.
func (d *Document) joinItems(joins []itemJoin) {
	for _, j := range joins {
		a, ok := d.idx.Get(j.first)
		if !ok {
			continue
		}
		b, ok := d.idx.Get(j.next)
		if !ok || b.Start != a.End {
			continue
		}
		a.End = b.End
		d.idx.Remove(b.ID)
	}
}

// splitLine splits the line containers spanning x, the position right after
// an inserted newline. Below the deepest list item everything splits; outside
// any item only the line block does.
func (d *Document) splitLine(x int) {
	chain := d.idx.Filter(func(a *annotation.Annotation) bool {
		return a.Start < x && x < a.End
	})
	if len(chain) == 0 {
		return
	}

	var targets []*annotation.Annotation
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].Type.Kind == block.KindListItem {
			targets = chain[i:]
			break
		}
	}
	if targets == nil {
		if inner := chain[len(chain)-1]; inner.Type.Kind.IsLineBlock() {
			targets = chain[len(chain)-1:]
		}
	}

	for _, a := range targets {
		if a.Type.Kind == block.KindHeading {
			// A heading never extends onto an empty line created at its
			// content start or end.
			if a.Start == x-1 {
				a.Start = x
				continue
			}
			if a.End-1 == x {
				a.End = x
				continue
			}
		}
		d.splitAt(a, x)
	}
}

// realign snaps every annotation back onto line boundaries after an edit.
// A misaligned start moves to the next line start and a misaligned end
// extends to the end of its line; collapsed annotations are removed.
func (d *Document) realign() {
	// An item whose first line was joined onto its previous sibling merges
	// into that sibling.
	for _, a := range d.idx.All() {
		if a.Type.Kind != block.KindListItem || d.aligned(a.Start) {
			continue
		}
		for _, b := range d.idx.EndingAt(a.Start) {
			if b.ID != a.ID && b.Type.Kind == block.KindListItem &&
				b.Level == a.Level && d.sameParent(a, b) {
				b.End = a.End
				d.idx.Remove(a.ID)
				break
			}
		}
	}

	for _, a := range d.idx.All() {
		a.Start = d.nextBoundary(a.Start)
		a.End = d.nextBoundary(a.End)
		if a.IsEmpty() {
			d.idx.Remove(a.ID)
		}
	}
}

// closeTrailingBlock handles a newline typed at the end of the document on
// an empty last line that belongs to a block with other lines. The last line
// leaves every block instead and nothing is inserted.
func (d *Document) closeTrailingBlock(pos int) bool {
	n := d.buf.Len()
	if pos != n || !d.buf.IsLineStart(n) {
		return false
	}
	chain := d.chain(n)
	if len(chain) == 0 || chain[0].Start == n {
		return false
	}
	for _, a := range chain {
		if a.Start == n {
			d.idx.Remove(a.ID)
		} else {
			a.End = n
		}
	}
	return true
}
