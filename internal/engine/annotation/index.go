package annotation

import "sort"

// Index is the set of annotations owned by one document.
type Index struct {
	next  ID
	items map[ID]*Annotation
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{items: make(map[ID]*Annotation)}
}

// Len returns the number of annotations.
func (x *Index) Len() int {
	return len(x.items)
}

// Add stores a copy of a under a fresh ID and returns the stored annotation.
func (x *Index) Add(a Annotation) *Annotation {
	x.next++
	a.ID = x.next
	p := &a
	x.items[a.ID] = p
	return p
}

// Get returns the annotation with the given ID.
func (x *Index) Get(id ID) (*Annotation, bool) {
	a, ok := x.items[id]
	return a, ok
}

// Remove deletes the annotation with the given ID and reports whether it
// existed.
func (x *Index) Remove(id ID) bool {
	if _, ok := x.items[id]; !ok {
		return false
	}
	delete(x.items, id)
	return true
}

// Resize sets the range of an annotation.
func (x *Index) Resize(id ID, start, end int) bool {
	a, ok := x.items[id]
	if !ok {
		return false
	}
	a.Start, a.End = start, end
	return true
}

// SetLevel sets the nesting level of an annotation.
func (x *Index) SetLevel(id ID, level int) bool {
	a, ok := x.items[id]
	if !ok {
		return false
	}
	a.Level = level
	return true
}

// All returns every annotation in document order.
func (x *Index) All() []*Annotation {
	return x.Filter(func(*Annotation) bool { return true })
}

// Filter returns the annotations accepted by keep, in document order.
func (x *Index) Filter(keep func(*Annotation) bool) []*Annotation {
	out := make([]*Annotation, 0, len(x.items))
	for _, a := range x.items {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// Overlapping returns the annotations sharing a position with [start, end).
// A zero-width query matches the annotations containing start.
func (x *Index) Overlapping(start, end int) []*Annotation {
	if start == end {
		return x.Containing(start, start+1)
	}
	return x.Filter(func(a *Annotation) bool { return a.Overlaps(start, end) })
}

// Containing returns the annotations whose range contains [start, end),
// outermost first.
func (x *Index) Containing(start, end int) []*Annotation {
	return x.Filter(func(a *Annotation) bool { return a.Covers(start, end) })
}

// Within returns the annotations lying entirely inside [start, end).
func (x *Index) Within(start, end int) []*Annotation {
	return x.Filter(func(a *Annotation) bool { return start <= a.Start && a.End <= end })
}

// StartingAt returns the annotations whose range starts at pos.
func (x *Index) StartingAt(pos int) []*Annotation {
	return x.Filter(func(a *Annotation) bool { return a.Start == pos })
}

// EndingAt returns the annotations whose range ends at pos.
func (x *Index) EndingAt(pos int) []*Annotation {
	return x.Filter(func(a *Annotation) bool { return a.End == pos })
}

// ShiftInsert adjusts ranges for n runes inserted at pos. A range starting at
// pos grows; a range ending at pos does not.
func (x *Index) ShiftInsert(pos, n int) {
	for _, a := range x.items {
		if a.Start > pos {
			a.Start += n
		}
		if a.End > pos {
			a.End += n
		}
	}
}

// ShiftDelete adjusts ranges for the removal of [start, end). Positions inside
// the removed span collapse onto start.
func (x *Index) ShiftDelete(start, end int) {
	n := end - start
	move := func(p int) int {
		switch {
		case p >= end:
			return p - n
		case p > start:
			return start
		}
		return p
	}
	for _, a := range x.items {
		a.Start = move(a.Start)
		a.End = move(a.End)
	}
}

// Snapshot returns deep copies of all annotations in document order.
func (x *Index) Snapshot() []Annotation {
	all := x.All()
	out := make([]Annotation, len(all))
	for i, a := range all {
		out[i] = a.Clone()
	}
	return out
}

// Restore replaces the contents of the index with anns, keeping their IDs.
func (x *Index) Restore(anns []Annotation) {
	x.items = make(map[ID]*Annotation, len(anns))
	for _, a := range anns {
		c := a.Clone()
		x.items[c.ID] = &c
		if c.ID > x.next {
			x.next = c.ID
		}
	}
}

// Clone returns a deep copy of the index.
func (x *Index) Clone() *Index {
	c := NewIndex()
	c.Restore(x.Snapshot())
	c.next = x.next
	return c
}
