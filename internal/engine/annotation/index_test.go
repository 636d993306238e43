package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blocknest/internal/engine/block"
)

func newTestIndex() (*Index, []*Annotation) {
	x := NewIndex()
	list := x.Add(Annotation{Type: block.UnorderedList(), Start: 0, End: 12, Level: 1})
	first := x.Add(Annotation{Type: block.ListItem(), Start: 0, End: 6, Level: 2})
	second := x.Add(Annotation{Type: block.ListItem(), Start: 6, End: 12, Level: 2})
	quote := x.Add(Annotation{Type: block.Quote(), Start: 12, End: 20, Level: 1})
	return x, []*Annotation{list, first, second, quote}
}

func ids(anns []*Annotation) []ID {
	out := make([]ID, len(anns))
	for i, a := range anns {
		out[i] = a.ID
	}
	return out
}

func TestIndexAddAssignsIDs(t *testing.T) {
	x, anns := newTestIndex()
	assert.Equal(t, 4, x.Len())
	assert.Equal(t, []ID{1, 2, 3, 4}, ids(anns))

	got, ok := x.Get(3)
	require.True(t, ok)
	assert.Same(t, anns[2], got)
}

func TestIndexDocumentOrder(t *testing.T) {
	x := NewIndex()
	item := x.Add(Annotation{Type: block.ListItem(), Start: 0, End: 5, Level: 2})
	list := x.Add(Annotation{Type: block.OrderedList(), Start: 0, End: 5, Level: 1})
	later := x.Add(Annotation{Type: block.Paragraph(), Start: 5, End: 9, Level: 1})

	assert.Equal(t, []ID{list.ID, item.ID, later.ID}, ids(x.All()))
}

func TestIndexQueries(t *testing.T) {
	x, anns := newTestIndex()
	list, first, second, quote := anns[0], anns[1], anns[2], anns[3]

	assert.Equal(t, []ID{list.ID, second.ID, quote.ID}, ids(x.Overlapping(8, 14)))
	assert.Equal(t, []ID{list.ID, first.ID}, ids(x.Overlapping(3, 3)))
	assert.Equal(t, []ID{list.ID, second.ID}, ids(x.Containing(6, 12)))
	assert.Equal(t, []ID{first.ID, second.ID}, ids(x.Within(0, 12)[1:]))
	assert.Equal(t, []ID{second.ID}, ids(x.StartingAt(6)))
	assert.Equal(t, []ID{list.ID, second.ID}, ids(x.EndingAt(12)))
	assert.Equal(t, []ID{quote.ID}, ids(x.StartingAt(12)))
}

func TestIndexRemoveResizeSetLevel(t *testing.T) {
	x, anns := newTestIndex()

	assert.True(t, x.Remove(anns[3].ID))
	assert.False(t, x.Remove(anns[3].ID))
	assert.Equal(t, 3, x.Len())

	require.True(t, x.Resize(anns[1].ID, 0, 4))
	require.True(t, x.SetLevel(anns[1].ID, 4))
	assert.Equal(t, 4, anns[1].End)
	assert.Equal(t, 4, anns[1].Level)
	assert.False(t, x.Resize(99, 0, 1))
}

func TestIndexShiftInsert(t *testing.T) {
	x, anns := newTestIndex()
	x.ShiftInsert(6, 3)

	assert.Equal(t, [2]int{0, 15}, [2]int{anns[0].Start, anns[0].End})
	assert.Equal(t, [2]int{0, 6}, [2]int{anns[1].Start, anns[1].End}, "range ending at the insertion point does not grow")
	assert.Equal(t, [2]int{6, 15}, [2]int{anns[2].Start, anns[2].End}, "range starting at the insertion point grows")
	assert.Equal(t, [2]int{15, 23}, [2]int{anns[3].Start, anns[3].End})
}

func TestIndexShiftDelete(t *testing.T) {
	x, anns := newTestIndex()
	x.ShiftDelete(4, 8)

	assert.Equal(t, [2]int{0, 8}, [2]int{anns[0].Start, anns[0].End})
	assert.Equal(t, [2]int{0, 4}, [2]int{anns[1].Start, anns[1].End})
	assert.Equal(t, [2]int{4, 8}, [2]int{anns[2].Start, anns[2].End})
	assert.Equal(t, [2]int{8, 16}, [2]int{anns[3].Start, anns[3].End})
}

func TestIndexSnapshotRestore(t *testing.T) {
	x, anns := newTestIndex()
	anns[3].Attrs.Set("cite", "x")
	snap := x.Snapshot()

	anns[3].Attrs.Set("cite", "changed")
	x.Remove(anns[0].ID)
	x.Restore(snap)

	assert.Equal(t, 4, x.Len())
	q, ok := x.Get(anns[3].ID)
	require.True(t, ok)
	v, _ := q.Attrs.Get("cite")
	assert.Equal(t, "x", v)

	added := x.Add(Annotation{Type: block.Paragraph(), Start: 20, End: 21, Level: 1})
	assert.Equal(t, ID(5), added.ID, "restore keeps the ID sequence ahead of restored IDs")
}

func TestAnnotationSameShape(t *testing.T) {
	a := &Annotation{Type: block.Quote(), Level: 1, Attrs: block.NewAttributes("cite", "a")}
	b := &Annotation{Type: block.Quote(), Level: 1, Attrs: block.NewAttributes("cite", "a"), Start: 5}
	c := &Annotation{Type: block.Quote(), Level: 1, Align: block.AlignCenter}

	assert.True(t, a.SameShape(b))
	assert.False(t, a.SameShape(c))
}
