package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blocknest/internal/engine/block"
)

func threeItems(t *testing.T) *Document {
	t.Helper()
	return newTestDoc(t, "a\nb\nc",
		ann(block.UnorderedList(), 1, 0, 6),
		ann(block.ListItem(), 2, 0, 2),
		ann(block.ListItem(), 2, 2, 4),
		ann(block.ListItem(), 2, 4, 6),
	)
}

func TestApplyListOnPlainLines(t *testing.T) {
	d := newTestDoc(t, "first item\nsecond item")

	res, err := d.Apply(0, d.Len(), block.UnorderedList(), none)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{
		"unordered-list@1[0,23)",
		"list-item@2[0,11)",
		"list-item@2[11,23)",
	}, shape(d))
}

func TestToggleListOnEmptyDocument(t *testing.T) {
	d := NewEmpty(WithStrictInvariants(true))

	_, err := d.Toggle(0, 0, block.OrderedList(), none)
	require.NoError(t, err)
	assert.Equal(t, []string{"ordered-list@1[0,1)", "list-item@2[0,1)"}, shape(d))
	assert.True(t, d.IsFormatted(0, 0, block.OrderedList()))
	assert.False(t, d.IsFormatted(0, 0, block.UnorderedList()))
}

func TestToggleListTwiceRestores(t *testing.T) {
	tests := []struct {
		name string
		doc  func(t *testing.T) *Document
	}{
		{"plain lines", func(t *testing.T) *Document {
			return newTestDoc(t, "a\nb")
		}},
		{"paragraph keeps its level", func(t *testing.T) *Document {
			return newTestDoc(t, "a\nb", ann(block.Paragraph(), 1, 0, 2))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.doc(t)
			before := shape(d)

			_, err := d.Toggle(0, 3, block.UnorderedList(), none)
			require.NoError(t, err)
			assert.NotEqual(t, before, shape(d))

			_, err = d.Toggle(0, 3, block.UnorderedList(), none)
			require.NoError(t, err)
			assert.Equal(t, before, shape(d))
		})
	}
}

func TestApplyListWrapsBlocksAsItems(t *testing.T) {
	d := newTestDoc(t, "a\nb", ann(block.Paragraph(), 1, 0, 2))

	_, err := d.Apply(0, 3, block.UnorderedList(), none)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"unordered-list@1[0,4)",
		"list-item@2[0,2)",
		"paragraph@3[0,2)",
		"list-item@2[2,4)",
	}, shape(d))
}

func TestApplyListRetypesSelectedItems(t *testing.T) {
	d := threeItems(t)

	res, err := d.Apply(2, 2, block.OrderedList(), none)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{
		"unordered-list@1[0,2)",
		"list-item@2[0,2)",
		"ordered-list@1[2,4)",
		"list-item@2[2,4)",
		"unordered-list@1[4,6)",
		"list-item@2[4,6)",
	}, shape(d))
}

func TestApplyListSameKindIsNoOp(t *testing.T) {
	d := threeItems(t)

	res, err := d.Apply(0, 5, block.UnorderedList(), none)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Len(t, shape(d), 4)
}

func TestApplyListWithAttributes(t *testing.T) {
	d := newTestDoc(t, "a")
	attrs := block.NewAttributes("start", "3")

	_, err := d.Apply(0, 0, block.OrderedList(), attrs)
	require.NoError(t, err)

	anns := d.Annotations()
	require.Len(t, anns, 2)
	v, ok := anns[0].Attrs.Get("start")
	require.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestRemoveListMiddleItemSplitsList(t *testing.T) {
	d := threeItems(t)

	res, err := d.Remove(2, 2, block.UnorderedList())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{
		"unordered-list@1[0,2)",
		"list-item@2[0,2)",
		"unordered-list@1[4,6)",
		"list-item@2[4,6)",
	}, shape(d))
}

func TestRemoveListOtherKindIsNoOp(t *testing.T) {
	d := threeItems(t)

	res, err := d.Remove(0, 5, block.OrderedList())
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Len(t, shape(d), 4)
}

func TestRemoveListInsideQuote(t *testing.T) {
	d := newTestDoc(t, "a\nb",
		ann(block.Quote(), 1, 0, 4),
		ann(block.OrderedList(), 2, 0, 4),
		ann(block.ListItem(), 3, 0, 2),
		ann(block.ListItem(), 3, 2, 4),
	)

	_, err := d.Remove(0, 3, block.OrderedList())
	require.NoError(t, err)
	assert.Equal(t, []string{"quote@1[0,4)"}, shape(d))
}

func TestToggleListOverOtherListKind(t *testing.T) {
	d := newTestDoc(t, "a\nb",
		ann(block.UnorderedList(), 1, 0, 4),
		ann(block.ListItem(), 2, 0, 2),
		ann(block.ListItem(), 2, 2, 4),
	)

	_, err := d.Toggle(0, 3, block.OrderedList(), none)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ordered-list@1[0,4)",
		"list-item@2[0,2)",
		"list-item@2[2,4)",
	}, shape(d))

	// Toggling again removes the list instead of restoring the bullets.
	_, err = d.Toggle(0, 3, block.OrderedList(), none)
	require.NoError(t, err)
	assert.Equal(t, []string{}, shape(d))
	assert.Equal(t, "a\nb", d.Text())
}
