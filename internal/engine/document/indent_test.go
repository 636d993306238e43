package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blocknest/internal/engine/block"
)

func TestIndentOutdentSecondItem(t *testing.T) {
	d := newTestDoc(t, "Item 1\nItem 2",
		ann(block.OrderedList(), 1, 0, 14),
		ann(block.ListItem(), 2, 0, 7),
		ann(block.ListItem(), 2, 7, 14),
	)
	before := shape(d)

	require.True(t, d.CanIndent(7, 13))
	res, err := d.Indent(7, 13)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{
		"ordered-list@1[0,14)",
		"list-item@2[0,14)",
		"ordered-list@3[7,14)",
		"list-item@4[7,14)",
	}, shape(d))

	require.True(t, d.CanOutdent(7, 13))
	_, err = d.Outdent(7, 13)
	require.NoError(t, err)
	assert.Equal(t, before, shape(d))
}

func TestIndentFirstItemUnavailable(t *testing.T) {
	d := newTestDoc(t, "a\nb",
		ann(block.UnorderedList(), 1, 0, 4),
		ann(block.ListItem(), 2, 0, 2),
		ann(block.ListItem(), 2, 2, 4),
	)

	assert.False(t, d.CanIndent(0, 0))
	res, err := d.Indent(0, 0)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Len(t, shape(d), 3)
}

func TestOutdentTopLevelItemLeavesList(t *testing.T) {
	d := newTestDoc(t, "only",
		ann(block.UnorderedList(), 1, 0, 5),
		ann(block.ListItem(), 2, 0, 5),
	)

	assert.False(t, d.CanIndent(0, 4))
	res, err := d.Outdent(0, 4)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Empty(t, shape(d))
	assert.False(t, d.CanIndent(0, 4))
	assert.False(t, d.CanOutdent(0, 4))
}

func TestIndentPlainTextUnavailable(t *testing.T) {
	d := newTestDoc(t, "a\nb")
	assert.False(t, d.CanIndent(0, 3))
	assert.False(t, d.CanOutdent(0, 3))

	res, err := d.Outdent(0, 3)
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestIndentKeepsUnselectedNestedItems(t *testing.T) {
	// X, Y, and Z nested under Y. Indenting Y alone leaves Z at its depth as
	// Y's sibling.
	d := newTestDoc(t, "a\nb\nc",
		ann(block.UnorderedList(), 1, 0, 6),
		ann(block.ListItem(), 2, 0, 2),
		ann(block.ListItem(), 2, 2, 6),
		ann(block.UnorderedList(), 3, 4, 6),
		ann(block.ListItem(), 4, 4, 6),
	)
	before := shape(d)

	_, err := d.Indent(2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"unordered-list@1[0,6)",
		"list-item@2[0,6)",
		"unordered-list@3[2,6)",
		"list-item@4[2,4)",
		"list-item@4[4,6)",
	}, shape(d))

	_, err = d.Outdent(2, 2)
	require.NoError(t, err)
	assert.Equal(t, before, shape(d))
}

func TestOutdentMiddleNestedItem(t *testing.T) {
	d := newTestDoc(t, "a\nb\nc\nd",
		ann(block.UnorderedList(), 1, 0, 8),
		ann(block.ListItem(), 2, 0, 8),
		ann(block.UnorderedList(), 3, 2, 8),
		ann(block.ListItem(), 4, 2, 4),
		ann(block.ListItem(), 4, 4, 6),
		ann(block.ListItem(), 4, 6, 8),
	)

	_, err := d.Outdent(4, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"unordered-list@1[0,8)",
		"list-item@2[0,4)",
		"unordered-list@3[2,4)",
		"list-item@4[2,4)",
		"list-item@2[4,8)",
		"unordered-list@3[6,8)",
		"list-item@4[6,8)",
	}, shape(d))
}

func TestIndentJoinsPreviousNestedList(t *testing.T) {
	d := newTestDoc(t, "a\nb\nc",
		ann(block.UnorderedList(), 1, 0, 6),
		ann(block.ListItem(), 2, 0, 4),
		ann(block.UnorderedList(), 3, 2, 4),
		ann(block.ListItem(), 4, 2, 4),
		ann(block.ListItem(), 2, 4, 6),
	)

	_, err := d.Indent(4, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"unordered-list@1[0,6)",
		"list-item@2[0,6)",
		"unordered-list@3[2,6)",
		"list-item@4[2,4)",
		"list-item@4[4,6)",
	}, shape(d))
}

func TestIndentNonContiguousSelection(t *testing.T) {
	// The selection covers an item of the outer list and an item nested in
	// a different branch; the topmost items are not siblings.
	d := newTestDoc(t, "a\nb\nc",
		ann(block.UnorderedList(), 1, 0, 4),
		ann(block.ListItem(), 2, 0, 4),
		ann(block.UnorderedList(), 3, 2, 4),
		ann(block.ListItem(), 4, 2, 4),
		ann(block.OrderedList(), 1, 4, 6),
		ann(block.ListItem(), 2, 4, 6),
	)

	assert.False(t, d.CanOutdent(2, 5))
	assert.False(t, d.CanIndent(2, 5))
}

func TestIndentKeepsDifferentlyShapedNestedList(t *testing.T) {
	// A, then B holding a task list with C. Indenting B alone leaves the
	// task list where it is and outdenting restores it.
	d := newTestDoc(t, "a\nb\nc",
		ann(block.OrderedList(), 1, 0, 6),
		ann(block.ListItem(), 2, 0, 2),
		ann(block.ListItem(), 2, 2, 6),
		ann(block.TaskList(), 3, 4, 6),
		ann(block.ListItem(), 4, 4, 6),
	)
	before := shape(d)

	_, err := d.Indent(2, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ordered-list@1[0,6)",
		"list-item@2[0,6)",
		"ordered-list@3[2,4)",
		"list-item@4[2,4)",
		"task-list@3[4,6)",
		"list-item@4[4,6)",
	}, shape(d))

	_, err = d.Outdent(2, 3)
	require.NoError(t, err)
	assert.Equal(t, before, shape(d))
}
