package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blocknest/internal/engine/block"
)

// Range Tests

func TestApplyRejectsIllegalRange(t *testing.T) {
	d := newTestDoc(t, "abc")

	_, err := d.Apply(2, 1, block.Quote(), none)
	assert.ErrorIs(t, err, ErrRangeInvalid)

	_, err = d.Apply(0, 4, block.Quote(), none)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)

	_, err = d.Apply(0, 1, block.ListItem(), none)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = d.Apply(0, 1, block.Heading(0), none)
	assert.ErrorIs(t, err, block.ErrHeadingLevel)

	assert.Empty(t, shape(d))
}

// Line Block Tests

func TestApplyHeadingFansOutPerLine(t *testing.T) {
	d := newTestDoc(t, "one\ntwo")

	res, err := d.Apply(1, 5, block.Heading(2), none)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"h2@1[0,4)", "h2@1[4,8)"}, shape(d))
}

func TestApplyLineBlockConvertsInPlace(t *testing.T) {
	d := newTestDoc(t, "one", ann(block.Paragraph(), 1, 0, 4))
	d.idx.All()[0].Align = block.AlignRight

	_, err := d.Apply(0, 0, block.Preformat(), none)
	require.NoError(t, err)
	assert.Equal(t, []string{"preformat@1[0,4)"}, shape(d))
	assert.Equal(t, block.AlignRight, d.Annotations()[0].Align)

	res, err := d.Apply(0, 0, block.Preformat(), none)
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestApplyLineBlockInsideListItem(t *testing.T) {
	d := newTestDoc(t, "a\nb",
		ann(block.OrderedList(), 1, 0, 4),
		ann(block.ListItem(), 2, 0, 2),
		ann(block.ListItem(), 2, 2, 4),
	)

	_, err := d.Apply(2, 2, block.Heading(1), none)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ordered-list@1[0,4)",
		"list-item@2[0,2)",
		"list-item@2[2,4)",
		"h1@3[2,4)",
	}, shape(d))
}

func TestRemoveHeadingAnyLevel(t *testing.T) {
	d := newTestDoc(t, "one\ntwo",
		ann(block.Heading(1), 1, 0, 4),
		ann(block.Heading(3), 1, 4, 8),
	)

	res, err := d.Remove(0, 7, block.Heading(0))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Empty(t, shape(d))
}

func TestToggleHeadingLevels(t *testing.T) {
	d := newTestDoc(t, "title", ann(block.Heading(1), 1, 0, 6))

	_, err := d.Toggle(0, 0, block.Heading(2), none)
	require.NoError(t, err)
	assert.Equal(t, []string{"h2@1[0,6)"}, shape(d), "different level converts")

	_, err = d.Toggle(0, 0, block.Heading(2), none)
	require.NoError(t, err)
	assert.Empty(t, shape(d), "same level removes")
}

// Quote Tests

func TestApplyQuoteMergesWithAdjacentQuote(t *testing.T) {
	d := newTestDoc(t, "a\nb\nc", ann(block.Quote(), 1, 2, 6))

	_, err := d.Apply(0, 0, block.Quote(), none)
	require.NoError(t, err)
	assert.Equal(t, []string{"quote@1[0,6)"}, shape(d))
}

func TestApplyQuoteAlreadyQuoted(t *testing.T) {
	d := newTestDoc(t, "a\nb\nc", ann(block.Quote(), 1, 0, 6))

	res, err := d.Apply(2, 3, block.Quote(), none)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, []string{"quote@1[0,6)"}, shape(d))
}

func TestApplyQuoteInsideListItem(t *testing.T) {
	d := newTestDoc(t, "a\nb",
		ann(block.UnorderedList(), 1, 0, 4),
		ann(block.ListItem(), 2, 0, 2),
		ann(block.ListItem(), 2, 2, 4),
	)

	_, err := d.Apply(0, 0, block.Quote(), none)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"unordered-list@1[0,4)",
		"list-item@2[0,2)",
		"quote@3[0,2)",
		"list-item@2[2,4)",
	}, shape(d))
}

func TestApplyQuoteOverPartOfListWrapsWholeList(t *testing.T) {
	d := newTestDoc(t, "a\nb\nc",
		ann(block.UnorderedList(), 1, 0, 6),
		ann(block.ListItem(), 2, 0, 2),
		ann(block.ListItem(), 2, 2, 4),
		ann(block.ListItem(), 2, 4, 6),
	)

	_, err := d.Apply(0, 3, block.Quote(), none)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"quote@1[0,6)",
		"unordered-list@2[0,6)",
		"list-item@3[0,2)",
		"list-item@3[2,4)",
		"list-item@3[4,6)",
	}, shape(d))
}

func TestRemoveQuoteSplits(t *testing.T) {
	d := newTestDoc(t, "a\nb\nc",
		ann(block.Quote(), 1, 0, 6),
		ann(block.Paragraph(), 2, 2, 4),
	)

	_, err := d.Remove(2, 2, block.Quote())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"quote@1[0,2)",
		"paragraph@1[2,4)",
		"quote@1[4,6)",
	}, shape(d))
}

func TestRemoveQuoteShrinks(t *testing.T) {
	d := newTestDoc(t, "a\nb\nc", ann(block.Quote(), 1, 0, 6))

	_, err := d.Remove(0, 1, block.Quote())
	require.NoError(t, err)
	assert.Equal(t, []string{"quote@1[2,6)"}, shape(d))

	_, err = d.Remove(4, 4, block.Quote())
	require.NoError(t, err)
	assert.Equal(t, []string{"quote@1[2,4)"}, shape(d))
}

func TestRemoveQuoteAroundList(t *testing.T) {
	d := newTestDoc(t, "a\nb",
		ann(block.Quote(), 1, 0, 4),
		ann(block.OrderedList(), 2, 0, 4),
		ann(block.ListItem(), 3, 0, 2),
		ann(block.ListItem(), 3, 2, 4),
	)

	_, err := d.Remove(2, 2, block.Quote())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ordered-list@1[0,4)",
		"list-item@2[0,2)",
		"list-item@2[2,4)",
	}, shape(d))
}

func TestToggleQuoteRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
	}{
		{"partial overlap nests existing quote", 0, 3},
		{"plain line merges", 0, 0},
		{"whole text", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDoc(t, "a\nb\nc", ann(block.Quote(), 1, 2, 6))
			before := shape(d)

			_, err := d.Toggle(tt.start, tt.end, block.Quote(), none)
			require.NoError(t, err)
			assert.NotEqual(t, before, shape(d))

			_, err = d.Toggle(tt.start, tt.end, block.Quote(), none)
			require.NoError(t, err)
			assert.Equal(t, before, shape(d))
		})
	}
}

// Alignment Tests

func TestSetAlignment(t *testing.T) {
	d := newTestDoc(t, "a\nb", ann(block.Quote(), 1, 2, 4))

	res, err := d.SetAlignment(0, 3, block.AlignCenter)
	require.NoError(t, err)
	assert.True(t, res.Changed)

	anns := d.Annotations()
	require.Len(t, anns, 2)
	assert.Equal(t, block.Paragraph(), anns[0].Type)
	assert.Equal(t, block.AlignCenter, anns[0].Align)
	assert.Equal(t, block.Quote(), anns[1].Type)
	assert.Equal(t, block.AlignCenter, anns[1].Align)

	res, err = d.SetAlignment(0, 3, block.AlignCenter)
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestToggleLineBlockOverOtherLineBlock(t *testing.T) {
	d := newTestDoc(t, "one", ann(block.Preformat(), 1, 0, 4))

	_, err := d.Toggle(0, 0, block.Heading(2), none)
	require.NoError(t, err)
	assert.Equal(t, []string{"h2@1[0,4)"}, shape(d))

	// The converted line does not remember it was preformatted.
	_, err = d.Toggle(0, 0, block.Heading(2), none)
	require.NoError(t, err)
	assert.Equal(t, []string{}, shape(d))
}
