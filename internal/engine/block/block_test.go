package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"p", Paragraph()},
		{"Paragraph", Paragraph()},
		{"h1", Heading(1)},
		{"h6", Heading(6)},
		{"heading", Heading(0)},
		{"blockquote", Quote()},
		{"pre", Preformat()},
		{"ol", OrderedList()},
		{"unordered-list", UnorderedList()},
		{"task", TaskList()},
		{"li", ListItem()},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTypeUnknown(t *testing.T) {
	for _, in := range []string{"", "h7", "h0", "div", "table"} {
		_, err := ParseType(in)
		assert.ErrorIs(t, err, ErrUnknownType, in)
	}
}

func TestTypeValidate(t *testing.T) {
	assert.NoError(t, Heading(3).Validate())
	assert.ErrorIs(t, Heading(0).Validate(), ErrHeadingLevel)
	assert.ErrorIs(t, Type{Kind: KindQuote, Level: 2}.Validate(), ErrUnknownType)
	assert.ErrorIs(t, Type{}.Validate(), ErrUnknownType)
}

func TestTypeMatches(t *testing.T) {
	assert.True(t, Heading(0).Matches(Heading(4)))
	assert.True(t, Heading(2).Matches(Heading(2)))
	assert.False(t, Heading(2).Matches(Heading(3)))
	assert.False(t, Quote().Matches(Paragraph()))
}

func TestKindClasses(t *testing.T) {
	tests := []struct {
		kind                        Kind
		lineBlock, wrapper, aligned bool
	}{
		{KindParagraph, true, false, true},
		{KindHeading, true, false, true},
		{KindPreformat, true, false, true},
		{KindQuote, false, true, true},
		{KindOrderedList, false, true, false},
		{KindTaskList, false, true, false},
		{KindListItem, false, false, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.lineBlock, tt.kind.IsLineBlock(), "%s line block", tt.kind)
		assert.Equal(t, tt.wrapper, tt.kind.IsWrapper(), "%s wrapper", tt.kind)
		assert.Equal(t, tt.aligned, tt.kind.IsAlignable(), "%s alignable", tt.kind)
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "h2", Heading(2).String())
	assert.Equal(t, "quote", Quote().String())
	assert.Equal(t, "task-list", TaskList().String())
}

func TestParseAlignment(t *testing.T) {
	a, err := ParseAlignment(" Center ")
	require.NoError(t, err)
	assert.Equal(t, AlignCenter, a)

	a, err = ParseAlignment("")
	require.NoError(t, err)
	assert.Equal(t, AlignNone, a)

	_, err = ParseAlignment("justify")
	assert.ErrorIs(t, err, ErrUnknownAlignment)
}

// Attributes Tests

func TestAttributesPreserveOrder(t *testing.T) {
	a := NewAttributes("style", "color:red", "class", "x", "id", "q")
	assert.Equal(t, []string{"style", "class", "id"}, a.Keys())

	a.Set("class", "y")
	assert.Equal(t, []string{"style", "class", "id"}, a.Keys())
	v, ok := a.Get("class")
	assert.True(t, ok)
	assert.Equal(t, "y", v)

	a.Delete("style")
	assert.Equal(t, []string{"class", "id"}, a.Keys())
	assert.Equal(t, `class="y" id="q"`, a.String())
}

func TestAttributesEqual(t *testing.T) {
	a := NewAttributes("a", "1", "b", "2")
	b := NewAttributes("a", "1", "b", "2")
	c := NewAttributes("b", "2", "a", "1")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "order matters")
	assert.True(t, Attributes{}.Equal(NewAttributes()))
}

func TestAttributesClone(t *testing.T) {
	a := NewAttributes("a", "1")
	c := a.Clone()
	c.Set("b", "2")
	c.Set("a", "x")

	assert.Equal(t, 1, a.Len())
	v, _ := a.Get("a")
	assert.Equal(t, "1", v)
}
