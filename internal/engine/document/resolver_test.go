package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blocknest/internal/engine/block"
)

func TestLineBounds(t *testing.T) {
	// a b \n \n c d \n e f
	d := newTestDoc(t, "ab\n\ncd\nef")

	tests := []struct {
		name             string
		start, end       int
		wantStart, wantE int
	}{
		{"caret on first line", 0, 0, 0, 3},
		{"caret on empty line", 3, 3, 3, 4},
		{"caret at end of text", 9, 9, 7, 10},
		{"across lines", 1, 5, 0, 7},
		{"starts on double newline", 2, 5, 3, 7},
		{"ends after newline", 4, 7, 4, 7},
		{"reaches end of text", 0, 9, 0, 10},
		{"single newline selected", 2, 3, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e := d.LineBounds(tt.start, tt.end)
			assert.Equal(t, tt.wantStart, s, "start")
			assert.Equal(t, tt.wantE, e, "end")
		})
	}
}

func TestLineBoundsDoubleNewlineAtLineStart(t *testing.T) {
	// An empty first line followed by another empty line keeps its own start.
	d := newTestDoc(t, "\n\nab")

	s, e := d.LineBounds(0, 2)
	assert.Equal(t, 0, s)
	assert.Equal(t, 2, e)

	s, e = d.LineBounds(1, 2)
	assert.Equal(t, 1, s)
	assert.Equal(t, 2, e)
}

func TestLineBoundsEmptyDocument(t *testing.T) {
	d := NewEmpty()
	s, e := d.LineBounds(0, 0)
	assert.Equal(t, 0, s)
	assert.Equal(t, 1, e)
}

func TestNestingQueries(t *testing.T) {
	// "a\nb\nc": quote over everything, list over "b" and "c"
	d := newTestDoc(t, "a\nb\nc",
		ann(block.Quote(), 1, 0, 6),
		ann(block.UnorderedList(), 2, 2, 6),
		ann(block.ListItem(), 3, 2, 4),
		ann(block.ListItem(), 3, 4, 6),
	)

	assert.Equal(t, 1, d.NestingLevelAt(0))
	assert.Equal(t, 3, d.NestingLevelAt(2))
	assert.Equal(t, 3, d.NestingLevelAt(5), "sentinel line")
	assert.Equal(t, 1, d.MinNestingLevelAt(0, 5))
	assert.Equal(t, 3, d.MinNestingLevelAt(2, 5))

	chain := d.Chain(4)
	require.Len(t, chain, 3)
	assert.Equal(t, block.Quote(), chain[0].Type)
	assert.Equal(t, block.UnorderedList(), chain[1].Type)
	assert.Equal(t, 4, chain[2].Start)

	parent, ok := d.ParentOf(chain[2].ID)
	require.True(t, ok)
	assert.Equal(t, chain[1].ID, parent.ID)

	_, ok = d.ParentOf(chain[0].ID)
	assert.False(t, ok, "top-level block has no parent")
}

func TestNestingQueriesPlainText(t *testing.T) {
	d := newTestDoc(t, "plain")
	assert.Equal(t, 0, d.NestingLevelAt(2))
	assert.Equal(t, 0, d.MinNestingLevelAt(0, 5))
	assert.Empty(t, d.Chain(0))
}
