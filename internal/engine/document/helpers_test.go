package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/block"
)

// Helper to build an annotation literal
func ann(typ block.Type, level, start, end int) annotation.Annotation {
	return annotation.Annotation{Type: typ, Level: level, Start: start, End: end}
}

// Helper to create a strict test document
func newTestDoc(t *testing.T, text string, anns ...annotation.Annotation) *Document {
	t.Helper()
	d, err := New(text, anns, WithStrictInvariants(true))
	require.NoError(t, err)
	return d
}

// shape renders the annotations in document order as "type@level[start,end)".
func shape(d *Document) []string {
	out := []string{}
	for _, a := range d.Annotations() {
		out = append(out, fmt.Sprintf("%s@%d[%d,%d)", a.Type, a.Level, a.Start, a.End))
	}
	return out
}

var none block.Attributes
