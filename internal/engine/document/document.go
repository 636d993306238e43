package document

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/block"
	"github.com/dshills/blocknest/internal/engine/buffer"
)

// Result reports the outcome of a document operation.
type Result struct {
	// Changed is false when the operation was unavailable or had nothing to do.
	Changed bool

	// Selection is the selection the caller should show after the operation.
	Selection buffer.Range
}

// Document is a text buffer plus the block annotations over it.
// A Document is not safe for concurrent use.
type Document struct {
	buf    *buffer.Buffer
	idx    *annotation.Index
	strict bool
	logger *zap.Logger
}

// Snapshot is an immutable copy of a document's state.
type Snapshot struct {
	Text        string
	Annotations []annotation.Annotation
}

// New creates a document over text with an initial annotation set.
//
// Line blocks spanning several lines are split into one annotation per line
// and adjacent identical wrappers are merged. The result must satisfy every
// block invariant; otherwise New returns an error wrapping ErrInvariant.
func New(text string, anns []annotation.Annotation, opts ...Option) (*Document, error) {
	d := &Document{
		buf:    buffer.NewBufferFromString(text),
		idx:    annotation.NewIndex(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, a := range anns {
		if err := a.Type.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvariant, err)
		}
		a.Attrs = a.Attrs.Clone()
		d.idx.Add(a)
	}

	d.splitLineBlocks()
	d.normalize()
	if err := d.Check(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewEmpty creates an empty document without annotations.
func NewEmpty(opts ...Option) *Document {
	d, _ := New("", nil, opts...)
	return d
}

// Text returns the document text.
func (d *Document) Text() string {
	return d.buf.Text()
}

// TextRange returns the text in [start, end).
func (d *Document) TextRange(start, end int) string {
	return d.buf.TextRange(start, end)
}

// Len returns the length of the text in runes.
func (d *Document) Len() int {
	return d.buf.Len()
}

// Annotations returns copies of all annotations in document order.
func (d *Document) Annotations() []annotation.Annotation {
	return d.idx.Snapshot()
}

// Annotation returns a copy of the annotation with the given ID.
func (d *Document) Annotation(id annotation.ID) (annotation.Annotation, bool) {
	a, ok := d.idx.Get(id)
	if !ok {
		return annotation.Annotation{}, false
	}
	return a.Clone(), true
}

// Snapshot captures the current state.
func (d *Document) Snapshot() Snapshot {
	return Snapshot{Text: d.buf.Text(), Annotations: d.idx.Snapshot()}
}

// Restore replaces the current state with s.
func (d *Document) Restore(s Snapshot) {
	d.buf = buffer.NewBufferFromString(s.Text)
	d.idx.Restore(s.Annotations)
}

// Clone returns an independent copy of the document sharing its options.
func (d *Document) Clone() *Document {
	return &Document{
		buf:    d.buf.Clone(),
		idx:    d.idx.Clone(),
		strict: d.strict,
		logger: d.logger,
	}
}

// validateRange checks a caller supplied character range.
func (d *Document) validateRange(start, end int) error {
	if start > end {
		return fmt.Errorf("[%d, %d): %w", start, end, ErrRangeInvalid)
	}
	if start < 0 || end > d.buf.Len() {
		return fmt.Errorf("[%d, %d) in document of length %d: %w", start, end, d.buf.Len(), ErrOffsetOutOfRange)
	}
	return nil
}

// mutate runs fn as one atomic operation. The structure is normalized and
// checked afterwards; a violation restores the state captured before fn ran.
func (d *Document) mutate(op string, fields []zap.Field, fn func() (Result, error)) (Result, error) {
	snap := d.Snapshot()

	res, err := fn()
	if err != nil {
		d.Restore(snap)
		return Result{}, err
	}

	d.normalize()
	if verr := d.Check(); verr != nil {
		if d.strict {
			panic(fmt.Sprintf("%s: %v", op, verr))
		}
		d.logger.Error("operation rolled back",
			append(fields, zap.String("op", op), zap.Error(verr))...)
		d.Restore(snap)
		return Result{}, fmt.Errorf("%s: %w", op, verr)
	}

	d.logger.Debug(op, append(fields, zap.Bool("changed", res.Changed))...)
	return res, nil
}

func rangeFields(start, end int) []zap.Field {
	return []zap.Field{zap.Int("start", start), zap.Int("end", end)}
}

func typeFields(start, end int, typ block.Type) []zap.Field {
	return append(rangeFields(start, end), zap.Stringer("type", typ))
}
