package engine

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dshills/blocknest/internal/engine/annotation"
	"github.com/dshills/blocknest/internal/engine/block"
	"github.com/dshills/blocknest/internal/engine/buffer"
	"github.com/dshills/blocknest/internal/engine/document"
	"github.com/dshills/blocknest/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// Range represents a rune range in the document.
	Range = buffer.Range

	// Result reports the outcome of a document operation.
	Result = document.Result

	// Annotation is a block annotation over a range of lines.
	Annotation = annotation.Annotation

	// AnnotationID identifies an annotation within its document.
	AnnotationID = annotation.ID

	// Type is a block type.
	Type = block.Type

	// Attributes are the ordered attributes of a block.
	Attributes = block.Attributes

	// Alignment is the horizontal alignment of a block.
	Alignment = block.Alignment

	// Command is an undoable document command.
	Command = history.Command

	// OperationInfo describes an entry of the undo or redo stack.
	OperationInfo = history.OperationInfo
)

// resultCommand is a command reporting the result of its first execution.
type resultCommand interface {
	history.Command
	Result() document.Result
}

// Engine is the main facade for the block annotation engine.
// It combines the document, undo/redo and named snapshots into a unified,
// thread-safe API.
//
// All operations are thread-safe and can be called from multiple goroutines.
type Engine struct {
	mu sync.RWMutex

	// Core components
	doc       *document.Document
	history   *history.History
	snapshots *snapshotManager
	logger    *zap.Logger
	session   string

	// Configuration
	maxUndoEntries int
	strict         bool
	readOnly       bool

	// Initialization
	initContent     string
	initAnnotations []annotation.Annotation
}

// New creates a new Engine with the given options. It fails when the
// initial annotations do not form a valid block structure.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		maxUndoEntries: DefaultMaxUndoEntries,
		logger:         zap.NewNop(),
		session:        uuid.NewString(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.With(zap.String("session", e.session))

	doc, err := document.New(e.initContent, e.initAnnotations,
		document.WithStrictInvariants(e.strict),
		document.WithLogger(e.logger.Named("document")),
	)
	if err != nil {
		return nil, fmt.Errorf("initial content: %w", err)
	}
	e.doc = doc
	e.history = history.NewHistory(e.maxUndoEntries)
	e.snapshots = newSnapshotManager()

	e.logger.Debug("engine created",
		zap.Int("len", doc.Len()),
		zap.Int("annotations", len(e.initAnnotations)),
	)
	return e, nil
}

// NewFromReader creates an Engine whose initial text is read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return New(append([]Option{WithContent(string(data))}, opts...)...)
}

// Session returns the unique ID of this engine instance.
func (e *Engine) Session() string {
	return e.session
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full document text.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Text()
}

// TextRange returns text in the given rune range.
func (e *Engine) TextRange(start, end int) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.TextRange(start, end)
}

// Len returns the length of the text in runes.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Len()
}

// IsEmpty returns true if the document has no text.
func (e *Engine) IsEmpty() bool {
	return e.Len() == 0
}

// Annotations returns copies of all annotations in document order.
func (e *Engine) Annotations() []Annotation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Annotations()
}

// Annotation returns a copy of the annotation with the given ID.
func (e *Engine) Annotation(id AnnotationID) (Annotation, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Annotation(id)
}

// Chain returns the annotations covering the line at pos, outermost first.
func (e *Engine) Chain(pos int) []Annotation {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Chain(pos)
}

// ParentOf returns the nearest enclosing annotation of id.
func (e *Engine) ParentOf(id AnnotationID) (Annotation, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.ParentOf(id)
}

// LineBounds expands a range to whole lines.
func (e *Engine) LineBounds(start, end int) (int, int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.LineBounds(start, end)
}

// NestingLevelAt returns the level of the innermost block at pos.
func (e *Engine) NestingLevelAt(pos int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.NestingLevelAt(pos)
}

// MinNestingLevelAt returns the smallest innermost level over a range.
func (e *Engine) MinNestingLevelAt(start, end int) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.MinNestingLevelAt(start, end)
}

// IsFormatted reports whether every line of the range carries typ.
func (e *Engine) IsFormatted(start, end int, typ Type) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.IsFormatted(start, end, typ)
}

// CanIndent reports whether Indent would change the document.
func (e *Engine) CanIndent(start, end int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return !e.readOnly && e.doc.CanIndent(start, end)
}

// CanOutdent reports whether Outdent would change the document.
func (e *Engine) CanOutdent(start, end int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return !e.readOnly && e.doc.CanOutdent(start, end)
}

// Check verifies the block invariants of the current state.
func (e *Engine) Check() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Check()
}

// State returns an immutable copy of the document state.
func (e *Engine) State() document.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Snapshot()
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts text at pos.
func (e *Engine) Insert(pos int, text string) (Result, error) {
	return e.run(history.NewInsertCommand(pos, text))
}

// Delete removes the text in [start, end).
func (e *Engine) Delete(start, end int) (Result, error) {
	return e.run(history.NewDeleteCommand(start, end))
}

// Replace replaces the text in [start, end).
func (e *Engine) Replace(start, end int, text string) (Result, error) {
	return e.run(history.NewReplaceCommand(start, end, text))
}

// Apply formats the lines of [start, end) as typ.
func (e *Engine) Apply(start, end int, typ Type, attrs Attributes) (Result, error) {
	return e.run(history.NewFormatCommand(history.FormatApply, start, end, typ, attrs))
}

// Remove removes typ from the lines of [start, end).
func (e *Engine) Remove(start, end int, typ Type) (Result, error) {
	return e.run(history.NewFormatCommand(history.FormatRemove, start, end, typ, block.Attributes{}))
}

// Toggle removes typ when all lines carry it and applies it otherwise.
func (e *Engine) Toggle(start, end int, typ Type, attrs Attributes) (Result, error) {
	return e.run(history.NewFormatCommand(history.FormatToggle, start, end, typ, attrs))
}

// SetAlignment aligns the innermost blocks of the selected lines.
func (e *Engine) SetAlignment(start, end int, align Alignment) (Result, error) {
	return e.run(history.NewAlignCommand(start, end, align))
}

// Indent moves the selected list items one depth deeper.
func (e *Engine) Indent(start, end int) (Result, error) {
	return e.run(history.NewIndentCommand(start, end))
}

// Outdent moves the selected list items one depth up.
func (e *Engine) Outdent(start, end int) (Result, error) {
	return e.run(history.NewOutdentCommand(start, end))
}

func (e *Engine) run(cmd resultCommand) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return Result{}, ErrReadOnly
	}
	if err := e.history.Execute(cmd, e.doc); err != nil {
		e.logger.Debug("command failed",
			zap.String("command", cmd.Description()),
			zap.Error(err),
		)
		return Result{}, err
	}
	return cmd.Result(), nil
}

// ============================================================================
// Undo/Redo Operations
// ============================================================================

// Undo undoes the last operation.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Undo(e.doc)
}

// Redo redoes the last undone operation.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Redo(e.doc)
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of available undo operations.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of available redo operations.
func (e *Engine) RedoCount() int {
	return e.history.RedoCount()
}

// UndoHistory describes the undo stack, oldest first.
func (e *Engine) UndoHistory() []OperationInfo {
	return e.history.UndoInfo()
}

// RedoHistory describes the redo stack. The last entry is redone first.
func (e *Engine) RedoHistory() []OperationInfo {
	return e.history.RedoInfo()
}

// BeginUndoGroup starts a new undo group.
// All operations until EndUndoGroup will be undone as a single unit.
func (e *Engine) BeginUndoGroup(name string) {
	e.history.BeginGroup(name)
}

// EndUndoGroup ends the current undo group.
func (e *Engine) EndUndoGroup() {
	e.history.EndGroup()
}

// CancelUndoGroup cancels the current undo group without recording.
func (e *Engine) CancelUndoGroup() {
	e.history.CancelGroup()
}

// Transaction runs fn as one undo unit named name. When fn returns an error,
// every change it made is reverted and nothing is recorded. Inside an open
// undo group, fn joins that group instead.
func (e *Engine) Transaction(name string, fn func() error) error {
	if e.IsReadOnly() {
		return ErrReadOnly
	}
	err := e.history.Transaction(name, fn, func(cmd Command) error {
		e.mu.Lock()
		defer e.mu.Unlock()
		return cmd.Undo(e.doc)
	})
	if err != nil {
		e.logger.Debug("transaction reverted", zap.String("name", name), zap.Error(err))
	}
	return err
}

// ClearHistory removes all undo/redo history.
func (e *Engine) ClearHistory() {
	e.history.Clear()
}

// ============================================================================
// Command Execution
// ============================================================================

// Execute runs a command and adds it to undo history.
func (e *Engine) Execute(cmd Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	return e.history.Execute(cmd, e.doc)
}

// ============================================================================
// Snapshot Operations
// ============================================================================

// CreateSnapshot creates a named snapshot of the current state.
func (e *Engine) CreateSnapshot(name string) SnapshotID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshots.create(name, e.doc.Snapshot())
}

// GetSnapshot retrieves a snapshot by ID.
func (e *Engine) GetSnapshot(id SnapshotID) (*Snapshot, error) {
	snap, ok := e.snapshots.get(id)
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

// GetSnapshotByName retrieves a snapshot by name.
func (e *Engine) GetSnapshotByName(name string) (*Snapshot, error) {
	snap, ok := e.snapshots.getByName(name)
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return snap, nil
}

// RestoreSnapshot returns the document to a snapshot. The restore is
// recorded in the undo history.
func (e *Engine) RestoreSnapshot(id SnapshotID) error {
	snap, ok := e.snapshots.get(id)
	if !ok {
		return ErrSnapshotNotFound
	}
	_, err := e.run(history.NewRestoreCommand(snap.Name, snap.state))
	return err
}

// DeleteSnapshot removes a snapshot.
func (e *Engine) DeleteSnapshot(id SnapshotID) {
	e.snapshots.delete(id)
}

// ListSnapshots returns all snapshots, oldest first.
func (e *Engine) ListSnapshots() []*Snapshot {
	return e.snapshots.list()
}

// ============================================================================
// Configuration
// ============================================================================

// IsReadOnly returns true if the engine rejects changes.
func (e *Engine) IsReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

// SetReadOnly sets the read-only mode.
func (e *Engine) SetReadOnly(readOnly bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.readOnly = readOnly
}
