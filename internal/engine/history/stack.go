package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/blocknest/internal/engine/document"
)

// DefaultMaxEntries is the undo depth used when none is configured.
const DefaultMaxEntries = 1000

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// entry is a recorded command and the time it was recorded.
type entry struct {
	cmd Command
	at  time.Time
}

func (e entry) info() OperationInfo {
	return OperationInfo{
		Description: e.cmd.Description(),
		Timestamp:   e.at,
		RuneDelta:   e.cmd.Operations().TotalRuneDelta(),
	}
}

// stack is a LIFO of recorded commands.
type stack []entry

func (s *stack) push(e entry) { *s = append(*s, e) }

func (s *stack) pop() (entry, bool) {
	n := len(*s)
	if n == 0 {
		return entry{}, false
	}
	e := (*s)[n-1]
	*s = (*s)[:n-1]
	return e, true
}

func (s stack) infos() []OperationInfo {
	out := make([]OperationInfo, len(s))
	for i, e := range s {
		out[i] = e.info()
	}
	return out
}

// History keeps the undo and redo stacks of one document. Commands recorded
// while a group is open are collected and recorded as one compound command
// when the group ends.
type History struct {
	mu sync.Mutex

	undo, redo stack
	limit      int

	group *CompoundCommand
}

// NewHistory creates a history holding at most maxEntries undo entries.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{limit: maxEntries}
}

// Execute runs cmd on doc and records it. Commands that leave the document
// unchanged are not recorded.
func (h *History) Execute(cmd Command, doc *document.Document) error {
	if err := cmd.Execute(doc); err != nil {
		return err
	}
	if cmd.Operations().Changed() {
		h.Push(cmd)
	}
	return nil
}

// Push records an executed command and clears the redo stack.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.group != nil {
		h.group.Add(cmd)
		return
	}
	h.record(cmd)
}

func (h *History) record(cmd Command) {
	h.undo.push(entry{cmd: cmd, at: time.Now()})
	h.redo = nil
	if over := len(h.undo) - h.limit; over > 0 {
		h.undo = h.undo[over:]
	}
}

// Undo reverts the most recent command.
func (h *History) Undo(doc *document.Document) error {
	return h.transfer(&h.undo, &h.redo, ErrNothingToUndo, func(c Command) error {
		return c.Undo(doc)
	})
}

// Redo re-applies the most recently undone command.
func (h *History) Redo(doc *document.Document) error {
	return h.transfer(&h.redo, &h.undo, ErrNothingToRedo, func(c Command) error {
		return c.Execute(doc)
	})
}

// transfer pops the top of from, runs fn on it and pushes it onto to. The
// lock is not held while fn runs; on failure the entry goes back onto from.
func (h *History) transfer(from, to *stack, empty error, fn func(Command) error) error {
	h.mu.Lock()
	e, ok := from.pop()
	h.mu.Unlock()
	if !ok {
		return empty
	}

	err := fn(e.cmd)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		from.push(e)
		return err
	}
	to.push(e)
	return nil
}

// CanUndo reports whether an undo entry exists.
func (h *History) CanUndo() bool { return h.UndoCount() > 0 }

// CanRedo reports whether a redo entry exists.
func (h *History) CanRedo() bool { return h.RedoCount() > 0 }

// UndoCount returns the depth of the undo stack.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

// RedoCount returns the depth of the redo stack.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}

// UndoInfo describes the undo stack, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.undo.infos()
}

// RedoInfo describes the redo stack. The last entry is redone first.
func (h *History) RedoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.redo.infos()
}

// BeginGroup opens a group named name. A group that is already open stays
// open and keeps its name.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.group == nil {
		h.group = NewCompoundCommand(name)
	}
}

// EndGroup closes the open group and records its commands as one entry. An
// empty group records nothing.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if g := h.take(); g != nil && !g.IsEmpty() {
		h.record(g)
	}
}

// CancelGroup closes the open group without recording it. Its commands
// still affect the document.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.take()
}

func (h *History) take() *CompoundCommand {
	g := h.group
	h.group = nil
	return g
}

// Clear drops both stacks and any open group.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo, h.redo, h.group = nil, nil, nil
}
