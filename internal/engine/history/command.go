package history

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/blocknest/internal/engine/block"
	"github.com/dshills/blocknest/internal/engine/document"
)

// Command represents a composable document action that can be executed and
// undone.
type Command interface {
	// Execute performs the command and returns an error if it fails.
	Execute(doc *document.Document) error

	// Undo reverses the command and returns an error if it fails.
	Undo(doc *document.Document) error

	// Description returns a human-readable description of the command.
	Description() string

	// Operations returns the changes recorded by the last Execute.
	Operations() OperationList
}

// recorder captures the document state around one operation. Once recorded,
// executing again restores the after-state instead of rerunning the
// operation.
type recorder struct {
	op     *Operation
	result document.Result
}

func (r *recorder) run(doc *document.Document, fn func() (document.Result, error)) error {
	if r.op != nil {
		doc.Restore(r.op.After)
		return nil
	}

	before := doc.Snapshot()
	res, err := fn()
	if err != nil {
		return err
	}
	r.result = res
	r.op = NewOperation(before, doc.Snapshot())
	r.op.Selection = res.Selection
	return nil
}

// Undo restores the state captured before the operation.
func (r *recorder) Undo(doc *document.Document) error {
	if r.op == nil {
		return nil
	}
	doc.Restore(r.op.Before)
	return nil
}

// Operations returns the recorded operation, if any.
func (r *recorder) Operations() OperationList {
	if r.op == nil {
		return nil
	}
	return OperationList{r.op}
}

// Result returns the result of the first execution.
func (r *recorder) Result() document.Result {
	return r.result
}

// InsertCommand inserts text at a position.
type InsertCommand struct {
	Pos  int
	Text string
	recorder
}

// NewInsertCommand creates a new insert command.
func NewInsertCommand(pos int, text string) *InsertCommand {
	return &InsertCommand{Pos: pos, Text: text}
}

// Execute inserts the text and reconciles the block structure.
func (c *InsertCommand) Execute(doc *document.Document) error {
	return c.run(doc, func() (document.Result, error) {
		res, err := doc.Insert(c.Pos, c.Text)
		if err != nil {
			return res, fmt.Errorf("insert at offset %d: %w", c.Pos, err)
		}
		return res, nil
	})
}

// Description returns a human-readable description.
func (c *InsertCommand) Description() string {
	if utf8.RuneCountInString(c.Text) == 1 {
		if c.Text == "\n" {
			return "Insert newline"
		}
		return fmt.Sprintf("Type '%s'", c.Text)
	}
	if utf8.RuneCountInString(c.Text) <= 20 {
		return fmt.Sprintf("Insert \"%s\"", c.Text)
	}
	return fmt.Sprintf("Insert %d characters", utf8.RuneCountInString(c.Text))
}

// DeleteCommand deletes a range of text.
type DeleteCommand struct {
	Start, End int
	recorder
}

// NewDeleteCommand creates a new delete command.
func NewDeleteCommand(start, end int) *DeleteCommand {
	return &DeleteCommand{Start: start, End: end}
}

// Execute deletes the range and reconciles the block structure.
func (c *DeleteCommand) Execute(doc *document.Document) error {
	return c.run(doc, func() (document.Result, error) {
		res, err := doc.Delete(c.Start, c.End)
		if err != nil {
			return res, fmt.Errorf("delete at range [%d,%d): %w", c.Start, c.End, err)
		}
		return res, nil
	})
}

// Description returns a human-readable description.
func (c *DeleteCommand) Description() string {
	if c.End-c.Start == 1 {
		return "Delete"
	}
	return fmt.Sprintf("Delete %d characters", c.End-c.Start)
}

// ReplaceCommand replaces text in a specific range.
type ReplaceCommand struct {
	Start, End int
	NewText    string
	recorder
}

// NewReplaceCommand creates a new replace command.
func NewReplaceCommand(start, end int, newText string) *ReplaceCommand {
	return &ReplaceCommand{Start: start, End: end, NewText: newText}
}

// Execute replaces the range and reconciles the block structure.
func (c *ReplaceCommand) Execute(doc *document.Document) error {
	return c.run(doc, func() (document.Result, error) {
		res, err := doc.Replace(c.Start, c.End, c.NewText)
		if err != nil {
			return res, fmt.Errorf("replace at range [%d,%d): %w", c.Start, c.End, err)
		}
		return res, nil
	})
}

// Description returns a human-readable description.
func (c *ReplaceCommand) Description() string {
	oldLen := c.End - c.Start
	newLen := utf8.RuneCountInString(c.NewText)
	if oldLen == 0 {
		return fmt.Sprintf("Insert %d characters", newLen)
	}
	if newLen == 0 {
		return fmt.Sprintf("Delete %d characters", oldLen)
	}
	return fmt.Sprintf("Replace %d with %d characters", oldLen, newLen)
}

// FormatAction selects what a FormatCommand does with its type.
type FormatAction int

const (
	// FormatApply applies the type.
	FormatApply FormatAction = iota
	// FormatRemove removes the type.
	FormatRemove
	// FormatToggle removes the type when present and applies it otherwise.
	FormatToggle
)

// String returns the action name.
func (a FormatAction) String() string {
	switch a {
	case FormatApply:
		return "Apply"
	case FormatRemove:
		return "Remove"
	case FormatToggle:
		return "Toggle"
	}
	return fmt.Sprintf("FormatAction(%d)", int(a))
}

// FormatCommand applies, removes or toggles a block type over a range.
type FormatCommand struct {
	Action     FormatAction
	Start, End int
	Type       block.Type
	Attrs      block.Attributes
	recorder
}

// NewFormatCommand creates a new format command.
func NewFormatCommand(action FormatAction, start, end int, typ block.Type, attrs block.Attributes) *FormatCommand {
	return &FormatCommand{
		Action: action,
		Start:  start,
		End:    end,
		Type:   typ,
		Attrs:  attrs.Clone(),
	}
}

// Execute performs the format action.
func (c *FormatCommand) Execute(doc *document.Document) error {
	return c.run(doc, func() (document.Result, error) {
		var (
			res document.Result
			err error
		)
		switch c.Action {
		case FormatApply:
			res, err = doc.Apply(c.Start, c.End, c.Type, c.Attrs)
		case FormatRemove:
			res, err = doc.Remove(c.Start, c.End, c.Type)
		case FormatToggle:
			res, err = doc.Toggle(c.Start, c.End, c.Type, c.Attrs)
		default:
			return res, fmt.Errorf("unknown format action %d", int(c.Action))
		}
		if err != nil {
			return res, fmt.Errorf("%s %s at range [%d,%d): %w", c.Action, c.Type, c.Start, c.End, err)
		}
		return res, nil
	})
}

// Description returns a human-readable description.
func (c *FormatCommand) Description() string {
	return fmt.Sprintf("%s %s", c.Action, c.Type)
}

// AlignCommand sets the alignment of the selected blocks.
type AlignCommand struct {
	Start, End int
	Align      block.Alignment
	recorder
}

// NewAlignCommand creates a new align command.
func NewAlignCommand(start, end int, align block.Alignment) *AlignCommand {
	return &AlignCommand{Start: start, End: end, Align: align}
}

// Execute sets the alignment.
func (c *AlignCommand) Execute(doc *document.Document) error {
	return c.run(doc, func() (document.Result, error) {
		res, err := doc.SetAlignment(c.Start, c.End, c.Align)
		if err != nil {
			return res, fmt.Errorf("align at range [%d,%d): %w", c.Start, c.End, err)
		}
		return res, nil
	})
}

// Description returns a human-readable description.
func (c *AlignCommand) Description() string {
	if c.Align == block.AlignNone {
		return "Clear alignment"
	}
	return fmt.Sprintf("Align %s", c.Align)
}

// IndentCommand indents or outdents the selected list items.
type IndentCommand struct {
	Start, End int
	Outdent    bool
	recorder
}

// NewIndentCommand creates a command moving list items one level deeper.
func NewIndentCommand(start, end int) *IndentCommand {
	return &IndentCommand{Start: start, End: end}
}

// NewOutdentCommand creates a command moving list items one level up.
func NewOutdentCommand(start, end int) *IndentCommand {
	return &IndentCommand{Start: start, End: end, Outdent: true}
}

// Execute indents or outdents the items.
func (c *IndentCommand) Execute(doc *document.Document) error {
	return c.run(doc, func() (document.Result, error) {
		var (
			res document.Result
			err error
		)
		if c.Outdent {
			res, err = doc.Outdent(c.Start, c.End)
		} else {
			res, err = doc.Indent(c.Start, c.End)
		}
		if err != nil {
			return res, fmt.Errorf("%s at range [%d,%d): %w", c.Description(), c.Start, c.End, err)
		}
		return res, nil
	})
}

// Description returns a human-readable description.
func (c *IndentCommand) Description() string {
	if c.Outdent {
		return "Outdent"
	}
	return "Indent"
}

// RestoreCommand replaces the document state with a saved snapshot.
type RestoreCommand struct {
	Name  string
	State document.Snapshot
	recorder
}

// NewRestoreCommand creates a command restoring state.
func NewRestoreCommand(name string, state document.Snapshot) *RestoreCommand {
	return &RestoreCommand{Name: name, State: state}
}

// Execute restores the saved state.
func (c *RestoreCommand) Execute(doc *document.Document) error {
	return c.run(doc, func() (document.Result, error) {
		doc.Restore(c.State)
		if err := doc.Check(); err != nil {
			return document.Result{}, fmt.Errorf("restore %q: %w", c.Name, err)
		}
		return document.Result{Changed: true}, nil
	})
}

// Description returns a human-readable description.
func (c *RestoreCommand) Description() string {
	if c.Name == "" {
		return "Restore snapshot"
	}
	return fmt.Sprintf("Restore %q", c.Name)
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{
		Name:     name,
		Commands: commands,
	}
}

// Execute runs all commands in order.
func (c *CompoundCommand) Execute(doc *document.Document) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(doc); err != nil {
			// On error, try to undo what we've done
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(doc)
			}
			return fmt.Errorf("compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Undo reverses all commands in reverse order.
func (c *CompoundCommand) Undo(doc *document.Document) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(doc); err != nil {
			return fmt.Errorf("undo compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Operations returns the operations of all commands in execution order.
func (c *CompoundCommand) Operations() OperationList {
	var ops OperationList
	for _, cmd := range c.Commands {
		ops = append(ops, cmd.Operations()...)
	}
	return ops
}

// Add adds a command to the compound command.
func (c *CompoundCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty returns true if the compound command has no commands.
func (c *CompoundCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
