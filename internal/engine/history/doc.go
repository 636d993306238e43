// Package history provides undo/redo for block documents.
//
// The history system uses the Command pattern to encapsulate document
// operations, enabling them to be executed, undone, and redone. Key concepts:
//
// # Operations
//
// An Operation records one document change as the snapshots before and
// after it, plus the selection the change produced. Snapshots hold the text
// and the complete annotation set, so a structural change (a list retyped,
// a quote split) undoes exactly like a text edit.
//
// # Commands
//
// Commands implement the Command interface with Execute and Undo methods.
// Built-in commands include:
//   - InsertCommand, DeleteCommand, ReplaceCommand: text edits
//   - FormatCommand: apply, remove or toggle a block type
//   - AlignCommand: set the alignment of the selected blocks
//   - IndentCommand: indent or outdent list items
//   - CompoundCommand: group multiple commands as one undo unit
//
// Executing a command a second time (redo) restores its recorded result
// instead of running the operation again.
//
// # History Stack
//
// The History type manages undo/redo stacks and command grouping:
//
//	history := NewHistory(1000) // Max 1000 undo entries
//
//	// Execute commands
//	history.Execute(NewFormatCommand(FormatToggle, 0, 5, block.Quote(), attrs), doc)
//
//	// Undo/redo
//	history.Undo(doc)
//	history.Redo(doc)
//
// Commands that leave the document unchanged are not recorded.
//
// # Command Grouping
//
// Multiple commands can be grouped as a single undo unit:
//
//	history.BeginGroup("Convert to list")
//	// ... multiple operations ...
//	history.EndGroup()
//
// Transaction does the same for a function and reverts what it changed when
// it fails.
package history
