// Package engine provides the block annotation engine for Blocknest.
//
// The engine package serves as the main facade, combining the annotated
// document, undo/redo operations and named snapshots into a unified,
// thread-safe API for building rich-text editors on top of block structure.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: rune-indexed text storage with line queries
//   - block: block types, alignment and ordered attributes
//   - annotation: block annotations and the index that stores them
//   - document: the block engine (formatting, lists, edit reconciliation)
//   - history: command-based undo/redo system
//
// # Thread Safety
//
// All Engine operations are thread-safe. The engine uses a read-write mutex
// to allow concurrent reads while serializing writes. Multiple goroutines
// can safely call read operations like Text(), Annotations() or Chain()
// simultaneously.
//
// # Basic Usage
//
// Create an engine, type some text and turn it into a list:
//
//	e, _ := engine.New()
//
//	e.Insert(0, "first item\nsecond item")
//	e.Toggle(0, e.Len(), block.UnorderedList(), block.Attributes{})
//
//	for _, a := range e.Annotations() {
//		fmt.Println(a.String())
//	}
//	// unordered-list@1[0, 23)
//	// list-item@2[0, 11)
//	// list-item@2[11, 23)
//
//	// Undo the list
//	e.Undo()
//
// # Loading Documents
//
// Create an engine from existing content:
//
//	// Text with annotations, e.g. from the HTML importer
//	e, err := engine.New(
//		engine.WithContent(text),
//		engine.WithAnnotations(anns),
//	)
//
//	// From a reader (file, network, etc.)
//	f, _ := os.Open("notes.txt")
//	defer f.Close()
//	e, _ := engine.NewFromReader(f)
//
// Annotations are validated when the engine is created; an invalid set
// returns an error wrapping ErrInvariant.
//
// # Lists
//
// Indent and Outdent move list items one depth; CanIndent and CanOutdent
// report whether they would do anything:
//
//	if e.CanIndent(start, end) {
//		e.Indent(start, end)
//	}
//
// # Undo/Redo
//
// Every operation that changes the document is recorded. Operations can be
// grouped so they undo as one unit:
//
//	e.BeginUndoGroup("Convert to quote")
//	e.Remove(start, end, block.UnorderedList())
//	e.Apply(start, end, block.Quote(), block.Attributes{})
//	e.EndUndoGroup()
//
//	e.Undo() // Undoes both operations
//
// # Snapshots
//
// Named snapshots capture text and annotations and can be restored later:
//
//	id := e.CreateSnapshot("before-cleanup")
//	// ... edits ...
//	e.RestoreSnapshot(id)
//
// # Logging
//
// Pass a zap logger with WithLogger. Every entry carries the engine's
// session ID; document operations log at debug level and rolled back
// invariant violations at error level.
package engine
