// Package document implements the nested block-annotation engine.
//
// A Document is a text buffer plus a set of block annotations (paragraphs,
// headings, quotes, preformatted lines, lists and list items). Nesting is
// encoded by ranges and levels rather than by a tree: an annotation is the
// child of the deepest annotation that contains its range at a lower level.
//
// # Coordinates
//
// Positions count runes. Annotation ranges use extended coordinates in which
// slot Len() is the end-of-text sentinel terminating the last line, so every
// line, including an empty last line, has a non-empty extent. Annotations
// always start at a line start and end right after a line terminator.
//
// # Levels
//
// Top-level blocks sit at level 1 and every child sits exactly one level
// below its parent. A list at level n holds items at n+1, and a list nested
// in one of those items sits at n+2, so one list depth costs two levels.
//
// # Operations
//
// Formatting:
//
//	doc := document.NewEmpty()
//	doc.Insert(0, "first item\nsecond item")
//	doc.Apply(0, doc.Len(), block.UnorderedList(), block.Attributes{})
//
//	// unordered-list@1 [0, 23)
//	//   list-item@2    [0, 11)
//	//   list-item@2    [11, 23)
//
// Toggle removes a type when every selected line already carries it and
// applies it otherwise. Indent and Outdent move list items one depth;
// CanIndent and CanOutdent report availability without mutating.
//
// Text edits go through Insert, Delete and Replace, which reconcile the
// structure: a typed newline splits the list item or line block it lands in,
// joined lines keep the blocks of the first line, and a newline typed on an
// empty trailing line of a block leaves the block.
//
// # Failure Model
//
// Illegal ranges return ErrRangeInvalid or ErrOffsetOutOfRange and leave the
// document untouched. Unavailable structural operations return a Result with
// Changed set to false. Every mutating operation checks the invariants when
// it completes; a violation restores the previous state and returns
// ErrInvariant, or panics when the document was created with
// WithStrictInvariants.
package document
