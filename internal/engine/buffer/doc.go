// Package buffer provides the mutable text buffer underneath a block document.
//
// The buffer stores Unicode scalar values and addresses them by rune index,
// so every position handed to the block engine counts characters rather than
// bytes. It provides:
//
//   - Insert, Delete and Replace with explicit range validation
//   - Index queries (IndexOf, LastIndexOf) used by line-bound resolution
//   - Line queries that treat the virtual end-of-buffer sentinel as the
//     terminator of the last line
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("first item\nsecond item")
//
//	buf.Insert(5, " big")       // "first big item\nsecond item"
//	buf.Delete(0, 6)            // "big item\nsecond item"
//
//	start, end := buf.LineExtent(3) // 0, 9 (includes the '\n')
//
// Sentinel:
//
// Position Len() is the sentinel slot. It is never stored as a character but
// terminates the last line the same way '\n' terminates every other line.
// Consequently a line extent is never empty: the empty last line of a buffer
// ending in '\n' spans [Len(), Len()+1).
//
// Thread Safety:
//
// A Buffer is owned by exactly one document and is not safe for concurrent
// use. Callers that share a document across goroutines serialize access at
// the engine level.
package buffer
