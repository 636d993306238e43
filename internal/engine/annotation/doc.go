// Package annotation stores the block annotations of a document.
//
// An Index is an arena keyed by stable IDs. Annotations are mutated in place
// through the pointer returned by Get or Add; the index never caches an
// ordering, so a field change is immediately visible to every query.
//
// Document order sorts by start ascending, end descending, nesting level
// ascending and finally by ID, which lists every container before the
// annotations it contains.
package annotation
