// Package htmlio converts block-annotated documents to and from HTML.
//
// The importer walks an HTML tree and produces plain text plus block
// annotations: p, h1-h6 and pre become line blocks, blockquote becomes a
// quote, ol and ul become lists and li becomes a list item. Inline markup is
// flattened to its text. The exporter rebuilds the element tree from the
// annotation ranges and levels.
//
// Conventions shared by both directions:
//
//   - attributes keep their source order
//   - alignment is carried as a text-align declaration in the style attribute
//   - task lists are ul elements with a configurable type attribute
//   - consecutive preformat lines form one pre element joined by br
//   - imported text is NFC-normalized
//   - plain lines outside any line block are separated by br, and an empty
//     plain line is a lone br
package htmlio
