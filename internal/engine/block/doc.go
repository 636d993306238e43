// Package block defines the vocabulary of structural block annotations:
// block kinds and types, alignment, and ordered attribute maps.
//
// Kinds fall into three classes:
//
//   - Line blocks (Paragraph, Heading, Preformat) cover exactly one line and
//     never contain other blocks.
//   - Wrappers (Quote and the three list kinds) span any number of lines and
//     merge with an adjacent identical sibling.
//   - ListItem, which may only appear directly inside a list.
//
// Attributes preserve insertion order so that an exporter can reproduce the
// attribute order it imported.
package block
