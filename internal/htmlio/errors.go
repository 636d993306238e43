package htmlio

import "errors"

// Errors returned by the importer and exporter.
var (
	// ErrParse indicates the HTML input could not be read.
	ErrParse = errors.New("html parse failed")

	// ErrUnsupportedType indicates an annotation type with no HTML element.
	ErrUnsupportedType = errors.New("unsupported block type")
)
