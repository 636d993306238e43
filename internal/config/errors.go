package config

import (
	"errors"

	"github.com/dshills/blocknest/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidValue indicates a setting with a value outside its domain.
	ErrInvalidValue = errors.New("invalid config value")

	// ErrUnsupportedFormat indicates a configuration file extension with no
	// loader.
	ErrUnsupportedFormat = loader.ErrUnsupportedFormat
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError
