package document

import "go.uber.org/zap"

// Option configures a Document during creation.
type Option func(*Document)

// WithLogger sets the logger used for operation tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithStrictInvariants makes invariant violations panic instead of rolling
// the operation back.
func WithStrictInvariants(strict bool) Option {
	return func(d *Document) {
		d.strict = strict
	}
}
