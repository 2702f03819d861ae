package oneconfig

import "log/slog"

// Option defines a functional option for configuring a Checker.
type Option func(*Checker)

// WithLogger sets a structured logger. Nil keeps logging disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxDepth bounds how deeply validated documents may nest. Values
// below one keep the default.
func WithMaxDepth(n int) Option {
	return func(c *Checker) {
		c.maxDepth = n
	}
}

// WithInterpolation resolves !ref scalars before validation, so checks
// run against the values a reference actually produces.
func WithInterpolation() Option {
	return func(c *Checker) {
		c.interpolate = true
	}
}
