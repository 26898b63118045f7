package datatable

import "math"

type config[E any] struct {
	fill    E
	fillSet bool
	logger  *Logger
}

// Option configures table construction.
//
// Today options primarily exist to avoid exploding the API surface with
// fill- and logger-specific constructor variants.
type Option[E any] func(*config[E])

// WithFill configures the fill sentinel used for un-supplied or missing
// cells. The default is NaN for float element types and the zero value for
// everything else.
func WithFill[E any](v E) Option[E] {
	return func(c *config[E]) {
		c.fill = v
		c.fillSet = true
	}
}

// WithLogger configures the logger used for debug-level operation events.
//
// If nil is passed, the no-op logger is used.
func WithLogger[E any](l *Logger) Option[E] {
	return func(c *config[E]) {
		if l == nil {
			l = NoopLogger()
		}
		c.logger = l
	}
}

func applyOptions[E any](opts []Option[E]) config[E] {
	cfg := config[E]{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.fillSet {
		cfg.fill = defaultFill[E]()
	}
	if cfg.logger == nil {
		cfg.logger = NoopLogger()
	}

	return cfg
}

// defaultFill returns the fill sentinel for the element type: NaN for the
// built-in float types, the zero value otherwise. Named float types need an
// explicit WithFill.
func defaultFill[E any]() E {
	var zero E
	switch any(zero).(type) {
	case float64:
		return any(math.NaN()).(E)
	case float32:
		return any(float32(math.NaN())).(E)
	}

	return zero
}
