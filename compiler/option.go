package compiler

import (
	"github.com/ardnew/sdfc/lang"
	"github.com/ardnew/sdfc/log"
)

// Option configures [Compile] and [NewSession].
type Option func(*options)

type options struct {
	logger   log.Logger
	cache    *Cache
	observer func(Update)
	strict   bool
}

func applyOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the structured logger. It is also passed to the parser.
// If not provided, logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrictParams rejects duplicate parameters instead of warning.
func WithStrictParams(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithCache memoizes compile results in c.
func WithCache(c *Cache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithObserver registers fn to receive every [Update] produced by a
// [Session], including stale ones. It is ignored by [Compile].
func WithObserver(fn func(Update)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// ParseOptions returns the parser options implied by opts, for callers that
// parse source without compiling it.
func ParseOptions(opts ...Option) []lang.Option {
	o := applyOptions(opts...)

	return o.parseOptions()
}

func (o options) parseOptions() []lang.Option {
	return []lang.Option{
		lang.WithLogger(o.logger),
		lang.WithStrictParams(o.strict),
	}
}
