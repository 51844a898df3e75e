package lang

import (
	"github.com/ardnew/grand/log"
	"github.com/ardnew/grand/rng"
)

// DefaultMemoryBudget is the largest estimated size, in bytes, of a table
// of precomputed values. Constrained ranges whose table would exceed it keep
// their constraints dynamic and are sampled by rejection instead.
const DefaultMemoryBudget = 1 << 20

// DefaultRetries is the number of draws a rejection-sampled range may make
// before returning its last, possibly constraint-violating, value.
const DefaultRetries = 1000

// bytesPerValue is the estimated memory cost of one precomputed value.
const bytesPerValue = 16

// compileOptions affect the shape of the compiled tree.
// This type is gob-encodable for cache key hashing.
type compileOptions struct {
	MemoryBudget int64
	Precompute   bool
}

// options holds the complete configuration of a compile or evaluation.
type options struct {
	compile compileOptions
	retries int
	scale   int32
	source  rng.Source
	logger  log.Logger // structured logger (outside compileOptions, doesn't affect cache)
}

// Option configures compilation or evaluation behavior.
type Option func(*options)

// WithMemoryBudget sets the largest estimated size, in bytes, of a
// precomputed value table. A budget of zero disables precomputation.
func WithMemoryBudget(bytes int64) Option {
	return func(o *options) {
		o.compile.MemoryBudget = max(bytes, 0)
	}
}

// WithPrecompute enables or disables precomputation of constrained ranges.
func WithPrecompute(enable bool) Option {
	return func(o *options) {
		o.compile.Precompute = enable
	}
}

// WithRetries sets the rejection-sampling attempt ceiling. Values less than
// one are treated as one.
func WithRetries(n int) Option {
	return func(o *options) {
		o.retries = max(n, 1)
	}
}

// WithScale sets the number of fractional digits produced when sampling
// continuous ranges.
func WithScale(digits int32) Option {
	return func(o *options) {
		o.scale = max(digits, 0)
	}
}

// WithSource sets the entropy source. A nil source selects [rng.Crypto].
func WithSource(src rng.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithSeed selects a deterministic entropy source derived from seed.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.source = rng.NewSeeded(seed)
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// makeOptions returns the defaults overridden by opts.
func makeOptions(opts ...Option) options {
	o := options{
		compile: compileOptions{
			MemoryBudget: DefaultMemoryBudget,
			Precompute:   true,
		},
		retries: DefaultRetries,
		scale:   rng.DefaultScale,
		source:  nil,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
