// Package rng converts raw entropy into uniformly distributed values.
//
// A [Source] is an opaque provider of uniformly random 64-bit words. The
// package ships two of them: [Crypto], backed by the operating system's
// CSPRNG, and [NewSeeded], a deterministic ChaCha8 stream that is useful for
// reproducible output and tests.
//
// A [Sampler] draws from a Source and maps the words onto a requested range
// without modulo bias:
//
//   - [Sampler.Index] picks an index in [0, n).
//   - [Sampler.Integer] picks an integer between two integral bounds.
//   - [Sampler.IntegerRange] picks an integer between arbitrary decimal
//     bounds, shifting each open bound inward by one unit.
//   - [Sampler.Decimal] picks a decimal with a fixed number of fractional
//     digits (the sampler's scale), honoring open bounds.
//
// All arithmetic is performed on [decimal.Decimal] and [math/big.Int], so the
// width of a range is limited only by memory.
package rng
