package rng

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// DefaultScale is the number of fractional digits used by [Sampler.Decimal]
// when no scale is configured.
const DefaultScale int32 = 9

// Sampler maps words from a [Source] onto uniformly distributed values.
// A Sampler holds no mutable state of its own and is safe for concurrent use
// whenever its Source is.
type Sampler struct {
	src   Source
	scale int32
}

// New returns a Sampler reading from src with the given decimal scale.
// A nil src selects [Crypto]; a negative scale selects [DefaultScale].
func New(src Source, scale int32) *Sampler {
	if src == nil {
		src = Crypto
	}

	if scale < 0 {
		scale = DefaultScale
	}

	return &Sampler{src: src, scale: scale}
}

// Scale returns the minimum number of fractional digits produced by
// [Sampler.Decimal].
func (s *Sampler) Scale() int32 { return s.scale }

// Epsilon returns the smallest step between two values produced by
// [Sampler.Decimal] at the sampler's configured scale.
func (s *Sampler) Epsilon() decimal.Decimal { return decimal.New(1, -s.scale) }

// Index returns a uniformly distributed index in [0, n).
// It panics if n <= 0.
func (s *Sampler) Index(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to Index")
	}

	return int(s.uint64n(uint64(n)))
}

// uint64n returns a uniform value in [0, n) by rejecting the short tail of
// the 64-bit word space that would otherwise bias the remainder.
func (s *Sampler) uint64n(n uint64) uint64 {
	if n&(n-1) == 0 {
		return s.src.Uint64() & (n - 1)
	}

	threshold := -n % n

	for {
		v := s.src.Uint64()
		if v >= threshold {
			return v % n
		}
	}
}

// below returns a uniform value in [0, n). It panics if n <= 0.
func (s *Sampler) below(n *big.Int) *big.Int {
	if n.Sign() <= 0 {
		panic("rng: invalid argument to below")
	}

	if n.IsUint64() {
		return new(big.Int).SetUint64(s.uint64n(n.Uint64()))
	}

	maxValue := new(big.Int).Sub(n, big.NewInt(1))
	bitLen := maxValue.BitLen()
	buf := make([]byte, (bitLen+7)/8)

	// Mask of the significant bits in the most significant byte.
	topBits := uint(bitLen % 8)
	if topBits == 0 {
		topBits = 8
	}

	mask := byte(int(1<<topBits) - 1)
	v := new(big.Int)

	for {
		s.fill(buf)
		buf[0] &= mask
		v.SetBytes(buf)

		if v.Cmp(n) < 0 {
			return v
		}
	}
}

// fill overwrites buf with entropy, 8 bytes per word drawn from the source.
func (s *Sampler) fill(buf []byte) {
	for i := 0; i < len(buf); i += 8 {
		w := s.src.Uint64()
		for j := i; j < i+8 && j < len(buf); j++ {
			buf[j] = byte(w)
			w >>= 8
		}
	}
}

// Integer returns a uniformly distributed integer in [lo, hi].
// Both bounds must be integral; they are swapped if lo > hi.
func (s *Sampler) Integer(lo, hi decimal.Decimal) decimal.Decimal {
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
	}

	width := hi.Sub(lo).BigInt()
	width.Add(width, big.NewInt(1))

	return lo.Add(decimal.NewFromBigInt(s.below(width), 0))
}

// IntegerRange returns a uniformly distributed integer between lo and hi.
//
// Each open bound that is itself integral is shifted inward by one unit, so
// the result never equals an open bound. Fractional bounds are rounded inward
// to the nearest integer. If no integer lies within the range, ok is false
// and the result is a value inside it: the lower bound if closed, else the
// upper bound if closed, else their midpoint.
func (s *Sampler) IntegerRange(
	lo, hi decimal.Decimal,
	loOpen, hiOpen bool,
) (v decimal.Decimal, ok bool) {
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
		loOpen, hiOpen = hiOpen, loOpen
	}

	one := decimal.NewFromInt(1)

	first := lo.Ceil()
	if loOpen && first.Equal(lo) {
		first = first.Add(one)
	}

	last := hi.Floor()
	if hiOpen && last.Equal(hi) {
		last = last.Sub(one)
	}

	if first.GreaterThan(last) {
		switch {
		case !loOpen:
			return lo, false

		case !hiOpen:
			return hi, false

		default:
			return lo.Add(hi).Div(decimal.NewFromInt(2)), false
		}
	}

	return s.Integer(first, last), true
}

// Decimal returns a uniformly distributed decimal between lo and hi.
//
// Values are drawn from the grid of multiples of 10^-scale anchored at lo,
// where scale is the sampler's scale or the number of fractional digits in
// either bound, whichever is larger. When a drawn value lands on an open
// bound it is nudged one grid step toward the interior; the grid is refined
// beforehand until it holds enough interior points that the nudge can never
// cross the opposite bound.
//
// If lo equals hi and either side is open, the range is empty: lo is
// returned with ok set to false.
func (s *Sampler) Decimal(
	lo, hi decimal.Decimal,
	loOpen, hiOpen bool,
) (v decimal.Decimal, ok bool) {
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
		loOpen, hiOpen = hiOpen, loOpen
	}

	if lo.Equal(hi) {
		return lo, !loOpen && !hiOpen
	}

	scale := max(s.scale, fractionDigits(lo), fractionDigits(hi))

	var need int64
	if loOpen {
		need++
	}

	if hiOpen {
		need++
	}

	span := hi.Sub(lo)
	units := span.Shift(scale).BigInt()

	for units.Cmp(big.NewInt(need)) < 0 {
		scale++
		units = span.Shift(scale).BigInt()
	}

	units.Add(units, big.NewInt(1))

	v = lo.Add(decimal.NewFromBigInt(s.below(units), -scale))
	eps := decimal.New(1, -scale)

	if loOpen && v.Equal(lo) {
		v = v.Add(eps)
	}

	if hiOpen && v.Equal(hi) {
		v = v.Sub(eps)
	}

	return v, true
}

// fractionDigits returns the number of digits after the decimal point in
// the canonical representation of d.
func fractionDigits(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}

	return 0
}
