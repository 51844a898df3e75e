package rng

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNewSeeded_Deterministic(t *testing.T) {
	a, b := NewSeeded(42), NewSeeded(42)

	for range 100 {
		require.Equal(t, a.Uint64(), b.Uint64())
	}

	c := NewSeeded(43)
	assert.NotEqual(t, NewSeeded(42).Uint64(), c.Uint64())
}

func TestNew_Defaults(t *testing.T) {
	s := New(nil, -1)

	assert.Equal(t, Crypto, s.src)
	assert.Equal(t, DefaultScale, s.Scale())
	assert.True(t, s.Epsilon().Equal(dec("0.000000001")))
}

func TestSampler_Index(t *testing.T) {
	s := New(NewSeeded(1), 0)

	tests := []int{1, 2, 3, 7, 8, 1000}
	for _, n := range tests {
		for range 500 {
			i := s.Index(n)
			require.GreaterOrEqual(t, i, 0)
			require.Less(t, i, n)
		}
	}

	assert.Panics(t, func() { s.Index(0) })
}

func TestSampler_Below_Big(t *testing.T) {
	s := New(NewSeeded(2), 0)

	n, ok := new(big.Int).SetString("340282366920938463463374607431768211457", 10)
	require.True(t, ok)

	for range 200 {
		v := s.below(n)
		require.Equal(t, 1, n.Cmp(v), "value %s not below %s", v, n)
		require.GreaterOrEqual(t, v.Sign(), 0)
	}
}

func TestSampler_Integer(t *testing.T) {
	s := New(NewSeeded(3), 0)
	seen := map[string]int{}

	for range 3000 {
		v := s.Integer(dec("-2"), dec("2"))
		require.True(t, v.IsInteger())
		seen[v.String()]++
	}

	for _, k := range []string{"-2", "-1", "0", "1", "2"} {
		assert.Greater(t, seen[k], 400, "value %s under-represented", k)
	}

	assert.Len(t, seen, 5)
}

func TestSampler_IntegerRange(t *testing.T) {
	tests := []struct {
		name           string
		lo, hi         string
		loOpen, hiOpen bool
		min, max       string
		ok             bool
	}{
		{"closed", "0", "3", false, false, "0", "3", true},
		{"open both", "0", "3", true, true, "1", "2", true},
		{"open low", "0", "3", true, false, "1", "3", true},
		{"fractional", "0.5", "2.5", true, true, "1", "2", true},
		{"reversed", "3", "0", false, true, "1", "3", true},
	}

	s := New(NewSeeded(4), 0)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 200 {
				v, ok := s.IntegerRange(dec(tt.lo), dec(tt.hi), tt.loOpen, tt.hiOpen)
				require.Equal(t, tt.ok, ok)
				require.True(t, v.IsInteger())
				require.True(t, v.GreaterThanOrEqual(dec(tt.min)), "%s < %s", v, tt.min)
				require.True(t, v.LessThanOrEqual(dec(tt.max)), "%s > %s", v, tt.max)
			}
		})
	}
}

func TestSampler_IntegerRangeEmpty(t *testing.T) {
	tests := []struct {
		name           string
		lo, hi         string
		loOpen, hiOpen bool
		want           string
	}{
		{"closed", "0.5", "0.9", false, false, "0.5"},
		{"open low", "0.5", "0.9", true, false, "0.9"},
		{"open both", "0", "1", true, true, "0.5"},
		{"reversed", "0.9", "0.5", false, true, "0.9"},
		{"point", "3", "3", true, true, "3"},
	}

	s := New(NewSeeded(4), 0)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := s.IntegerRange(dec(tt.lo), dec(tt.hi), tt.loOpen, tt.hiOpen)

			assert.False(t, ok)
			assert.True(t, dec(tt.want).Equal(v), "want %s, got %s", tt.want, v)
		})
	}
}

func TestSampler_Decimal_Bounds(t *testing.T) {
	tests := []struct {
		name           string
		lo, hi         string
		loOpen, hiOpen bool
		scale          int32
	}{
		{"closed", "-10.5", "0.5", false, false, 3},
		{"open", "0", "1", true, true, 0},
		{"open tiny", "0", "0.001", true, true, 1},
		{"half open", "5", "6", false, true, 2},
		{"reversed", "6", "5", true, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(NewSeeded(5), tt.scale)
			lo, hi := dec(tt.lo), dec(tt.hi)
			loOpen, hiOpen := tt.loOpen, tt.hiOpen

			if lo.GreaterThan(hi) {
				lo, hi = hi, lo
				loOpen, hiOpen = hiOpen, loOpen
			}

			for range 1000 {
				v, ok := s.Decimal(dec(tt.lo), dec(tt.hi), tt.loOpen, tt.hiOpen)
				require.True(t, ok)

				if loOpen {
					require.True(t, v.GreaterThan(lo), "%s <= %s", v, lo)
				} else {
					require.True(t, v.GreaterThanOrEqual(lo), "%s < %s", v, lo)
				}

				if hiOpen {
					require.True(t, v.LessThan(hi), "%s >= %s", v, hi)
				} else {
					require.True(t, v.LessThanOrEqual(hi), "%s > %s", v, hi)
				}
			}
		})
	}
}

func TestSampler_Decimal_Degenerate(t *testing.T) {
	s := New(NewSeeded(6), 2)

	v, ok := s.Decimal(dec("1"), dec("1"), false, false)
	assert.True(t, ok)
	assert.True(t, v.Equal(dec("1")))

	v, ok = s.Decimal(dec("1"), dec("1"), true, false)
	assert.False(t, ok)
	assert.True(t, v.Equal(dec("1")))
}

func TestSampler_Decimal_OpenBoundaryNudge(t *testing.T) {
	// A source that always yields zero lands every draw on the low bound.
	// The range spans 8 grid points so no word is ever rejected.
	s := New(Func(func() uint64 { return 0 }), 2)

	v, ok := s.Decimal(dec("0"), dec("0.07"), true, false)
	require.True(t, ok)
	assert.True(t, v.Equal(dec("0.01")), "got %s", v)

	v, ok = s.Decimal(dec("0"), dec("0.07"), false, false)
	require.True(t, ok)
	assert.True(t, v.IsZero(), "got %s", v)
}
