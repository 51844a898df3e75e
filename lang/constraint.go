package lang

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ConstraintKind identifies the predicate applied by a [Constraint].
type ConstraintKind int

const (
	// ConstraintMultipleOf floors each sample to a multiple of its divisor.
	ConstraintMultipleOf ConstraintKind = iota

	// ConstraintNotMultipleOf rejects samples that are a multiple of any
	// divisor in its blacklist.
	ConstraintNotMultipleOf
)

// String returns the name of the constraint kind.
func (k ConstraintKind) String() string {
	switch k {
	case ConstraintMultipleOf:
		return "MultipleOf"

	case ConstraintNotMultipleOf:
		return "NotMultipleOf"

	default:
		return "Unknown"
	}
}

// Constraint is a post-sampling transform or predicate attached to a range.
type Constraint struct {
	Kind ConstraintKind
	// Exactly one of these will be set based on Kind
	Divisor   decimal.Decimal   // ConstraintMultipleOf: LCM of all listed divisors
	Blacklist []decimal.Decimal // ConstraintNotMultipleOf: each tested independently
}

// MultipleOf returns a constraint requiring a multiple of every divisor.
// The divisors are reduced to their least common multiple.
func MultipleOf(divisors ...decimal.Decimal) Constraint {
	return Constraint{
		Kind:    ConstraintMultipleOf,
		Divisor: LCM(divisors...),
	}
}

// NotMultipleOf returns a constraint rejecting multiples of any divisor.
func NotMultipleOf(divisors ...decimal.Decimal) Constraint {
	blacklist := make([]decimal.Decimal, len(divisors))
	for i, d := range divisors {
		blacklist[i] = d.Abs()
	}

	return Constraint{
		Kind:      ConstraintNotMultipleOf,
		Blacklist: blacklist,
	}
}

// Satisfied reports whether v satisfies the constraint.
func (c Constraint) Satisfied(v decimal.Decimal) bool {
	switch c.Kind {
	case ConstraintMultipleOf:
		return isMultiple(v, c.Divisor)

	case ConstraintNotMultipleOf:
		for _, d := range c.Blacklist {
			if isMultiple(v, d) {
				return false
			}
		}

		return true

	default:
		return true
	}
}

// integral reports whether every divisor of the constraint is an integer.
func (c Constraint) integral() bool {
	switch c.Kind {
	case ConstraintMultipleOf:
		return c.Divisor.IsInteger()

	case ConstraintNotMultipleOf:
		for _, d := range c.Blacklist {
			if !d.IsInteger() {
				return false
			}
		}

		return true

	default:
		return false
	}
}

// String returns the constraint clause in source form, e.g. "|*6" or
// "|!*2,3".
func (c Constraint) String() string {
	var sb strings.Builder

	sb.WriteString("|")

	switch c.Kind {
	case ConstraintMultipleOf:
		sb.WriteString("*")
		sb.WriteString(c.Divisor.String())

	case ConstraintNotMultipleOf:
		sb.WriteString("!*")

		for i, d := range c.Blacklist {
			if i > 0 {
				sb.WriteString(",")
			}

			sb.WriteString(d.String())
		}
	}

	return sb.String()
}

// isMultiple reports whether v is an exact multiple of d. Zero is a
// multiple of nothing but itself.
func isMultiple(v, d decimal.Decimal) bool {
	if d.IsZero() {
		return v.IsZero()
	}

	_, r := v.QuoRem(d, 0)

	return r.IsZero()
}

// floorMultiple returns the greatest multiple of d not exceeding v.
// d must be positive.
func floorMultiple(v, d decimal.Decimal) decimal.Decimal {
	q, r := v.QuoRem(d, 0)
	if r.IsNegative() {
		q = q.Sub(decimal.NewFromInt(1))
	}

	return q.Mul(d)
}

// GCD returns the greatest common divisor of a and b using the Euclidean
// algorithm. It is exact for any decimal operands, e.g. GCD(0.5, 0.75) is
// 0.25. The result is never negative.
func GCD(a, b decimal.Decimal) decimal.Decimal {
	a, b = a.Abs(), b.Abs()

	for !b.IsZero() {
		_, r := a.QuoRem(b, 0)
		a, b = b, r
	}

	return a
}

// LCM returns the least common multiple of values. The set is split in two
// halves and their results are combined with LCM(a,b) = a*b / GCD(a,b),
// computed as a / GCD(a,b) * b so that fractional operands stay exact.
// LCM of no values is 1; any zero value yields zero.
func LCM(values ...decimal.Decimal) decimal.Decimal {
	switch len(values) {
	case 0:
		return decimal.NewFromInt(1)

	case 1:
		return values[0].Abs()
	}

	half := len(values) / 2

	return lcm2(LCM(values[:half]...), LCM(values[half:]...))
}

func lcm2(a, b decimal.Decimal) decimal.Decimal {
	if a.IsZero() || b.IsZero() {
		return decimal.Zero
	}

	q, _ := a.Abs().QuoRem(GCD(a, b), 0)

	return q.Mul(b.Abs())
}
