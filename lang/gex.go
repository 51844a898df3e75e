package lang

import (
	"slices"

	"github.com/shopspring/decimal"
)

// MinBound and MaxBound replace the missing side of an open-ended range such
// as "..10", "0.." or "..".
var (
	MinBound = decimal.NewFromInt(-1 << 63)
	MaxBound = decimal.NewFromInt(1<<63 - 1)
)

// Kind indicates the kind of expression held by a [Gex].
type Kind int

const (
	// KindLiteral is a fixed number.
	KindLiteral Kind = iota

	// KindRange samples between two sub-expressions.
	KindRange

	// KindSelection picks one of several sub-expressions.
	KindSelection

	// KindPrecomputed picks from a table of values computed at compile time.
	KindPrecomputed
)

// String returns a string representation of the expression kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"

	case KindRange:
		return "Range"

	case KindSelection:
		return "Selection"

	case KindPrecomputed:
		return "PrecomputedRange"

	default:
		return "Unknown"
	}
}

// Range holds the operands of a [KindRange] or [KindPrecomputed] node.
type Range struct {
	Low      *Gex
	High     *Gex
	LowOpen  bool
	HighOpen bool
	// Values is the strictly increasing table of admissible values
	// (KindPrecomputed only).
	Values []decimal.Decimal
}

// Gex is a node of a compiled Grand Expression. Each node exclusively owns
// its children; a tree is never mutated once compiled and may be evaluated
// concurrently.
type Gex struct {
	Kind Kind
	// Min and Max are the extremes reachable by the node's sub-expressions
	// at compile time.
	Min decimal.Decimal
	Max decimal.Decimal
	// Constraints are applied in order to each sample of a range.
	Constraints []Constraint
	// Float is false when samples must be integers.
	Float bool
	// Exactly one of these will be set based on Kind
	Value decimal.Decimal // KindLiteral
	Range *Range          // KindRange, KindPrecomputed
	Items []*Gex          // KindSelection
}

// NewLiteral returns a node that always evaluates to v.
func NewLiteral(v decimal.Decimal) *Gex {
	return &Gex{
		Kind:  KindLiteral,
		Min:   v,
		Max:   v,
		Float: !v.IsInteger(),
		Value: v,
	}
}

// NewRange returns a node sampling between low and high.
func NewRange(low, high *Gex, lowOpen, highOpen bool) *Gex {
	return &Gex{
		Kind:  KindRange,
		Min:   decimal.Min(low.Min, high.Min),
		Max:   decimal.Max(low.Max, high.Max),
		Float: true,
		Range: &Range{
			Low:      low,
			High:     high,
			LowOpen:  lowOpen,
			HighOpen: highOpen,
		},
	}
}

// NewSelection returns a node picking uniformly among items. At least one
// item is required.
func NewSelection(items ...*Gex) *Gex {
	g := &Gex{
		Kind:  KindSelection,
		Min:   items[0].Min,
		Max:   items[0].Max,
		Items: items,
	}

	for _, item := range items {
		g.Min = decimal.Min(g.Min, item.Min)
		g.Max = decimal.Max(g.Max, item.Max)
		g.Float = g.Float || item.Float
	}

	return g
}

// WithConstraints returns a copy of g with cs appended to its constraints.
// The receiver is left untouched.
//
// The copy samples integers only if it carries at least one constraint and
// every divisor of every constraint is an integer.
func (g *Gex) WithConstraints(cs ...Constraint) *Gex {
	out := g.shallowCopy()
	out.Constraints = append(
		append(make([]Constraint, 0, len(g.Constraints)+len(cs)), g.Constraints...),
		cs...,
	)

	out.Float = len(out.Constraints) == 0 ||
		slices.ContainsFunc(out.Constraints, func(c Constraint) bool {
			return !c.integral()
		})

	return out
}

// withValues returns a precomputed copy of the range node g.
func (g *Gex) withValues(values []decimal.Decimal) *Gex {
	out := g.shallowCopy()
	out.Kind = KindPrecomputed
	out.Range = &Range{
		Low:      g.Range.Low,
		High:     g.Range.High,
		LowOpen:  g.Range.LowOpen,
		HighOpen: g.Range.HighOpen,
		Values:   values,
	}
	out.Min = values[0]
	out.Max = values[len(values)-1]

	return out
}

func (g *Gex) shallowCopy() *Gex {
	out := *g

	return &out
}

// IsLiteral reports whether g is a literal.
func (g *Gex) IsLiteral() bool { return g != nil && g.Kind == KindLiteral }

// Children returns the direct sub-expressions of g.
func (g *Gex) Children() []*Gex {
	switch g.Kind {
	case KindRange, KindPrecomputed:
		return []*Gex{g.Range.Low, g.Range.High}

	case KindSelection:
		return g.Items

	default:
		return nil
	}
}

// Depth returns the number of nodes on the longest path from g to a leaf.
func (g *Gex) Depth() int {
	depth := 0
	for _, c := range g.Children() {
		depth = max(depth, c.Depth())
	}

	return depth + 1
}
