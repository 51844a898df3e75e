package lang

import (
	"context"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ardnew/grand/log"
	"github.com/ardnew/grand/rng"
)

// Sample is the outcome of one evaluation of an expression tree.
type Sample struct {
	// Value is the generated number.
	Value decimal.Decimal
	// Satisfied is false if any range in the tree exhausted its attempt
	// ceiling, in which case Value may violate a constraint, or if a
	// precomputed range's bounds excluded every value of its table.
	Satisfied bool
	// Attempts is the total number of range draws made.
	Attempts int
}

// evaluator holds the state of a single evaluation. Evaluations never share
// an evaluator, so a tree may be evaluated concurrently.
type evaluator struct {
	ctx       context.Context
	rng       *rng.Sampler
	retries   int
	logger    log.Logger
	attempts  int
	satisfied bool
}

func newEvaluator(ctx context.Context, o options) *evaluator {
	return &evaluator{
		ctx:       ctx,
		rng:       rng.New(o.source, o.scale),
		retries:   o.retries,
		logger:    o.logger,
		satisfied: true,
	}
}

// Generate evaluates g once with the given options and returns the value.
func (g *Gex) Generate(opts ...Option) decimal.Decimal {
	return g.Sample(context.Background(), opts...).Value
}

// Sample evaluates g once with the given options.
func (g *Gex) Sample(ctx context.Context, opts ...Option) Sample {
	e := newEvaluator(ctx, makeOptions(opts...))

	return e.sample(g)
}

func (e *evaluator) sample(g *Gex) Sample {
	v := e.eval(g)

	return Sample{
		Value:     v,
		Satisfied: e.satisfied,
		Attempts:  e.attempts,
	}
}

// eval dispatches evaluation based on the node kind.
func (e *evaluator) eval(g *Gex) decimal.Decimal {
	switch g.Kind {
	case KindLiteral:
		return g.Value

	case KindRange:
		return e.evalRange(g)

	case KindSelection:
		return e.evalSelection(g)

	case KindPrecomputed:
		return e.evalPrecomputed(g)

	default:
		return decimal.Zero
	}
}

// evalSelection generates every item and picks one uniformly.
func (e *evaluator) evalSelection(g *Gex) decimal.Decimal {
	values := make([]decimal.Decimal, len(g.Items))
	for i, item := range g.Items {
		values[i] = e.eval(item)
	}

	return values[e.rng.Index(len(values))]
}

// evalRange draws from the range and applies its constraints, starting over
// from the bounds whenever a draw is rejected. After the configured number
// of attempts the last draw is returned even if it violates a constraint.
func (e *evaluator) evalRange(g *Gex) decimal.Decimal {
	var v decimal.Decimal

	for attempt := 1; ; attempt++ {
		e.attempts++

		lo, hi := e.eval(g.Range.Low), e.eval(g.Range.High)
		b := makeBounds(lo, hi, g.Range.LowOpen, g.Range.HighOpen)

		var ok bool
		if g.Float {
			v, ok = e.rng.Decimal(b.lo, b.hi, b.loOpen, b.hiOpen)
		} else {
			v, ok = e.rng.IntegerRange(b.lo, b.hi, b.loOpen, b.hiOpen)
		}

		if ok {
			v, ok = b.constrain(v, g.Constraints)
		}

		if ok {
			return v
		}

		if attempt >= e.retries {
			e.satisfied = false
			e.logger.DebugContext(e.ctx, "sampling exhausted",
				slog.Int("attempts", attempt),
				slog.String("range", g.String()),
				slog.String("value", v.String()),
			)

			return v
		}
	}
}

// evalPrecomputed picks uniformly among the table values lying within the
// evaluated bounds.
func (e *evaluator) evalPrecomputed(g *Gex) decimal.Decimal {
	lo, hi := e.eval(g.Range.Low), e.eval(g.Range.High)
	b := makeBounds(lo, hi, g.Range.LowOpen, g.Range.HighOpen)
	values := g.Range.Values

	first := sort.Search(len(values), func(i int) bool {
		if b.loOpen {
			return values[i].GreaterThan(b.lo)
		}

		return values[i].GreaterThanOrEqual(b.lo)
	})

	last := sort.Search(len(values), func(i int) bool {
		if b.hiOpen {
			return values[i].GreaterThanOrEqual(b.hi)
		}

		return values[i].GreaterThan(b.hi)
	})

	e.attempts++

	if first >= last {
		e.satisfied = false
		e.logger.DebugContext(e.ctx, "bounds outside precomputed table",
			slog.String("low", b.lo.String()),
			slog.String("high", b.hi.String()),
		)

		first, last = 0, len(values)
	}

	return values[first+e.rng.Index(last-first)]
}

// bounds is a normalized (lo <= hi) pair of range bounds.
type bounds struct {
	lo, hi         decimal.Decimal
	loOpen, hiOpen bool
}

func makeBounds(lo, hi decimal.Decimal, loOpen, hiOpen bool) bounds {
	if lo.GreaterThan(hi) {
		return bounds{lo: hi, hi: lo, loOpen: hiOpen, hiOpen: loOpen}
	}

	return bounds{lo: lo, hi: hi, loOpen: loOpen, hiOpen: hiOpen}
}

func (b bounds) below(v decimal.Decimal) bool {
	return v.LessThan(b.lo) || (b.loOpen && v.Equal(b.lo))
}

func (b bounds) above(v decimal.Decimal) bool {
	return v.GreaterThan(b.hi) || (b.hiOpen && v.Equal(b.hi))
}

// constrain applies cs to v.
//
// MultipleOf floors v to a multiple of its divisor, which favors the low end
// of each step. If the floor falls below the range, v steps up by one
// divisor; if that leaves the range too, the draw is rejected and returned
// unchanged, so a rejected value never lies outside the bounds.
// NotMultipleOf rejects v if it is a multiple of any blacklisted divisor. It
// is tested after every MultipleOf transform, so a flooring step can never
// produce a blacklisted value.
func (b bounds) constrain(v decimal.Decimal, cs []Constraint) (decimal.Decimal, bool) {
	draw := v

	for _, c := range cs {
		if c.Kind != ConstraintMultipleOf {
			continue
		}

		v = floorMultiple(v, c.Divisor)
		if b.below(v) {
			v = v.Add(c.Divisor)
		}

		if b.above(v) {
			return draw, false
		}
	}

	for _, c := range cs {
		if c.Kind == ConstraintNotMultipleOf && !c.Satisfied(v) {
			return v, false
		}
	}

	return v, true
}
