package lang

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// precompute replaces the dynamic constraints of a range with a table of
// every admissible value, when the range carries NotMultipleOf constraints
// and either MultipleOf constraints or integer sampling, both of its bounds
// are literals, and the table fits within the memory budget. Integer ranges
// without a MultipleOf step by one. Otherwise g is returned unchanged.
//
// A table with no admissible values is reported as [ErrUnsatisfiable].
func (p *parser) precompute(g *Gex) (*Gex, error) {
	if !p.opts.Precompute || g.Kind != KindRange {
		return g, nil
	}

	var (
		divisors  []decimal.Decimal
		blacklist []decimal.Decimal
	)

	for _, c := range g.Constraints {
		switch c.Kind {
		case ConstraintMultipleOf:
			divisors = append(divisors, c.Divisor)

		case ConstraintNotMultipleOf:
			blacklist = append(blacklist, c.Blacklist...)
		}
	}

	if len(blacklist) == 0 || (len(divisors) == 0 && g.Float) {
		return g, nil
	}

	// The table is computed against the bounds' compile-time values, so
	// dynamic bounds would be free to leave it.
	if !g.Range.Low.IsLiteral() || !g.Range.High.IsLiteral() {
		p.logger.TraceContext(p.ctx, "precompute skipped",
			slog.String("reason", "dynamic bounds"),
		)

		return g, nil
	}

	lo, hi := g.Range.Low.Value, g.Range.High.Value
	loOpen, hiOpen := g.Range.LowOpen, g.Range.HighOpen

	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
		loOpen, hiOpen = hiOpen, loOpen
	}

	step := LCM(divisors...)
	estimate := hi.Sub(lo).Div(step).Floor().Add(decimal.NewFromInt(1)).
		Mul(decimal.NewFromInt(bytesPerValue))

	if estimate.GreaterThan(decimal.NewFromInt(p.opts.MemoryBudget)) {
		p.logger.TraceContext(p.ctx, "precompute skipped",
			slog.String("reason", "memory budget"),
			slog.String("estimate", estimate.String()),
			slog.Int64("budget", p.opts.MemoryBudget),
		)

		return g, nil
	}

	values := enumerate(lo, hi, loOpen, hiOpen, step, blacklist)
	if len(values) == 0 {
		return nil, ErrUnsatisfiable.With(
			slog.String("range", g.String()),
		)
	}

	p.logger.TraceContext(p.ctx, "precompute",
		slog.String("step", step.String()),
		slog.Int("count", len(values)),
	)

	return g.withValues(values), nil
}

// enumerate returns, in increasing order, every multiple of step within the
// bounds that is not a multiple of any blacklisted divisor. Enumeration
// starts at floor(lo/step)*step.
func enumerate(
	lo, hi decimal.Decimal,
	loOpen, hiOpen bool,
	step decimal.Decimal,
	blacklist []decimal.Decimal,
) []decimal.Decimal {
	var values []decimal.Decimal

	bl := NotMultipleOf(blacklist...)

	for v := floorMultiple(lo, step); v.LessThanOrEqual(hi); v = v.Add(step) {
		if v.LessThan(lo) || (loOpen && v.Equal(lo)) || (hiOpen && v.Equal(hi)) {
			continue
		}

		if bl.Satisfied(v) {
			values = append(values, v)
		}
	}

	return values
}
