package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/grand/lang"
	"github.com/ardnew/grand/log"
)

// Gen compiles an expression and prints samples drawn from it.
type Gen struct {
	Input  input  `embed:""`
	Output output `embed:""`

	Count        int     `default:"1"       help:"Number of samples to generate"                          short:"n"`
	Seed         *uint64 `                  help:"Seed a deterministic source instead of crypto/rand"     short:"s"`
	Retries      int     `default:"1000"    help:"Draws allowed per constrained range before giving up"`
	Budget       int64   `default:"1048576" help:"Memory budget in bytes for precomputed value tables"`
	Scale        int32   `default:"9"       help:"Fractional digits of continuous samples"`
	NoPrecompute bool    `                  help:"Always sample constrained ranges by rejection"`
	Float        bool    `                  help:"Print samples as float64"`
	Where        string  `                  help:"Only print samples for which this expr-lang predicate over x (value) and i (draw index) holds" placeholder:"EXPR"`
}

// sample is one generated value as printed by [Gen].
type sample struct {
	Value     any  `json:"value"     yaml:"value"`
	Satisfied bool `json:"satisfied" yaml:"satisfied"`
	Attempts  int  `json:"attempts"  yaml:"attempts"`
}

// filterEnv is the environment of a --where predicate.
type filterEnv struct {
	X         float64 `expr:"x"`
	I         int     `expr:"i"`
	Satisfied bool    `expr:"satisfied"`
}

// options returns the compile and evaluation options selected by flags.
func (g *Gen) options() []lang.Option {
	opts := []lang.Option{
		lang.WithRetries(g.Retries),
		lang.WithMemoryBudget(g.Budget),
		lang.WithScale(g.Scale),
		lang.WithPrecompute(!g.NoPrecompute),
	}

	if g.Seed != nil {
		opts = append(opts, lang.WithSeed(*g.Seed))
	}

	return opts
}

// filter compiles the --where predicate. An empty predicate accepts every
// sample.
func (g *Gen) filter() (func(int, lang.Sample) (bool, error), error) {
	if g.Where == "" {
		return func(int, lang.Sample) (bool, error) { return true, nil }, nil
	}

	program, err := expr.Compile(g.Where, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.Wrap(err).With(slog.String("where", g.Where))
	}

	var machine vm.VM

	return func(i int, s lang.Sample) (bool, error) {
		out, err := machine.Run(program, filterEnv{
			X:         s.Value.InexactFloat64(),
			I:         i,
			Satisfied: s.Satisfied,
		})
		if err != nil {
			return false, ErrFilter.Wrap(err).With(slog.String("where", g.Where))
		}

		ok, _ := out.(bool)

		return ok, nil
	}, nil
}

// Run executes the gen command.
func (g *Gen) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := g.Input.compile(ctx, g.options()...)
	if err != nil {
		return err
	}

	accept, err := g.filter()
	if err != nil {
		return err
	}

	samples, err := g.generate(ctx, prog, accept)
	if err != nil {
		return err
	}

	return g.Output.encode(ctx, stdout(ctx), samples, func(w io.Writer) error {
		for _, s := range samples {
			if _, err := fmt.Fprintln(w, s.Value); err != nil {
				return err
			}
		}

		return nil
	})
}

// generate draws samples until Count of them pass accept. Each accepted
// sample may take at most Retries draws.
func (g *Gen) generate(
	ctx context.Context,
	prog *lang.Program,
	accept func(int, lang.Sample) (bool, error),
) ([]sample, error) {
	samples := make([]sample, 0, max(g.Count, 0))
	draws := 0

	for range g.Count {
		for rejected := 0; ; rejected++ {
			if err := context.Cause(ctx); err != nil {
				return nil, err
			}

			if rejected >= max(g.Retries, 1) {
				return nil, ErrFilterExhausted.With(
					slog.String("where", g.Where),
					slog.Int("draws", draws),
				)
			}

			s := prog.Sample(ctx)
			draws++

			ok, err := accept(draws-1, s)
			if err != nil {
				return nil, err
			}

			if !ok {
				continue
			}

			if !s.Satisfied {
				log.WarnContext(ctx, "constraint not satisfied",
					slog.String("value", s.Value.String()),
					slog.Int("attempts", s.Attempts),
				)
			}

			samples = append(samples, g.record(s))

			break
		}
	}

	log.DebugContext(ctx, "generated",
		slog.Int("count", len(samples)),
		slog.Int("draws", draws),
	)

	return samples, nil
}

func (g *Gen) record(s lang.Sample) sample {
	r := sample{Satisfied: s.Satisfied, Attempts: s.Attempts}

	if g.Float {
		r.Value = s.Value.InexactFloat64()
	} else {
		r.Value = s.Value.String()
	}

	return r
}
