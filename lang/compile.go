package lang

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"

	"github.com/klauspost/readahead"
	"github.com/shopspring/decimal"
)

// Program is a compiled Grand Expression bound to its evaluation options.
// A Program is immutable and safe for concurrent use whenever its entropy
// source is; the default sources are.
type Program struct {
	source string
	tree   *Gex
	opts   options
}

// Compile tokenizes and parses source into a [Program].
//
// Options configure both compilation ([WithMemoryBudget], [WithPrecompute])
// and every later evaluation of the program ([WithRetries], [WithScale],
// [WithSource], [WithSeed], [WithLogger]).
func Compile(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	tree, err := compileTree(ctx, source, o)
	if err != nil {
		return nil, err
	}

	return &Program{source: source, tree: tree, opts: o}, nil
}

// CompileReader compiles the entire content of r.
func CompileReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return Compile(ctx, string(data), opts...)
}

// MustCompile is like [Compile] but panics if source cannot be compiled.
// It simplifies safe initialization of global variables holding programs.
func MustCompile(source string, opts ...Option) *Program {
	p, err := Compile(context.Background(), source, opts...)
	if err != nil {
		panic(`lang: Compile(` + source + `): ` + err.Error())
	}

	return p
}

// compileTree runs the lexer and parser.
func compileTree(ctx context.Context, source string, o options) (*Gex, error) {
	o.logger.TraceContext(ctx, "compile start",
		slog.Int("source_length", len(source)),
	)

	tokens := Tokenize(source)

	o.logger.TraceContext(ctx, "tokenize",
		slog.Int("token_count", len(tokens)),
	)

	tree, err := parse(ctx, tokens, o.compile, o.logger)

	// If it's a SyntaxError, attach the source input for better error messages
	se := &SyntaxError{}
	if errors.As(err, &se) {
		se.Source = source
	}

	return tree, err
}

// Generate evaluates the program once and returns the value.
//
// Generate always returns a value. If a constrained range exhausts its
// attempt ceiling, the returned value may violate that constraint; use
// [Program.Sample] to detect this.
func (p *Program) Generate() decimal.Decimal {
	return p.Sample(context.Background()).Value
}

// GenerateFloat64 is like [Program.Generate] but returns the nearest float64.
func (p *Program) GenerateFloat64() float64 {
	return p.Generate().InexactFloat64()
}

// Sample evaluates the program once.
func (p *Program) Sample(ctx context.Context) Sample {
	return newEvaluator(ctx, p.opts).sample(p.tree)
}

// Samples returns an iterator over n values, or an unbounded iterator if n
// is negative. Iteration stops early when ctx is done.
func (p *Program) Samples(ctx context.Context, n int) iter.Seq[decimal.Decimal] {
	return func(yield func(decimal.Decimal) bool) {
		for i := 0; n < 0 || i < n; i++ {
			if ctx.Err() != nil {
				return
			}

			if !yield(p.Sample(ctx).Value) {
				return
			}
		}
	}
}

// Tree returns the compiled expression tree. The tree must not be modified.
func (p *Program) Tree() *Gex { return p.tree }

// Source returns the text the program was compiled from.
func (p *Program) Source() string { return p.source }

// String returns the canonical source form of the program.
func (p *Program) String() string { return p.tree.String() }
