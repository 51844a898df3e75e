package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ardnew/grand/lang"
)

// Tree prints the compiled expression tree, including any ranges replaced
// by precomputed value tables.
type Tree struct {
	Input  input  `embed:""`
	Output output `embed:""`

	Budget       int64 `default:"1048576" help:"Memory budget in bytes for precomputed value tables"`
	NoPrecompute bool  `                  help:"Keep constrained ranges dynamic"`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := t.Input.compile(ctx,
		lang.WithMemoryBudget(t.Budget),
		lang.WithPrecompute(!t.NoPrecompute),
	)
	if err != nil {
		return err
	}

	return t.Output.encode(ctx, stdout(ctx), prog.Tree(), func(w io.Writer) error {
		return outline(w, prog.Tree(), 0, t.Output.Indent)
	})
}

// outline writes one line per node of g, children indented below their
// parent.
func outline(w io.Writer, g *lang.Gex, depth, indent int) error {
	var sb strings.Builder

	sb.WriteString(strings.Repeat(" ", depth*max(indent, 1)))
	sb.WriteString(g.Kind.String())

	switch g.Kind {
	case lang.KindLiteral:
		sb.WriteString(" " + g.Value.String())

	case lang.KindRange, lang.KindPrecomputed:
		sb.WriteString(" " + interval(g))

		if g.Kind == lang.KindPrecomputed {
			fmt.Fprintf(&sb, " values=%d", len(g.Range.Values))
		}

	case lang.KindSelection:
		fmt.Fprintf(&sb, " items=%d", len(g.Items))
	}

	for _, c := range g.Constraints {
		sb.WriteString(" " + c.String())
	}

	if !g.Float && !g.IsLiteral() {
		sb.WriteString(" integer")
	}

	if _, err := fmt.Fprintln(w, sb.String()); err != nil {
		return err
	}

	for _, child := range g.Children() {
		if err := outline(w, child, depth+1, indent); err != nil {
			return err
		}
	}

	return nil
}

// interval renders the reachable extremes of a range in interval notation.
// The extremes of a precomputed table are always admissible.
func interval(g *lang.Gex) string {
	lo, hi := "[", "]"
	if g.Range.LowOpen && g.Kind == lang.KindRange {
		lo = "("
	}

	if g.Range.HighOpen && g.Kind == lang.KindRange {
		hi = ")"
	}

	return lo + g.Min.String() + ", " + g.Max.String() + hi
}
