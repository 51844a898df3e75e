package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
)

// String returns the canonical source form of the expression. Compiling the
// result yields an equivalent tree.
func (g *Gex) String() string {
	var sb strings.Builder

	g.format(&sb)

	return sb.String()
}

func (g *Gex) format(sb *strings.Builder) {
	switch g.Kind {
	case KindLiteral:
		sb.WriteString(g.Value.String())

	case KindRange, KindPrecomputed:
		low, high := g.Range.Low, g.Range.High

		if !low.IsLiteral() || !low.Value.Equal(MinBound) {
			low.formatOperand(sb)
		}

		sb.WriteString(rangeOperator(g.Range.LowOpen, g.Range.HighOpen))

		if !high.IsLiteral() || !high.Value.Equal(MaxBound) {
			high.formatOperand(sb)
		}

		for _, c := range g.Constraints {
			sb.WriteString(c.String())
		}

	case KindSelection:
		sb.WriteString("[")

		for i, item := range g.Items {
			if i > 0 {
				sb.WriteString(", ")
			}

			// A trailing divisor list would swallow the next item.
			if len(item.Constraints) > 0 && i < len(g.Items)-1 {
				item.formatGroup(sb)
			} else {
				item.format(sb)
			}
		}

		sb.WriteString("]")
	}
}

// formatOperand writes g as the bound of a range, grouping it if needed.
func (g *Gex) formatOperand(sb *strings.Builder) {
	if g.Kind == KindRange || g.Kind == KindPrecomputed {
		g.formatGroup(sb)

		return
	}

	g.format(sb)
}

func (g *Gex) formatGroup(sb *strings.Builder) {
	sb.WriteString("(")
	g.format(sb)
	sb.WriteString(")")
}

// Format writes the tree of p to w in the given format: "text" (canonical
// source), "json" or "yaml".
func (p *Program) Format(_ context.Context, w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		_, err := fmt.Fprintln(w, p.tree.String())

		return err

	case "json":
		data, err := p.tree.MarshalJSON()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case "yaml":
		data, err := yaml.Marshal(p.tree.ToMap())
		if err != nil {
			return err
		}

		_, err = w.Write(data)

		return err

	default:
		return NewError("unsupported format").With(slog.String("format", format))
	}
}
