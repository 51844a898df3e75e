package lang

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MarshalJSON implements json.Marshaler for Gex.
func (g *Gex) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.ToMap())
}

// MarshalYAML implements yaml.InterfaceMarshaler for Gex.
func (g *Gex) MarshalYAML() (any, error) {
	return g.ToMap(), nil
}

// ToMap converts the tree to a native Go map structure. Decimal values are
// rendered as strings to preserve their precision.
func (g *Gex) ToMap() map[string]any {
	m := map[string]any{
		"kind":  g.Kind.String(),
		"min":   g.Min.String(),
		"max":   g.Max.String(),
		"float": g.Float,
	}

	switch g.Kind {
	case KindLiteral:
		m["value"] = g.Value.String()

	case KindRange, KindPrecomputed:
		m["low"] = g.Range.Low.ToMap()
		m["high"] = g.Range.High.ToMap()
		m["low_open"] = g.Range.LowOpen
		m["high_open"] = g.Range.HighOpen

		if g.Kind == KindPrecomputed {
			m["values"] = decimalStrings(g.Range.Values)
		}

	case KindSelection:
		items := make([]any, len(g.Items))
		for i, item := range g.Items {
			items[i] = item.ToMap()
		}

		m["items"] = items
	}

	if len(g.Constraints) > 0 {
		cs := make([]any, len(g.Constraints))
		for i, c := range g.Constraints {
			cs[i] = c.ToMap()
		}

		m["constraints"] = cs
	}

	return m
}

// ToMap converts the constraint to a native Go map structure.
func (c Constraint) ToMap() map[string]any {
	m := map[string]any{"kind": c.Kind.String()}

	switch c.Kind {
	case ConstraintMultipleOf:
		m["divisor"] = c.Divisor.String()

	case ConstraintNotMultipleOf:
		m["blacklist"] = decimalStrings(c.Blacklist)
	}

	return m
}

func decimalStrings(values []decimal.Decimal) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}

	return out
}
