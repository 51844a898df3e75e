package repl

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/grand/lang"
)

// maxPreview is the widest preview rendered before it is ellipsized.
const maxPreview = 60

// preview compiles input without sampling and describes the result: the
// canonical form of a valid expression, or the location of a syntax error.
func preview(ctx context.Context, input string, opts ...lang.Option) (string, bool) {
	prog, err := lang.CompileCached(ctx, input, opts...)
	if err == nil {
		return ellipsize("= "+prog.String(), maxPreview), true
	}

	var se *lang.SyntaxError
	if errors.As(err, &se) {
		var sb strings.Builder

		sb.WriteString("column ")
		sb.WriteString(strconv.Itoa(se.Column))
		sb.WriteString(": expected ")

		names := make([]string, len(se.Expected))
		for i, k := range se.Expected {
			names[i] = k.String()
		}

		slices.Sort(names)
		sb.WriteString(strings.Join(slices.Compact(names), " | "))

		return ellipsize(sb.String(), maxPreview), false
	}

	return ellipsize(err.Error(), maxPreview), false
}

// ellipsize truncates s to at most n runes, marking the cut with "...".
func ellipsize(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:max(n-3, 0)]) + "..."
}
