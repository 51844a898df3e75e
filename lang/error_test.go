package lang

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message", NewError("boom"), "boom"},
		{"wrapped", NewError("boom").Wrap(cause), "boom: disk on fire"},
		{"cause only", WrapError(cause), "disk on fire"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	derived := ErrUnsatisfiable.With(slog.String("range", "0..1"))

	assert.ErrorIs(t, derived, ErrUnsatisfiable)
	assert.NotErrorIs(t, derived, ErrZeroDivisor)

	cause := errors.New("short read")
	wrapped := ErrReadInput.Wrap(cause)

	assert.ErrorIs(t, wrapped, ErrReadInput)
	assert.ErrorIs(t, wrapped, cause)

	assert.Same(t, wrapped, WrapError(wrapped))
}

func TestError_WithIsImmutable(t *testing.T) {
	base := NewError("base").With(slog.Int("a", 1))
	derived := base.With(slog.Int("b", 2))

	assert.Len(t, base.attrs, 1)
	assert.Len(t, derived.attrs, 2)

	v := derived.LogValue()
	require.Equal(t, slog.KindGroup, v.Kind())
	assert.Len(t, v.Group(), 3)
}

func TestSyntaxError_Message(t *testing.T) {
	_, err := Compile(t.Context(), "0..10 5")
	require.Error(t, err)

	msg := err.Error()
	lines := strings.Split(msg, "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		`unexpected token at line 1, column 7: expected one of [ConstraintPipe, EOF], found Number "5"`,
		lines[0],
	)
	assert.Equal(t, "  1 | 0..10 5", lines[1])
	assert.Equal(t, "            ^", lines[2])
}

func TestSyntaxError_NoSource(t *testing.T) {
	_, err := Parse(t.Context(), Tokenize("["))
	require.Error(t, err)

	assert.Equal(t,
		"unexpected token at line 1, column 2: expected one of [RBracket], found EOF",
		err.Error(),
	)
}

func TestSyntaxError_LogValue(t *testing.T) {
	_, err := Parse(t.Context(), Tokenize("]"))

	var se *SyntaxError
	require.ErrorAs(t, err, &se)

	attrs := map[string]string{}
	for _, a := range se.LogValue().Group() {
		attrs[a.Key] = a.Value.String()
	}

	assert.Equal(t, "RBracket", attrs["found"])
	assert.Equal(t, "1", attrs["line"])
	assert.Contains(t, attrs["expected"], "Number")
}
