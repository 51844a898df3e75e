package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrUnexpectedToken = NewError("unexpected token")
	ErrNoExpressions   = NewError("no expressions or sub-expressions in program")
	ErrUnsatisfiable   = NewError("constraint can never be satisfied")
	ErrZeroDivisor     = NewError("constraint divisor is zero")
	ErrInvalidNumber   = NewError("invalid numeric literal")
	ErrReadInput       = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is a sentinel with the same message, so that
// errors derived with [Error.Wrap] or [Error.With] still match their
// sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return e.msg == t.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// SyntaxError reports a token that is not valid at its position in the
// grammar. Only the first such token is ever reported.
type SyntaxError struct {
	Expected []TokenKind
	Found    TokenKind
	Text     string // Text of the offending token, empty at end of input
	Line     int
	Column   int
	Source   string // The original source input, if known
}

func newSyntaxError(found Token, expected ...TokenKind) *SyntaxError {
	return &SyntaxError{
		Expected: expected,
		Found:    found.Kind,
		Text:     found.Text,
		Line:     found.Line,
		Column:   found.Column,
	}
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	var buf strings.Builder

	buf.WriteString("unexpected token at line ")
	buf.WriteString(strconv.Itoa(e.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Column))
	buf.WriteString(": expected one of [")
	buf.WriteString(strings.Join(e.expected(), ", "))
	buf.WriteString("], found ")
	buf.WriteString(e.Found.String())

	if e.Text != "" {
		buf.WriteString(" ")
		buf.WriteString(strconv.Quote(e.Text))
	}

	if snippet := e.snippet(); snippet != "" {
		buf.WriteString("\n")
		buf.WriteString(snippet)
	}

	return buf.String()
}

// Unwrap returns [ErrUnexpectedToken].
func (e *SyntaxError) Unwrap() error { return ErrUnexpectedToken }

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUnexpectedToken.msg),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
		slog.String("found", e.Found.String()),
		slog.String("expected", strings.Join(e.expected(), ",")),
	)
}

// expected returns the sorted names of the expected token kinds.
func (e *SyntaxError) expected() []string {
	exp := make([]string, 0, len(e.Expected))
	for _, k := range e.Expected {
		exp = append(exp, k.String())
	}

	slices.Sort(exp)

	return slices.Compact(exp)
}

// snippet formats the offending source line with a marker pointing to the
// column, or returns "" if the source is unknown.
func (e *SyntaxError) snippet() string {
	if e.Source == "" {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Line <= 0 || e.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Line))
	src.WriteString(" | ")
	src.WriteString(lines[e.Line-1])
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(strconv.Itoa(e.Line))+5)
	if e.Column > 0 {
		padding += strings.Repeat(" ", e.Column-1)
	}

	src.WriteString(padding + "^")

	return src.String()
}
