package lang

import (
	"strconv"
	"strings"
)

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	// TokenNumber is an optionally signed decimal literal: -10.5, 3, +0.25.
	TokenNumber TokenKind = iota

	// TokenRangeCC is the closed-closed range operator "..".
	TokenRangeCC

	// TokenRangeOO is the open-open range operator ",,".
	TokenRangeOO

	// TokenRangeCO is the closed-open range operator ".,".
	TokenRangeCO

	// TokenRangeOC is the open-closed range operator ",.".
	TokenRangeOC

	// TokenComma separates selection items and constraint divisors.
	TokenComma

	// TokenNot negates a constraint clause.
	TokenNot

	// TokenLBracket opens a selection.
	TokenLBracket

	// TokenRBracket closes a selection.
	TokenRBracket

	// TokenLParen opens a sub-expression.
	TokenLParen

	// TokenRParen closes a sub-expression.
	TokenRParen

	// TokenPipe introduces a constraint clause.
	TokenPipe

	// TokenMultipleOf is the "multiple of" constraint marker "*".
	TokenMultipleOf

	// TokenIgnored marks insignificant input. Ignored tokens are never
	// retained in the output of [Tokenize].
	TokenIgnored

	// TokenEOF is reported by the parser when it runs out of input. The lexer
	// never emits it.
	TokenEOF
)

var tokenKindName = [...]string{
	TokenNumber:     "Number",
	TokenRangeCC:    "RangeClosedClosed",
	TokenRangeOO:    "RangeOpenOpen",
	TokenRangeCO:    "RangeClosedOpen",
	TokenRangeOC:    "RangeOpenClosed",
	TokenComma:      "Comma",
	TokenNot:        "Not",
	TokenLBracket:   "LBracket",
	TokenRBracket:   "RBracket",
	TokenLParen:     "LParen",
	TokenRParen:     "RParen",
	TokenPipe:       "ConstraintPipe",
	TokenMultipleOf: "MultipleOfMarker",
	TokenIgnored:    "Ignored",
	TokenEOF:        "EOF",
}

// String returns the name of the token kind.
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindName) {
		return tokenKindName[k]
	}

	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText implements [encoding.TextMarshaler].
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsRange reports whether k is one of the four range operators.
func (k TokenKind) IsRange() bool {
	switch k {
	case TokenRangeCC, TokenRangeOO, TokenRangeCO, TokenRangeOC:
		return true
	default:
		return false
	}
}

// openness returns the (low, high) open flags of a range operator.
func (k TokenKind) openness() (lowOpen, highOpen bool) {
	switch k {
	case TokenRangeOO:
		return true, true
	case TokenRangeCO:
		return false, true
	case TokenRangeOC:
		return true, false
	default:
		return false, false
	}
}

// rangeOperator returns the source text of the range operator with the given
// openness.
func rangeOperator(lowOpen, highOpen bool) string {
	switch {
	case lowOpen && highOpen:
		return ",,"
	case lowOpen:
		return ",."
	case highOpen:
		return ".,"
	default:
		return ".."
	}
}

// Token is a single lexeme produced by [Tokenize]. Line and Column are
// 1-based and locate the first character of Text.
type Token struct {
	Kind   TokenKind `json:"kind"   yaml:"kind"`
	Text   string    `json:"text"   yaml:"text"`
	Line   int       `json:"line"   yaml:"line"`
	Column int       `json:"column" yaml:"column"`
}

// String returns a compact description of the token.
func (t Token) String() string {
	var sb strings.Builder

	sb.WriteString(t.Kind.String())
	sb.WriteString("(")
	sb.WriteString(strconv.Quote(t.Text))
	sb.WriteString(" @")
	sb.WriteString(strconv.Itoa(t.Line))
	sb.WriteString(":")
	sb.WriteString(strconv.Itoa(t.Column))
	sb.WriteString(")")

	return sb.String()
}
