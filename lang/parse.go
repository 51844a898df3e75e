package lang

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ardnew/grand/log"
)

// Token kinds that may begin a term or an expression.
var (
	termKinds = []TokenKind{TokenNumber, TokenLParen, TokenLBracket}
	exprKinds = []TokenKind{
		TokenNumber, TokenLParen, TokenLBracket,
		TokenRangeCC, TokenRangeOO, TokenRangeCO, TokenRangeOC,
	}
	rangeKinds = []TokenKind{
		TokenRangeCC, TokenRangeOO, TokenRangeCO, TokenRangeOC,
	}
)

// Parse builds an expression tree from a token sequence produced by
// [Tokenize]. The whole sequence must form exactly one expression.
//
// Only the first error encountered is reported: a [*SyntaxError] (matching
// [ErrUnexpectedToken]), [ErrNoExpressions], [ErrZeroDivisor] or
// [ErrUnsatisfiable].
func Parse(ctx context.Context, tokens []Token, opts ...Option) (*Gex, error) {
	o := makeOptions(opts...)

	return parse(ctx, tokens, o.compile, o.logger)
}

func parse(
	ctx context.Context,
	tokens []Token,
	opts compileOptions,
	logger log.Logger,
) (*Gex, error) {
	end := Token{Kind: TokenEOF, Line: 1, Column: 1}
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		end.Line = last.Line
		end.Column = last.Column + len([]rune(last.Text))
	}

	p := &parser{
		ctx:    ctx,
		opts:   opts,
		logger: logger,
	}

	g, err := p.sub(tokens, end).all()
	if err != nil {
		return nil, err
	}

	logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.String("root", g.Kind.String()),
		slog.Int("depth", g.Depth()),
	)

	return g, nil
}

// parser holds the parser state for one delimited token slice. Nested
// sub-expressions and selections are parsed by sub-parsers over the slice
// between their delimiters.
type parser struct {
	ctx    context.Context
	opts   compileOptions
	logger log.Logger
	tokens []Token
	pos    int
	end    Token // EOF, or the close delimiter of a nested slice
	follow []TokenKind
}

// sub returns a parser over tokens sharing the receiver's configuration.
func (p *parser) sub(tokens []Token, end Token) *parser {
	return &parser{
		ctx:    p.ctx,
		opts:   p.opts,
		logger: p.logger,
		tokens: tokens,
		end:    end,
	}
}

// all parses a single expression that must consume every token.
func (p *parser) all() (*Gex, error) {
	if len(p.tokens) == 0 {
		return nil, ErrNoExpressions.With(
			slog.Int("line", p.end.Line),
			slog.Int("column", p.end.Column),
		)
	}

	g, err := p.expression()
	if err != nil {
		return nil, err
	}

	if !p.eof() {
		return nil, newSyntaxError(p.peek(), slices.Concat(p.follow, []TokenKind{p.end.Kind})...)
	}

	return g, nil
}

// expression parses: term (range-op term? constraint-suffix?)?
// A range operator without a leading term uses [MinBound]; one without a
// trailing term uses [MaxBound].
func (p *parser) expression() (*Gex, error) {
	var low *Gex

	if p.peek().Kind.IsRange() {
		low = NewLiteral(MinBound)
	} else {
		t, err := p.term()
		if err != nil {
			return nil, err
		}

		if !p.peek().Kind.IsRange() {
			p.follow = rangeKinds

			return t, nil
		}

		low = t
	}

	op := p.next()
	lowOpen, highOpen := op.Kind.openness()

	high := NewLiteral(MaxBound)

	if p.startsTerm() {
		t, err := p.term()
		if err != nil {
			return nil, err
		}

		high = t
	}

	g := NewRange(low, high, lowOpen, highOpen)

	if p.peek().Kind == TokenPipe {
		var err error

		g, err = p.constraints(g)
		if err != nil {
			return nil, err
		}
	}

	p.follow = []TokenKind{TokenPipe}

	return g, nil
}

// term parses: number | '(' expression ')' | '[' selection-list ']'.
func (p *parser) term() (*Gex, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenNumber:
		p.next()

		v, err := p.number(tok)
		if err != nil {
			return nil, err
		}

		return NewLiteral(v), nil

	case TokenLParen:
		inner, closer, err := p.delimited(TokenLParen, TokenRParen)
		if err != nil {
			return nil, err
		}

		return p.sub(inner, closer).all()

	case TokenLBracket:
		inner, closer, err := p.delimited(TokenLBracket, TokenRBracket)
		if err != nil {
			return nil, err
		}

		return p.sub(inner, closer).selection()

	default:
		return nil, newSyntaxError(tok, exprKinds...)
	}
}

// selection parses: expression (',' expression)* over the whole slice.
func (p *parser) selection() (*Gex, error) {
	if len(p.tokens) == 0 {
		return nil, ErrNoExpressions.With(
			slog.Int("line", p.end.Line),
			slog.Int("column", p.end.Column),
		)
	}

	var items []*Gex

	for {
		g, err := p.expression()
		if err != nil {
			return nil, err
		}

		items = append(items, g)

		if p.eof() {
			break
		}

		if p.peek().Kind != TokenComma {
			return nil, newSyntaxError(
				p.peek(),
				slices.Concat(p.follow, []TokenKind{TokenComma, p.end.Kind})...,
			)
		}

		p.next()
	}

	return NewSelection(items...), nil
}

// delimited locates the close delimiter matching the open delimiter at the
// current position with a counting scan. It returns the tokens strictly
// between the delimiters and the close delimiter itself, and advances past
// the close delimiter.
func (p *parser) delimited(open, close TokenKind) ([]Token, Token, error) {
	start := p.pos
	depth := 0

	for i := start; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case open:
			depth++

		case close:
			depth--
		}

		if depth == 0 {
			p.pos = i + 1

			return p.tokens[start+1 : i], p.tokens[i], nil
		}
	}

	return nil, Token{}, newSyntaxError(p.end, close)
}

// constraints parses: ('|' '!'? '*' number (',' number)*)+ and returns a
// copy of g carrying the parsed constraints, precomputed if possible.
func (p *parser) constraints(g *Gex) (*Gex, error) {
	var cs []Constraint

	multiple := -1

	for p.peek().Kind == TokenPipe {
		p.next()

		negate := p.peek().Kind == TokenNot
		if negate {
			p.next()
		}

		if p.peek().Kind != TokenMultipleOf {
			if negate {
				return nil, newSyntaxError(p.peek(), TokenMultipleOf)
			}

			return nil, newSyntaxError(p.peek(), TokenNot, TokenMultipleOf)
		}

		p.next()

		divisors, err := p.divisors()
		if err != nil {
			return nil, err
		}

		switch {
		case negate:
			cs = append(cs, NotMultipleOf(divisors...))

		case multiple < 0:
			multiple = len(cs)
			cs = append(cs, MultipleOf(divisors...))

		default:
			// Multiple-of clauses fold into the first by LCM.
			cs[multiple] = MultipleOf(append(divisors, cs[multiple].Divisor)...)
		}
	}

	return p.precompute(g.WithConstraints(cs...))
}

// divisors parses: number (',' number)*.
// A comma continues the list only when a number follows it.
func (p *parser) divisors() ([]decimal.Decimal, error) {
	var divisors []decimal.Decimal

	for {
		tok := p.peek()
		if tok.Kind != TokenNumber {
			return nil, newSyntaxError(tok, TokenNumber)
		}

		p.next()

		d, err := p.number(tok)
		if err != nil {
			return nil, err
		}

		if d.IsZero() {
			return nil, ErrZeroDivisor.With(
				slog.Int("line", tok.Line),
				slog.Int("column", tok.Column),
			)
		}

		divisors = append(divisors, d.Abs())

		if p.peek().Kind != TokenComma || p.peekAt(1).Kind != TokenNumber {
			return divisors, nil
		}

		p.next()
	}
}

// number decodes the text of a Number token.
func (p *parser) number(tok Token) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimPrefix(tok.Text, "+"))
	if err != nil {
		// The lexer's numeric grammar guarantees a decodable literal.
		return decimal.Zero, ErrInvalidNumber.Wrap(err).With(
			slog.String("text", tok.Text),
			slog.Int("line", tok.Line),
			slog.Int("column", tok.Column),
		)
	}

	return v, nil
}

// Helper methods

func (p *parser) eof() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() Token { return p.peekAt(0) }

func (p *parser) peekAt(n int) Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}

	return p.end
}

func (p *parser) next() Token {
	tok := p.peek()
	if !p.eof() {
		p.pos++
	}

	return tok
}

func (p *parser) startsTerm() bool {
	return slices.Contains(termKinds, p.peek().Kind)
}
