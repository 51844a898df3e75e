package lang

// eofRune is returned by lookahead past the end of input. It never continues
// a number or a range operator.
const eofRune rune = 0

// lexer holds the tokenizer state.
type lexer struct {
	input []rune
	pos   int
	line  int
	col   int
}

// Tokenize converts source text into a flat sequence of tokens.
//
// Tokenize never fails. Characters that are not part of the language are
// discarded, so free-form commentary may be interleaved with syntax:
//
//	from 0 up to 100: 0..100 even only |*2
//
// tokenizes the same as "0 100 0..100|*2". Note that digits and the
// structural symbols remain significant inside such commentary.
func Tokenize(source string) []Token {
	l := &lexer{
		input: []rune(source),
		line:  1,
		col:   1,
	}

	tokens := make([]Token, 0, len(l.input)/2)

	for !l.eof() {
		if tok := l.scan(); tok.Kind != TokenIgnored {
			tokens = append(tokens, tok)
		}
	}

	return tokens
}

// scan consumes one lexeme starting at the current position.
func (l *lexer) scan() Token {
	start := l.pos
	tok := Token{Kind: TokenIgnored, Line: l.line, Column: l.col}

	ch := l.peek()

	switch ch {
	case '!':
		tok.Kind = TokenNot
	case '[':
		tok.Kind = TokenLBracket
	case ']':
		tok.Kind = TokenRBracket
	case '(':
		tok.Kind = TokenLParen
	case ')':
		tok.Kind = TokenRParen
	case '|':
		tok.Kind = TokenPipe
	case '*':
		tok.Kind = TokenMultipleOf
	case ',':
		switch l.peekAt(1) {
		case '.':
			tok.Kind = TokenRangeOC
			l.advance()
		case ',':
			tok.Kind = TokenRangeOO
			l.advance()
		default:
			tok.Kind = TokenComma
		}
	case '.':
		switch l.peekAt(1) {
		case '.':
			tok.Kind = TokenRangeCC
			l.advance()
		case ',':
			tok.Kind = TokenRangeCO
			l.advance()
		}
	default:
		if isDigit(ch) || ((ch == '-' || ch == '+') && isDigit(l.peekAt(1))) {
			l.scanNumber()
			tok.Kind = TokenNumber
			tok.Text = string(l.input[start:l.pos])

			return tok
		}
	}

	l.advance()
	tok.Text = string(l.input[start:l.pos])

	return tok
}

// scanNumber consumes [sign] digits [ '.' digits ].
func (l *lexer) scanNumber() {
	if ch := l.peek(); ch == '-' || ch == '+' {
		l.advance()
	}

	for isDigit(l.peek()) {
		l.advance()
	}

	// A '.' continues the number only when a digit follows it; otherwise it
	// may begin a range operator (10..20, 10.,20).
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()

		for isDigit(l.peek()) {
			l.advance()
		}
	}
}

func (l *lexer) eof() bool { return l.pos >= len(l.input) }

func (l *lexer) peek() rune { return l.peekAt(0) }

func (l *lexer) peekAt(n int) rune {
	if i := l.pos + n; i < len(l.input) {
		return l.input[i]
	}

	return eofRune
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	l.pos++
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
