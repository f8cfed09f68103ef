// Package engine translates the object-method query notation (for example
// Account.where(Name = 'Test')) into SOQL. The pipeline is
// Tokenize -> Parse -> Validate -> Generate; every stage is pure and a
// single call processes a single query string.
package engine

import (
	"strings"
	"unicode"
)

// lexer scans one input string. It keeps no state beyond the read
// position, so a fresh lexer is created per Tokenize call.
type lexer struct {
	input []rune
	pos   int
}

// Tokenize converts a query expression into tokens. It fails with a
// *LexError at the first unrecognized character.
func Tokenize(input string) ([]Token, error) {
	l := &lexer{input: []rune(input)}
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func (l *lexer) next() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{Kind: TokEOF, Pos: l.pos}, nil
	}

	ch := l.input[l.pos]
	pos := l.pos

	switch ch {
	case '.':
		l.pos++
		return Token{Kind: TokDot, Lit: ".", Pos: pos}, nil
	case ',':
		l.pos++
		return Token{Kind: TokComma, Lit: ",", Pos: pos}, nil
	case '(':
		l.pos++
		return Token{Kind: TokLParen, Lit: "(", Pos: pos}, nil
	case ')':
		l.pos++
		return Token{Kind: TokRParen, Lit: ")", Pos: pos}, nil
	case '=':
		l.pos++
		return Token{Kind: TokEq, Lit: "=", Pos: pos}, nil
	case '!':
		if l.peekIs('=') {
			l.pos += 2
			return Token{Kind: TokNeq, Lit: "!=", Pos: pos}, nil
		}
		return Token{}, &LexError{Pos: pos, Char: ch}
	case '>':
		if l.peekIs('=') {
			l.pos += 2
			return Token{Kind: TokGte, Lit: ">=", Pos: pos}, nil
		}
		l.pos++
		return Token{Kind: TokGt, Lit: ">", Pos: pos}, nil
	case '<':
		if l.peekIs('=') {
			l.pos += 2
			return Token{Kind: TokLte, Lit: "<=", Pos: pos}, nil
		}
		l.pos++
		return Token{Kind: TokLt, Lit: "<", Pos: pos}, nil
	case '\'', '"':
		return l.readString(pos, ch)
	case '-':
		if l.peekIsDigit() {
			l.pos++
			return l.readNumber(pos, true)
		}
		return Token{}, &LexError{Pos: pos, Char: ch}
	}

	if unicode.IsDigit(ch) {
		return l.readNumber(pos, false)
	}
	if isIdentStart(ch) {
		return l.readIdent(pos), nil
	}
	return Token{}, &LexError{Pos: pos, Char: ch}
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *lexer) peekIs(ch rune) bool {
	return l.pos+1 < len(l.input) && l.input[l.pos+1] == ch
}

func (l *lexer) peekIsDigit() bool {
	return l.pos+1 < len(l.input) && unicode.IsDigit(l.input[l.pos+1])
}

// readString scans a quoted literal. Both quote styles are accepted on
// input; generation always emits single quotes. A backslash escapes the
// next character, so \' and \\ work inside single-quoted literals.
func (l *lexer) readString(pos int, quote rune) (Token, error) {
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) {
			sb.WriteRune(l.input[l.pos+1])
			l.pos += 2
			continue
		}
		if ch == quote {
			l.pos++
			return Token{Kind: TokString, Lit: sb.String(), Pos: pos}, nil
		}
		sb.WriteRune(ch)
		l.pos++
	}
	return Token{}, &LexError{Pos: pos, Char: quote, Unterminated: true}
}

// readNumber scans a numeric literal with an optional fractional part.
// A bare date shaped like 2006-01-02 (optionally with an ISO-8601 time
// component) starts with four digits, so the scan upgrades to a date
// token when that pattern follows.
func (l *lexer) readNumber(pos int, negative bool) (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
		l.pos++
	}

	if !negative && l.pos-start == 4 && l.pos < len(l.input) && l.input[l.pos] == '-' {
		if tok, ok := l.readDate(pos, start); ok {
			return tok, nil
		}
	}

	if l.pos < len(l.input) && l.input[l.pos] == '.' && l.peekIsDigit() {
		l.pos++
		for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
			l.pos++
		}
	}

	lit := string(l.input[start:l.pos])
	if negative {
		lit = "-" + lit
	}
	return Token{Kind: TokNumber, Lit: lit, Pos: pos}, nil
}

// readDate attempts to complete YYYY-MM-DD[Thh:mm:ss[Z|±hh:mm]] from the
// position right after the year digits. It restores the scan position and
// reports false when the shape does not match.
func (l *lexer) readDate(pos, start int) (Token, bool) {
	mark := l.pos
	ok := l.expectRun('-', 2) && l.expectRun('-', 2)
	if ok && l.pos < len(l.input) && l.input[l.pos] == 'T' {
		ok = l.expectRun('T', 2) && l.expectRun(':', 2) && l.expectRun(':', 2)
		if ok && l.pos < len(l.input) {
			switch l.input[l.pos] {
			case 'Z':
				l.pos++
			case '+', '-':
				ok = l.expectRun(l.input[l.pos], 2) && l.expectRun(':', 2)
			}
		}
	}
	if !ok {
		l.pos = mark
		return Token{}, false
	}
	return Token{Kind: TokDate, Lit: string(l.input[start:l.pos]), Pos: pos}, true
}

// expectRun consumes the separator rune followed by exactly n digits.
func (l *lexer) expectRun(sep rune, n int) bool {
	if l.pos >= len(l.input) || l.input[l.pos] != sep {
		return false
	}
	l.pos++
	for i := 0; i < n; i++ {
		if l.pos >= len(l.input) || !unicode.IsDigit(l.input[l.pos]) {
			return false
		}
		l.pos++
	}
	return true
}

func (l *lexer) readIdent(pos int) Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentCont(l.input[l.pos]) {
		l.pos++
	}
	lit := string(l.input[start:l.pos])
	if kind, ok := keywords[strings.ToLower(lit)]; ok {
		return Token{Kind: kind, Lit: lit, Pos: pos}
	}
	return Token{Kind: TokIdent, Lit: lit, Pos: pos}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentCont(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}
