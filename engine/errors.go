package engine

import (
	"fmt"
	"strings"
)

// Positioner is implemented by engine errors that point at a byte offset
// in the original input. FormatError uses it to place the caret.
type Positioner interface {
	Position() int
}

// LexError reports an unrecognized or unterminated construct found while
// scanning the input.
type LexError struct {
	Pos          int
	Char         rune
	Unterminated bool
}

func (e *LexError) Error() string {
	if e.Unterminated {
		return fmt.Sprintf("unterminated string literal starting at position %d", e.Pos)
	}
	return fmt.Sprintf("unexpected character %q at position %d", e.Char, e.Pos)
}

func (e *LexError) Position() int { return e.Pos }

// UnexpectedTokenError reports a grammar mismatch: the parser needed one
// construct and found another.
type UnexpectedTokenError struct {
	Expected string
	Found    Token
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("expected %s, found %s at position %d", e.Expected, e.Found, e.Found.Pos)
}

func (e *UnexpectedTokenError) Position() int { return e.Found.Pos }

// UnterminatedExpressionError reports input that ended in the middle of a
// construct.
type UnterminatedExpressionError struct {
	Expected string
	Pos      int
}

func (e *UnterminatedExpressionError) Error() string {
	return fmt.Sprintf("unexpected end of input, expected %s", e.Expected)
}

func (e *UnterminatedExpressionError) Position() int { return e.Pos }

// DuplicateModifierError reports a chain method used more than once.
type DuplicateModifierError struct {
	Name string
	Pos  int
}

func (e *DuplicateModifierError) Error() string {
	return fmt.Sprintf("method %q appears more than once in the chain", e.Name)
}

func (e *DuplicateModifierError) Position() int { return e.Pos }

// InvalidLimitError reports a limit() value that is not a positive
// integer.
type InvalidLimitError struct {
	Limit int
	Pos   int
}

func (e *InvalidLimitError) Error() string {
	return fmt.Sprintf("limit must be a positive integer, got %d", e.Limit)
}

func (e *InvalidLimitError) Position() int { return e.Pos }

// TypeMismatchError reports an operator applied to a literal kind it does
// not accept, e.g. LIKE with a number.
type TypeMismatchError struct {
	Op      Operator
	Literal LiteralKind
	Pos     int
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("operator %s cannot be applied to a %s literal", e.Op, e.Literal)
}

func (e *TypeMismatchError) Position() int { return e.Pos }

// InvalidFieldNameError reports an object or field name that is not a
// well-formed identifier.
type InvalidFieldNameError struct {
	Name string
	Pos  int
}

func (e *InvalidFieldNameError) Error() string {
	return fmt.Sprintf("invalid field name %q", e.Name)
}

func (e *InvalidFieldNameError) Position() int { return e.Pos }

// FormatError renders an engine error for display: the original input on
// one line and a caret under the offending position on the next, followed
// by the message. Errors without a position render as the bare message.
func FormatError(input string, err error) string {
	p, ok := err.(Positioner)
	if !ok || p.Position() < 0 {
		return err.Error()
	}
	pos := p.Position()
	if pos > len(input) {
		pos = len(input)
	}
	var sb strings.Builder
	sb.WriteString(input)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", pos))
	sb.WriteString("^ ")
	sb.WriteString(err.Error())
	return sb.String()
}
