package engine

import "fmt"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokEOF    TokenKind = iota
	TokDot              // .
	TokComma            // ,
	TokLParen           // (
	TokRParen           // )
	TokEq               // =
	TokNeq              // !=
	TokGt               // >
	TokGte              // >=
	TokLt               // <
	TokLte              // <=
	TokIdent            // identifier
	TokString           // 'string literal'
	TokNumber           // 42, -3.14
	TokDate             // 2020-01-31, 2020-01-31T10:00:00Z
	TokAnd              // and
	TokOr               // or
	TokNot              // not
	TokLike             // like
	TokIn               // in
	TokTrue             // true
	TokFalse            // false
	TokNull             // null
	TokAsc              // asc
	TokDesc             // desc
)

// Token is a single lexical token. Pos is the offset of the token's first
// character in the original input, used for error reporting.
type Token struct {
	Kind TokenKind
	Lit  string
	Pos  int
}

func (t Token) String() string {
	switch t.Kind {
	case TokEOF:
		return "end of input"
	case TokIdent, TokNumber, TokDate:
		return fmt.Sprintf("%q", t.Lit)
	case TokString:
		return fmt.Sprintf("'%s'", t.Lit)
	}
	return fmt.Sprintf("%q", t.Kind.String())
}

var kindNames = map[TokenKind]string{
	TokEOF:    "EOF",
	TokDot:    ".",
	TokComma:  ",",
	TokLParen: "(",
	TokRParen: ")",
	TokEq:     "=",
	TokNeq:    "!=",
	TokGt:     ">",
	TokGte:    ">=",
	TokLt:     "<",
	TokLte:    "<=",
	TokIdent:  "identifier",
	TokString: "string",
	TokNumber: "number",
	TokDate:   "date",
	TokAnd:    "and",
	TokOr:     "or",
	TokNot:    "not",
	TokLike:   "like",
	TokIn:     "in",
	TokTrue:   "true",
	TokFalse:  "false",
	TokNull:   "null",
	TokAsc:    "asc",
	TokDesc:   "desc",
}

func (k TokenKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// keywords maps lower-cased identifier text to its keyword kind. Keyword
// matching is case-insensitive; identifiers keep the casing they were
// written with.
var keywords = map[string]TokenKind{
	"and":   TokAnd,
	"or":    TokOr,
	"not":   TokNot,
	"like":  TokLike,
	"in":    TokIn,
	"true":  TokTrue,
	"false": TokFalse,
	"null":  TokNull,
	"asc":   TokAsc,
	"desc":  TokDesc,
}
