package engine

import (
	"strconv"
	"strings"
)

// Parse builds a Query from the token stream. The chain methods may
// appear in any order; each populates its own part of the query
// regardless of position, and using the same method twice is an error.
func Parse(tokens []Token) (*Query, error) {
	p := &parser{tokens: tokens}
	return p.parseQuery()
}

type parser struct {
	tokens []Token
	pos    int
	seen   map[string]bool
}

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		end := 0
		if n := len(p.tokens); n > 0 {
			last := p.tokens[n-1]
			end = last.Pos + len(last.Lit)
		}
		return Token{Kind: TokEOF, Pos: end}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.peek()
	if tok.Kind != TokEOF {
		p.pos++
	}
	return tok
}

// expect consumes the next token when it has the wanted kind and fails
// otherwise. EOF mid-construct is reported as an unterminated expression.
func (p *parser) expect(kind TokenKind, what string) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return Token{}, p.mismatch(what, tok)
	}
	return p.advance(), nil
}

func (p *parser) mismatch(expected string, found Token) error {
	if found.Kind == TokEOF {
		return &UnterminatedExpressionError{Expected: expected, Pos: found.Pos}
	}
	return &UnexpectedTokenError{Expected: expected, Found: found}
}

// parseQuery: identifier { "." method "(" args ")" }
func (p *parser) parseQuery() (*Query, error) {
	obj, err := p.expect(TokIdent, "object name")
	if err != nil {
		return nil, err
	}

	q := &Query{Object: obj.Lit, objectPos: obj.Pos, limitPos: -1}
	p.seen = make(map[string]bool)

	for p.peek().Kind == TokDot {
		p.advance()
		if err := p.parseMethod(q); err != nil {
			return nil, err
		}
	}

	if tok := p.peek(); tok.Kind != TokEOF {
		return nil, p.mismatch("'.' or end of expression", tok)
	}
	return q, nil
}

func (p *parser) parseMethod(q *Query) error {
	name, err := p.expect(TokIdent, "query method")
	if err != nil {
		return err
	}

	method := strings.ToLower(name.Lit)
	switch method {
	case "select", "where", "orderby", "limit", "open":
	default:
		return &UnexpectedTokenError{Expected: "one of select, where, orderBy, limit, open", Found: name}
	}
	if p.seen[method] {
		return &DuplicateModifierError{Name: name.Lit, Pos: name.Pos}
	}
	p.seen[method] = true

	if _, err := p.expect(TokLParen, "'('"); err != nil {
		return err
	}

	switch method {
	case "select":
		q.Fields, err = p.parseFieldList()
	case "where":
		q.Filter, err = p.parseOrExpr()
	case "orderby":
		q.OrderBy, err = p.parseOrderList()
	case "limit":
		err = p.parseLimit(q)
	case "open":
		q.OpenBrowser = true
	}
	if err != nil {
		return err
	}

	_, err = p.expect(TokRParen, "')'")
	return err
}

// parseFieldList: field { "," field }
func (p *parser) parseFieldList() ([]string, error) {
	var fields []string
	for {
		field, _, err := p.parseFieldPath()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		if p.peek().Kind != TokComma {
			return fields, nil
		}
		p.advance()
	}
}

// parseFieldPath: identifier { "." identifier }
//
// Dotted relationship paths (Owner.Name) only occur inside method
// parentheses, so the dots never collide with chain separators.
func (p *parser) parseFieldPath() (string, int, error) {
	tok, err := p.expect(TokIdent, "field name")
	if err != nil {
		return "", 0, err
	}
	path := tok.Lit
	for p.peek().Kind == TokDot {
		p.advance()
		next, err := p.expect(TokIdent, "field name")
		if err != nil {
			return "", 0, err
		}
		path += "." + next.Lit
	}
	return path, tok.Pos, nil
}

// parseOrderList: field [asc|desc] { "," field [asc|desc] }
func (p *parser) parseOrderList() ([]OrderField, error) {
	var order []OrderField
	for {
		field, _, err := p.parseFieldPath()
		if err != nil {
			return nil, err
		}
		item := OrderField{Field: field}
		switch p.peek().Kind {
		case TokAsc:
			p.advance()
		case TokDesc:
			p.advance()
			item.Descending = true
		}
		order = append(order, item)
		if p.peek().Kind != TokComma {
			return order, nil
		}
		p.advance()
	}
}

func (p *parser) parseLimit(q *Query) error {
	tok, err := p.expect(TokNumber, "limit value")
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(tok.Lit)
	if err != nil {
		// fractional values never convert; sign and range checks are
		// the validator's concern
		return &UnexpectedTokenError{Expected: "integer limit value", Found: tok}
	}
	q.Limit = &n
	q.limitPos = tok.Pos
	return nil
}

// parseOrExpr: andExpr { "or" andExpr }
//
// Chains are left-associative, so a or b or c parses as (a or b) or c.
func (p *parser) parseOrExpr() (Predicate, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokOr {
		p.advance()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
	return left, nil
}

// parseAndExpr: unaryExpr { "and" unaryExpr }
func (p *parser) parseAndExpr() (Predicate, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokAnd {
		p.advance()
		right, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, nil
}

// parseUnaryExpr: "not" unaryExpr | "(" orExpr ")" | comparison
func (p *parser) parseUnaryExpr() (Predicate, error) {
	switch p.peek().Kind {
	case TokNot:
		p.advance()
		inner, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &Not{Inner: inner}, nil
	case TokLParen:
		p.advance()
		inner, err := p.parseOrExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return p.parseComparison()
}

// parseComparison: field operator literal | field [not] in "(" literals ")"
func (p *parser) parseComparison() (Predicate, error) {
	field, pos, err := p.parseFieldPath()
	if err != nil {
		return nil, err
	}

	var op Operator
	switch tok := p.peek(); tok.Kind {
	case TokEq:
		op = OpEq
	case TokNeq:
		op = OpNe
	case TokGt:
		op = OpGt
	case TokLt:
		op = OpLt
	case TokGte:
		op = OpGte
	case TokLte:
		op = OpLte
	case TokLike:
		op = OpLike
	case TokIn:
		op = OpIn
	case TokNot:
		p.advance()
		if _, err := p.expect(TokIn, "'in'"); err != nil {
			return nil, err
		}
		value, err := p.parseListLiteral()
		if err != nil {
			return nil, err
		}
		return &Comparison{Field: field, Op: OpNotIn, Value: value, Pos: pos}, nil
	default:
		return nil, p.mismatch("comparison operator", tok)
	}
	p.advance()

	var value Literal
	if op == OpIn {
		value, err = p.parseListLiteral()
	} else {
		value, err = p.parseLiteral()
	}
	if err != nil {
		return nil, err
	}
	return &Comparison{Field: field, Op: op, Value: value, Pos: pos}, nil
}

// parseListLiteral: "(" literal { "," literal } ")"
func (p *parser) parseListLiteral() (Literal, error) {
	if _, err := p.expect(TokLParen, "'('"); err != nil {
		return Literal{}, err
	}
	var list []Literal
	for {
		elem, err := p.parseLiteral()
		if err != nil {
			return Literal{}, err
		}
		list = append(list, elem)
		if p.peek().Kind != TokComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokRParen, "')'"); err != nil {
		return Literal{}, err
	}
	return Literal{Kind: LitList, List: list}, nil
}

func (p *parser) parseLiteral() (Literal, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokString:
		p.advance()
		return Literal{Kind: LitString, Str: tok.Lit}, nil
	case TokNumber:
		p.advance()
		n, err := strconv.ParseFloat(tok.Lit, 64)
		if err != nil {
			return Literal{}, &UnexpectedTokenError{Expected: "numeric literal", Found: tok}
		}
		return Literal{Kind: LitNumber, Num: n}, nil
	case TokDate:
		p.advance()
		return Literal{Kind: LitDate, Str: tok.Lit}, nil
	case TokTrue:
		p.advance()
		return Literal{Kind: LitBool, Bool: true}, nil
	case TokFalse:
		p.advance()
		return Literal{Kind: LitBool, Bool: false}, nil
	case TokNull:
		p.advance()
		return Literal{Kind: LitNull}, nil
	}
	return Literal{}, p.mismatch("literal value", tok)
}
