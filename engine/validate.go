package engine

import "strings"

// operatorLiterals is the operator/literal compatibility table. LIKE
// matches strings only; IN and NOT IN take a list; the ordering operators
// accept anything with a defined order in SOQL.
var operatorLiterals = map[Operator][]LiteralKind{
	OpEq:    {LitString, LitNumber, LitBool, LitNull, LitDate},
	OpNe:    {LitString, LitNumber, LitBool, LitNull, LitDate},
	OpGt:    {LitString, LitNumber, LitDate},
	OpLt:    {LitString, LitNumber, LitDate},
	OpGte:   {LitString, LitNumber, LitDate},
	OpLte:   {LitString, LitNumber, LitDate},
	OpLike:  {LitString},
	OpIn:    {LitList},
	OpNotIn: {LitList},
}

// Validate checks a parsed query for structural problems the grammar
// cannot express: malformed names, operator/literal type mismatches and
// non-positive limits. It returns a fresh Query and leaves its argument
// untouched; field existence against a live schema is deliberately not
// checked here.
func Validate(q *Query) (*Query, error) {
	if err := checkName(q.Object, q.objectPos); err != nil {
		return nil, err
	}
	for _, field := range q.Fields {
		if err := checkName(field, -1); err != nil {
			return nil, err
		}
	}
	for _, item := range q.OrderBy {
		if err := checkName(item.Field, -1); err != nil {
			return nil, err
		}
	}
	if q.Filter != nil {
		if err := checkPredicate(q.Filter); err != nil {
			return nil, err
		}
	}
	if q.Limit != nil && *q.Limit <= 0 {
		return nil, &InvalidLimitError{Limit: *q.Limit, Pos: q.limitPos}
	}

	out := *q
	out.Fields = append([]string(nil), q.Fields...)
	out.OrderBy = append([]OrderField(nil), q.OrderBy...)
	if q.Limit != nil {
		limit := *q.Limit
		out.Limit = &limit
	}
	return &out, nil
}

func checkPredicate(node Predicate) error {
	switch n := node.(type) {
	case *Comparison:
		if err := checkName(n.Field, n.Pos); err != nil {
			return err
		}
		return checkComparison(n)
	case *And:
		if err := checkPredicate(n.Left); err != nil {
			return err
		}
		return checkPredicate(n.Right)
	case *Or:
		if err := checkPredicate(n.Left); err != nil {
			return err
		}
		return checkPredicate(n.Right)
	case *Not:
		return checkPredicate(n.Inner)
	}
	return nil
}

func checkComparison(c *Comparison) error {
	allowed := operatorLiterals[c.Op]
	ok := false
	for _, kind := range allowed {
		if c.Value.Kind == kind {
			ok = true
			break
		}
	}
	if !ok {
		return &TypeMismatchError{Op: c.Op, Literal: c.Value.Kind, Pos: c.Pos}
	}
	if c.Value.Kind == LitList {
		if len(c.Value.List) == 0 {
			return &TypeMismatchError{Op: c.Op, Literal: LitList, Pos: c.Pos}
		}
		for _, elem := range c.Value.List {
			if elem.Kind == LitList {
				return &TypeMismatchError{Op: c.Op, Literal: LitList, Pos: c.Pos}
			}
		}
	}
	return nil
}

// checkName validates an object name or a dotted field path: every
// segment must be a well-formed identifier. Casing is kept exactly as
// supplied; Salesforce names are case-insensitive server side.
func checkName(name string, pos int) error {
	if name == "" {
		return &InvalidFieldNameError{Name: name, Pos: pos}
	}
	for _, segment := range strings.Split(name, ".") {
		if !isIdentifier(segment) {
			return &InvalidFieldNameError{Name: name, Pos: pos}
		}
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		if i == 0 {
			if !isIdentStart(ch) {
				return false
			}
			continue
		}
		if !isIdentCont(ch) {
			return false
		}
	}
	return true
}
