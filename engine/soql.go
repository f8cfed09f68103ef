package engine

import (
	"strconv"
	"strings"
)

// defaultFields is substituted when the chain has no select().
var defaultFields = []string{"Id"}

// Generate renders a validated query as SOQL text. It is a total
// function over validated queries; running it twice on the same query
// yields identical output.
func Generate(q *Query) string {
	var sb strings.Builder

	fields := q.Fields
	if len(fields) == 0 {
		fields = defaultFields
	}
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(fields, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(q.Object)

	if q.Filter != nil {
		sb.WriteString(" WHERE ")
		writePredicate(&sb, q.Filter)
	}

	// open() caps the query at one record so there is a single Id to
	// open; its own ordering and limit would be meaningless.
	if q.OpenBrowser {
		sb.WriteString(" LIMIT 1")
		return sb.String()
	}

	if len(q.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, item := range q.OrderBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(item.Field)
			if item.Descending {
				sb.WriteString(" DESC")
			} else {
				sb.WriteString(" ASC")
			}
		}
	}

	if q.Limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(*q.Limit))
	}

	return sb.String()
}

// writePredicate renders a predicate tree with minimal parentheses: a
// boolean child is wrapped only when its kind differs from the parent's,
// which is exactly where precedence would otherwise be lost. Same-kind
// chains stay flat, so a AND b AND c renders without brackets.
func writePredicate(sb *strings.Builder, node Predicate) {
	switch n := node.(type) {
	case *Comparison:
		sb.WriteString(n.Field)
		sb.WriteString(" ")
		sb.WriteString(n.Op.SOQL())
		sb.WriteString(" ")
		writeLiteral(sb, n.Value)
	case *And:
		writeChild(sb, n.Left, kindAnd)
		sb.WriteString(" AND ")
		writeChild(sb, n.Right, kindAnd)
	case *Or:
		writeChild(sb, n.Left, kindOr)
		sb.WriteString(" OR ")
		writeChild(sb, n.Right, kindOr)
	case *Not:
		sb.WriteString("NOT (")
		writePredicate(sb, n.Inner)
		sb.WriteString(")")
	}
}

type boolKind int

const (
	kindAnd boolKind = iota
	kindOr
)

func writeChild(sb *strings.Builder, child Predicate, parent boolKind) {
	wrap := false
	switch child.(type) {
	case *And:
		wrap = parent != kindAnd
	case *Or:
		wrap = parent != kindOr
	}
	if wrap {
		sb.WriteString("(")
		writePredicate(sb, child)
		sb.WriteString(")")
	} else {
		writePredicate(sb, child)
	}
}

func writeLiteral(sb *strings.Builder, lit Literal) {
	switch lit.Kind {
	case LitString:
		sb.WriteString("'")
		sb.WriteString(escapeString(lit.Str))
		sb.WriteString("'")
	case LitNumber:
		sb.WriteString(strconv.FormatFloat(lit.Num, 'f', -1, 64))
	case LitBool:
		sb.WriteString(strconv.FormatBool(lit.Bool))
	case LitNull:
		sb.WriteString("NULL")
	case LitDate:
		// date literals are unquoted in SOQL and kept verbatim
		sb.WriteString(lit.Str)
	case LitList:
		sb.WriteString("(")
		for i, elem := range lit.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeLiteral(sb, elem)
		}
		sb.WriteString(")")
	}
}

// escapeString escapes backslashes and single quotes so the literal is
// safe inside SOQL single quotes.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
