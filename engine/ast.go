package engine

// Query is the abstract representation of one parsed chain expression.
// The parser builds it, Validate returns a checked copy and Generate
// renders it; nothing mutates a Query after Parse returns.
type Query struct {
	// Object is the target sobject name, e.g. "Account".
	Object string
	// Fields are the selected field names in declaration order. Empty
	// means the default field set (Id) at generation time.
	Fields []string
	// Filter is the root of the WHERE predicate tree, nil when the chain
	// has no where().
	Filter Predicate
	// OrderBy holds the ordering terms in declaration order.
	OrderBy []OrderField
	// Limit is the row cap, nil when the chain has no limit().
	Limit *int
	// OpenBrowser is set by open(): the caller runs the query capped at
	// one row and opens the matching record in a browser.
	OpenBrowser bool

	objectPos int
	limitPos  int
}

// OrderField is one ORDER BY term.
type OrderField struct {
	Field      string
	Descending bool
}

// Predicate is a node in the WHERE filter tree. Each node exclusively
// owns its children; trees are never shared between queries.
type Predicate interface {
	predicate()
}

// Comparison is a leaf predicate: <field> <operator> <literal>.
type Comparison struct {
	Field string
	Op    Operator
	Value Literal
	Pos   int
}

// And is the conjunction of two predicates.
type And struct {
	Left, Right Predicate
}

// Or is the disjunction of two predicates.
type Or struct {
	Left, Right Predicate
}

// Not negates its inner predicate.
type Not struct {
	Inner Predicate
}

func (*Comparison) predicate() {}
func (*And) predicate()        {}
func (*Or) predicate()         {}
func (*Not) predicate()        {}

// Operator enumerates the comparison operators of the notation.
type Operator int

const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpLt
	OpGte
	OpLte
	OpLike
	OpIn
	OpNotIn
)

// soqlOperators contains the SOQL operator text for each notation
// operator.
var soqlOperators = map[Operator]string{
	OpEq:    "=",
	OpNe:    "!=",
	OpGt:    ">",
	OpLt:    "<",
	OpGte:   ">=",
	OpLte:   "<=",
	OpLike:  "LIKE",
	OpIn:    "IN",
	OpNotIn: "NOT IN",
}

// SOQL returns the operator's SOQL spelling.
func (o Operator) SOQL() string {
	return soqlOperators[o]
}

func (o Operator) String() string {
	return o.SOQL()
}

// LiteralKind classifies a literal value.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBool
	LitNull
	LitDate
	LitList
)

var literalKindNames = map[LiteralKind]string{
	LitString: "string",
	LitNumber: "number",
	LitBool:   "boolean",
	LitNull:   "null",
	LitDate:   "date",
	LitList:   "list",
}

func (k LiteralKind) String() string {
	return literalKindNames[k]
}

// Literal is a tagged literal value. Str holds the unescaped text for
// LitString and the verbatim source text for LitDate; Num and Bool are
// populated for their kinds; List holds the elements of an IN list.
type Literal struct {
	Kind LiteralKind
	Str  string
	Num  float64
	Bool bool
	List []Literal
}
