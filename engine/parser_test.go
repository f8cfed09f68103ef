package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, input string) *Query {
	t.Helper()
	tokens, err := Tokenize(input)
	require.Nil(t, err)
	q, err := Parse(tokens)
	require.Nil(t, err)
	return q
}

func parseErr(t *testing.T, input string) error {
	t.Helper()
	tokens, err := Tokenize(input)
	require.Nil(t, err)
	_, err = Parse(tokens)
	require.NotNil(t, err, input)
	return err
}

func TestParseObjectOnly(t *testing.T) {
	q := mustParse(t, "Account")
	assert.Equal(t, "Account", q.Object)
	assert.Empty(t, q.Fields)
	assert.Nil(t, q.Filter)
	assert.Nil(t, q.Limit)
}

func TestParseFullChain(t *testing.T) {
	q := mustParse(t, "Contact.select(FirstName, LastName).where(Age > 18).orderBy(LastName desc).limit(10)")

	assert.Equal(t, "Contact", q.Object)
	assert.Equal(t, []string{"FirstName", "LastName"}, q.Fields)
	assert.Equal(t, []OrderField{{Field: "LastName", Descending: true}}, q.OrderBy)
	require.NotNil(t, q.Limit)
	assert.Equal(t, 10, *q.Limit)

	cmp, ok := q.Filter.(*Comparison)
	require.True(t, ok)
	assert.Equal(t, "Age", cmp.Field)
	assert.Equal(t, OpGt, cmp.Op)
	assert.Equal(t, Literal{Kind: LitNumber, Num: 18}, cmp.Value)
}

func TestParseChainOrderIndependent(t *testing.T) {
	// a where appearing after limit still populates the filter
	q := mustParse(t, "Account.limit(5).where(Name = 'x')")

	require.NotNil(t, q.Limit)
	assert.Equal(t, 5, *q.Limit)
	require.NotNil(t, q.Filter)

	cmp := q.Filter.(*Comparison)
	assert.Equal(t, "Name", cmp.Field)
	assert.Equal(t, OpEq, cmp.Op)
}

func TestParsePrecedence(t *testing.T) {
	q := mustParse(t, "Account.where(A = 1 and B = 2 or C = 3)")

	or, ok := q.Filter.(*Or)
	require.True(t, ok)

	and, ok := or.Left.(*And)
	require.True(t, ok)
	assert.Equal(t, "A", and.Left.(*Comparison).Field)
	assert.Equal(t, "B", and.Right.(*Comparison).Field)
	assert.Equal(t, "C", or.Right.(*Comparison).Field)
}

func TestParseParensOverridePrecedence(t *testing.T) {
	q := mustParse(t, "Account.where(A = 1 and (B = 2 or C = 3))")

	and, ok := q.Filter.(*And)
	require.True(t, ok)
	_, ok = and.Right.(*Or)
	assert.True(t, ok)
}

func TestParseLeftAssociativeChains(t *testing.T) {
	q := mustParse(t, "Account.where(A = 1 or B = 2 or C = 3)")

	outer, ok := q.Filter.(*Or)
	require.True(t, ok)
	inner, ok := outer.Left.(*Or)
	require.True(t, ok)
	assert.Equal(t, "A", inner.Left.(*Comparison).Field)
	assert.Equal(t, "B", inner.Right.(*Comparison).Field)
	assert.Equal(t, "C", outer.Right.(*Comparison).Field)
}

func TestParseNot(t *testing.T) {
	q := mustParse(t, "Account.where(not (A = 1 and B = 2))")

	not, ok := q.Filter.(*Not)
	require.True(t, ok)
	_, ok = not.Inner.(*And)
	assert.True(t, ok)
}

func TestParseInList(t *testing.T) {
	q := mustParse(t, "Account.where(Status in ('Open', 'Closed'))")

	cmp := q.Filter.(*Comparison)
	assert.Equal(t, OpIn, cmp.Op)
	require.Equal(t, LitList, cmp.Value.Kind)
	require.Len(t, cmp.Value.List, 2)
	assert.Equal(t, "Open", cmp.Value.List[0].Str)
	assert.Equal(t, "Closed", cmp.Value.List[1].Str)
}

func TestParseNotIn(t *testing.T) {
	q := mustParse(t, "Account.where(Status not in ('Closed'))")

	cmp := q.Filter.(*Comparison)
	assert.Equal(t, OpNotIn, cmp.Op)
	assert.Equal(t, LitList, cmp.Value.Kind)
}

func TestParseRelationshipFields(t *testing.T) {
	q := mustParse(t, "Contact.select(Owner.Name).where(Account.Industry = 'Tech')")

	assert.Equal(t, []string{"Owner.Name"}, q.Fields)
	assert.Equal(t, "Account.Industry", q.Filter.(*Comparison).Field)
}

func TestParseOrderByVariants(t *testing.T) {
	// both spellings of the method are accepted
	for _, input := range []string{
		"Account.orderBy(Name, CreatedDate desc)",
		"Account.orderby(Name, CreatedDate DESC)",
	} {
		q := mustParse(t, input)
		assert.Equal(t, []OrderField{
			{Field: "Name"},
			{Field: "CreatedDate", Descending: true},
		}, q.OrderBy, input)
	}
}

func TestParseOpen(t *testing.T) {
	q := mustParse(t, "Account.where(Name = 'Test').open()")
	assert.True(t, q.OpenBrowser)
}

func TestParseLiterals(t *testing.T) {
	items := []struct {
		input string
		value Literal
	}{
		{"Account.where(A = 'x')", Literal{Kind: LitString, Str: "x"}},
		{"Account.where(A = 1.5)", Literal{Kind: LitNumber, Num: 1.5}},
		{"Account.where(A = -1)", Literal{Kind: LitNumber, Num: -1}},
		{"Account.where(A = true)", Literal{Kind: LitBool, Bool: true}},
		{"Account.where(A = false)", Literal{Kind: LitBool, Bool: false}},
		{"Account.where(A = null)", Literal{Kind: LitNull}},
		{"Account.where(A = 2024-01-31)", Literal{Kind: LitDate, Str: "2024-01-31"}},
	}

	for _, item := range items {
		q := mustParse(t, item.input)
		assert.Equal(t, item.value, q.Filter.(*Comparison).Value, item.input)
	}
}

func TestParseDuplicateModifier(t *testing.T) {
	items := []string{
		"Account.where(A = 1).where(B = 2)",
		"Account.limit(1).limit(2)",
		"Account.orderBy(A).orderBy(B)",
		"Account.select(A).select(B)",
	}

	for _, input := range items {
		err := parseErr(t, input)
		_, ok := err.(*DuplicateModifierError)
		assert.True(t, ok, input)
	}
}

func TestParseUnexpectedToken(t *testing.T) {
	items := []string{
		"Account.fetch(A)",
		"Account.where(A = 1) trailing",
		"Account.where(= 1)",
		"Account.where(A 1)",
		"Account.limit('ten')",
		"Account.limit(1.5)",
		".where(A = 1)",
	}

	for _, input := range items {
		err := parseErr(t, input)
		_, ok := err.(*UnexpectedTokenError)
		assert.True(t, ok, input)
	}
}

func TestParseUnterminated(t *testing.T) {
	items := []string{
		"",
		"Account.",
		"Account.where(",
		"Account.where(A = ",
		"Account.where(A = 1",
		"Account.select(A,",
	}

	for _, input := range items {
		err := parseErr(t, input)
		_, ok := err.(*UnterminatedExpressionError)
		assert.True(t, ok, input)
	}
}

func TestParseErrorPositions(t *testing.T) {
	err := parseErr(t, "Account.where(A = 1).where(B = 2)")
	dup, ok := err.(*DuplicateModifierError)
	require.True(t, ok)
	assert.Equal(t, 21, dup.Pos)
}
