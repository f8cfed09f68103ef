package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormedQuery(t *testing.T) {
	q := mustParse(t, "Contact.select(FirstName).where(Age > 18).limit(10)")
	validated, err := Validate(q)
	require.Nil(t, err)
	assert.Equal(t, q.Object, validated.Object)
	assert.Equal(t, q.Fields, validated.Fields)
}

func TestValidateReturnsFreshQuery(t *testing.T) {
	q := mustParse(t, "Contact.select(FirstName, LastName).limit(3)")
	validated, err := Validate(q)
	require.Nil(t, err)

	validated.Fields[0] = "changed"
	*validated.Limit = 99

	assert.Equal(t, "FirstName", q.Fields[0])
	assert.Equal(t, 3, *q.Limit)
}

func TestValidateLimitBoundaries(t *testing.T) {
	items := []struct {
		input string
		valid bool
	}{
		{"Account.limit(1)", true},
		{"Account.limit(2000)", true},
		{"Account.limit(0)", false},
		{"Account.limit(-1)", false},
	}

	for _, item := range items {
		q := mustParse(t, item.input)
		_, err := Validate(q)
		if item.valid {
			assert.Nil(t, err, item.input)
			continue
		}
		invalid, ok := err.(*InvalidLimitError)
		require.True(t, ok, item.input)
		assert.LessOrEqual(t, invalid.Limit, 0, item.input)
	}
}

func TestValidateOperatorLiteralCompatibility(t *testing.T) {
	items := []struct {
		input string
		valid bool
	}{
		{"Account.where(Name like '%x%')", true},
		{"Account.where(Name like 5)", false},
		{"Account.where(Name like true)", false},
		{"Account.where(Age > 18)", true},
		{"Account.where(Name > 'M')", true},
		{"Account.where(CreatedDate >= 2024-01-01)", true},
		{"Account.where(Active > true)", false},
		{"Account.where(Name > null)", false},
		{"Account.where(Name = null)", true},
		{"Account.where(Active != false)", true},
		{"Account.where(Status in ('A', 'B'))", true},
	}

	for _, item := range items {
		q := mustParse(t, item.input)
		_, err := Validate(q)
		if item.valid {
			assert.Nil(t, err, item.input)
		} else {
			_, ok := err.(*TypeMismatchError)
			assert.True(t, ok, item.input)
		}
	}
}

func TestValidateTypeMismatchDetails(t *testing.T) {
	q := mustParse(t, "Account.where(Name like 5)")
	_, err := Validate(q)

	mismatch, ok := err.(*TypeMismatchError)
	require.True(t, ok)
	assert.Equal(t, OpLike, mismatch.Op)
	assert.Equal(t, LitNumber, mismatch.Literal)
}

func TestValidateWalksNestedPredicates(t *testing.T) {
	q := mustParse(t, "Account.where(A = 1 and not (B = 2 or Name like 5))")
	_, err := Validate(q)

	_, ok := err.(*TypeMismatchError)
	assert.True(t, ok)
}

func TestValidateFieldNames(t *testing.T) {
	// the grammar only produces identifier fields, so malformed names
	// can only reach the validator through a hand-built query
	q := &Query{Object: "Account", Fields: []string{"Name", "Bad Name"}}
	_, err := Validate(q)

	invalid, ok := err.(*InvalidFieldNameError)
	require.True(t, ok)
	assert.Equal(t, "Bad Name", invalid.Name)
}

func TestValidateEmptyObjectName(t *testing.T) {
	q := &Query{}
	_, err := Validate(q)
	_, ok := err.(*InvalidFieldNameError)
	assert.True(t, ok)
}

func TestValidateRelationshipPaths(t *testing.T) {
	q := &Query{Object: "Contact", Fields: []string{"Owner.Name"}}
	_, err := Validate(q)
	assert.Nil(t, err)

	q = &Query{Object: "Contact", Fields: []string{"Owner..Name"}}
	_, err = Validate(q)
	_, ok := err.(*InvalidFieldNameError)
	assert.True(t, ok)
}
