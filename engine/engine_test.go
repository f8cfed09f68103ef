package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateShortCircuits(t *testing.T) {
	items := []struct {
		input string
		check func(error) bool
	}{
		{"Account.where(Name ~ 1)", func(err error) bool {
			_, ok := err.(*LexError)
			return ok
		}},
		{"Account.where(Name =)", func(err error) bool {
			_, ok := err.(*UnexpectedTokenError)
			return ok
		}},
		{"Account.where(Name =", func(err error) bool {
			_, ok := err.(*UnterminatedExpressionError)
			return ok
		}},
		{"Account.limit(0)", func(err error) bool {
			_, ok := err.(*InvalidLimitError)
			return ok
		}},
		{"Account.where(Name like 1)", func(err error) bool {
			_, ok := err.(*TypeMismatchError)
			return ok
		}},
	}

	for _, item := range items {
		_, err := Translate(item.input)
		require.NotNil(t, err, item.input)
		assert.True(t, item.check(err), "%s: %v", item.input, err)
	}
}

func TestTranslateConcurrent(t *testing.T) {
	// every pipeline stage is pure, so concurrent callers need no
	// coordination
	done := make(chan string)
	for i := 0; i < 8; i++ {
		go func() {
			result, err := Translate("Account.where(Name = 'Test')")
			if err != nil {
				done <- err.Error()
				return
			}
			done <- result.SOQL
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, "SELECT Id FROM Account WHERE Name = 'Test'", <-done)
	}
}

func TestFormatErrorCaret(t *testing.T) {
	input := "Account.where(Name ~ 1)"
	_, err := Translate(input)
	require.NotNil(t, err)

	lines := strings.Split(FormatError(input, err), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, input, lines[0])
	assert.Equal(t, "^", string(lines[1][19]))
	assert.Contains(t, lines[1], "unexpected character")
}

func TestFormatErrorWithoutPosition(t *testing.T) {
	err := assert.AnError
	assert.Equal(t, err.Error(), FormatError("input", err))
}
