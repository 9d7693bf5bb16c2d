package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorSetContains(t *testing.T) {
	set := NewOperatorSet()

	valid := []string{
		"=", "!=", "<>", "<", ">", "<=", ">=", "<=>",
		"like", "LIKE", "Like", "not like", "NOT LIKE", " like ",
		"is", "IS NOT", "&", "~*", "similar to",
	}
	for _, op := range valid {
		assert.True(t, set.Contains(op), "expected %q to be accepted", op)
	}

	invalid := []string{"", "EQUALS", "= OR 1=1", ";", "--", "DROP", "UNION", "LIK", "in", "between", "#"}
	for _, op := range invalid {
		assert.False(t, set.Contains(op), "expected %q to be rejected", op)
	}
}

func TestOperatorSetExtras(t *testing.T) {
	set := NewOperatorSet("#", "@>", "ILIKE")

	assert.True(t, set.Contains("#"))
	assert.True(t, set.Contains("@>"))
	assert.True(t, set.Contains("ilike"))
	assert.False(t, NewOperatorSet().Contains("@>"))

	list := set.List()
	assert.Contains(t, list, "@>")
	assert.IsIncreasing(t, list)
}

func TestValidateOperator(t *testing.T) {
	set := NewOperatorSet()

	assert.NoError(t, set.ValidateOperator("="))

	err := set.ValidateOperator("===")
	var opErr *OperatorError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "===", opErr.Operator)
	assert.Equal(t, "ludb: invalid operator '===': operator not in allowed list", err.Error())
}

func TestOperatorKinds(t *testing.T) {
	for _, op := range []string{"&", "|", "^", "<<", ">>", "&~", " | "} {
		assert.True(t, IsBitwiseOperator(op), op)
	}
	for _, op := range []string{"&&", "=", "like"} {
		assert.False(t, IsBitwiseOperator(op), op)
	}

	for _, op := range []string{"like", "NOT LIKE", "ilike", "not ilike"} {
		assert.True(t, IsPatternOperator(op), op)
	}
	for _, op := range []string{"=", "is", "~"} {
		assert.False(t, IsPatternOperator(op), op)
	}

	for _, op := range []string{"=", "<>", "!=", " = "} {
		assert.True(t, IsNullSafeOperator(op), op)
	}
	for _, op := range []string{">", "is", "like", "<=>"} {
		assert.False(t, IsNullSafeOperator(op), op)
	}
}
