// Package validation holds the identifier and operator checks shared by the
// query and schema compilers.
package validation

import (
	"sort"
	"strings"
)

// baseOperators are accepted by every dialect.
var baseOperators = []string{
	"=", "<", ">", "<=", ">=", "<>", "!=", "<=>",
	"like", "like binary", "not like", "ilike",
	"&", "|", "^", "<<", ">>", "&~",
	"is", "is not",
	"rlike", "not rlike", "regexp", "not regexp",
	"~", "~*", "!~", "!~*", "similar to",
	"not similar to", "not ilike", "~~*", "!~~*",
}

// bitwiseOperators are rendered with a boolean cast by dialects that need one.
var bitwiseOperators = map[string]bool{
	"&": true, "|": true, "^": true, "<<": true, ">>": true, "&~": true,
}

// OperatorSet is the list of comparison operators a dialect accepts.
// Lookups are case-insensitive.
type OperatorSet struct {
	ops map[string]bool
}

// NewOperatorSet returns the base operators plus the dialect extras.
func NewOperatorSet(extra ...string) OperatorSet {
	ops := make(map[string]bool, len(baseOperators)+len(extra))
	for _, op := range baseOperators {
		ops[op] = true
	}
	for _, op := range extra {
		ops[strings.ToLower(op)] = true
	}
	return OperatorSet{ops: ops}
}

// Contains reports whether op belongs to the set.
func (s OperatorSet) Contains(op string) bool {
	return s.ops[strings.ToLower(strings.TrimSpace(op))]
}

// List returns the operators in a stable order.
func (s OperatorSet) List() []string {
	out := make([]string, 0, len(s.ops))
	for op := range s.ops {
		out = append(out, op)
	}
	sort.Strings(out)
	return out
}

// ValidateOperator fails when op is not part of the set.
func (s OperatorSet) ValidateOperator(op string) error {
	if !s.Contains(op) {
		return &OperatorError{Operator: op, Reason: "operator not in allowed list"}
	}
	return nil
}

// IsBitwiseOperator reports whether op is a bitwise operator.
func IsBitwiseOperator(op string) bool {
	return bitwiseOperators[strings.TrimSpace(op)]
}

// IsPatternOperator reports whether op is one of the like family.
func IsPatternOperator(op string) bool {
	return strings.Contains(strings.ToLower(op), "like")
}

// IsNullSafeOperator reports whether a nil value may be compared with op,
// meaning the comparison can be rewritten as an is null / is not null check.
func IsNullSafeOperator(op string) bool {
	switch strings.TrimSpace(op) {
	case "=", "<>", "!=":
		return true
	}
	return false
}

// OperatorError reports an operator outside the dialect's set.
type OperatorError struct {
	Operator string
	Reason   string
}

func (e *OperatorError) Error() string {
	return "ludb: invalid operator '" + e.Operator + "': " + e.Reason
}
