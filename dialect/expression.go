package dialect

import "fmt"

// Expression is a raw SQL fragment. It is written into the SQL text verbatim
// and never becomes a binding.
type Expression struct {
	value any
}

// Raw wraps value as an Expression.
func Raw(value any) Expression {
	return Expression{value: value}
}

// Value returns the wrapped value.
func (e Expression) Value() any {
	return e.value
}

// String renders the wrapped value.
func (e Expression) String() string {
	switch v := e.value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// IsExpression reports whether v is an Expression.
func IsExpression(v any) bool {
	_, ok := v.(Expression)
	return ok
}

// RawClause is a raw fragment that carries its own bindings, used by the
// selectRaw, fromRaw, groupByRaw, orderByRaw and havingRaw families.
type RawClause struct {
	SQL      string
	Bindings []any
}

// Subquery is a nested query rendered in parentheses, optionally aliased.
type Subquery struct {
	Query *Registry
	Alias string
}
