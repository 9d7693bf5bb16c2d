package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Lupennat/ludb-sub002/internal/validation"
)

// compileWheres renders a where list behind conjunction ("where" or "on").
func (g *Grammar) compileWheres(wheres []Where, conjunction string) (string, []any, error) {
	sql, bindings, err := g.compileConditions(wheres, false)
	if err != nil || sql == "" {
		return "", bindings, err
	}
	return conjunction + " " + sql, bindings, nil
}

func (g *Grammar) compileHavings(havings []Where) (string, []any, error) {
	sql, bindings, err := g.compileConditions(havings, true)
	if err != nil || sql == "" {
		return "", bindings, err
	}
	return "having " + sql, bindings, nil
}

// compileConditions joins each clause with its own connector and drops the
// connector of the first one.
func (g *Grammar) compileConditions(wheres []Where, having bool) (string, []any, error) {
	parts := make([]string, 0, len(wheres))
	var bindings []any
	for _, w := range wheres {
		sql, args, err := g.compileWhere(w, having)
		if err != nil {
			return "", nil, err
		}
		if sql == "" {
			continue
		}
		boolean := w.Boolean
		if boolean == "" {
			boolean = And
		}
		parts = append(parts, string(boolean)+" "+sql)
		bindings = append(bindings, args...)
	}
	return removeLeadingBoolean(strings.Join(parts, " ")), bindings, nil
}

func removeLeadingBoolean(sql string) string {
	lower := strings.ToLower(sql)
	switch {
	case strings.HasPrefix(lower, "and "):
		return sql[4:]
	case strings.HasPrefix(lower, "or "):
		return sql[3:]
	}
	return sql
}

// negate prefixes "not " on variants that have no native negated form.
func negate(not bool, sql string) string {
	if not {
		return "not " + sql
	}
	return sql
}

func (g *Grammar) compileWhere(w Where, having bool) (string, []any, error) {
	switch c := w.Condition.(type) {
	case WhereBasic:
		sql, args, err := g.whereBasic(c)
		return negate(w.Not, sql), args, err
	case WhereNested:
		return g.whereNested(c, w.Not, having)
	case WhereExists:
		return g.whereExists(c, w.Not)
	case WhereIn:
		return g.whereIn(c, w.Not)
	case WhereNull:
		sql, err := g.d.CompileNullCheck(g, c.Column, w.Not)
		return sql, nil, err
	case WhereBetween:
		return g.whereBetween(c, w.Not)
	case WhereColumn:
		sql, err := g.whereColumn(c)
		return negate(w.Not, sql), nil, err
	case WhereRaw:
		return negate(w.Not, c.SQL), c.Bindings, nil
	case WhereDatePart:
		sql, args, err := g.whereDatePart(c)
		return negate(w.Not, sql), args, err
	case WhereJsonContains:
		var bindings []any
		if !IsExpression(c.Value) {
			binding, err := g.d.PrepareJSONContainsBinding(c.Value)
			if err != nil {
				return "", nil, err
			}
			bindings = []any{binding}
		}
		sql, err := g.d.CompileJSONContains(g, c.Column, g.Parameter(c.Value))
		if err != nil {
			return "", nil, err
		}
		return negate(w.Not, sql), bindings, nil
	case WhereJsonContainsKey:
		sql, err := g.d.CompileJSONContainsKey(g, c.Column)
		return negate(w.Not, sql), nil, err
	case WhereJsonLength:
		if err := g.checkOperator(c.Operator, c.Value); err != nil {
			return "", nil, err
		}
		sql, err := g.d.CompileJSONLength(g, c.Column, c.Operator, g.Parameter(c.Value))
		return negate(w.Not, sql), bind(c.Value), err
	case WhereFulltext:
		sql, args, err := g.d.CompileFulltext(g, c)
		return negate(w.Not, sql), args, err
	case WhereRowValues:
		sql, args, err := g.whereRowValues(c)
		return negate(w.Not, sql), args, err
	case nil:
		return "", nil, ErrUnknownCondition
	default:
		return "", nil, fmt.Errorf("%w: %T", ErrUnknownCondition, c)
	}
}

// checkOperator applies the operator and null value rules shared by every
// comparison.
func (g *Grammar) checkOperator(operator string, value any) error {
	if value == nil && !validation.IsNullSafeOperator(operator) {
		return ErrIllegalOperator
	}
	return g.d.ValidateOperator(operator)
}

func (g *Grammar) whereBasic(c WhereBasic) (string, []any, error) {
	if err := g.checkOperator(c.Operator, c.Value); err != nil {
		return "", nil, err
	}
	if c.Value == nil {
		sql, err := g.d.CompileNullCheck(g, c.Column, strings.TrimSpace(c.Operator) != "=")
		return sql, nil, err
	}
	column, err := g.Wrap(c.Column)
	if err != nil {
		return "", nil, err
	}

	var value string
	var bindings []any
	if sub, ok := c.Value.(*Registry); ok {
		sql, args, err := g.CompileSelect(sub)
		if err != nil {
			return "", nil, err
		}
		value = "(" + sql + ")"
		bindings = args
	} else {
		value = g.Parameter(c.Value)
		bindings = bind(c.Value)
	}

	operator := strings.ReplaceAll(c.Operator, "?", "??")
	return g.d.CompileComparison(g, column, operator, value), bindings, nil
}

func (g *Grammar) whereNested(c WhereNested, not, having bool) (string, []any, error) {
	if c.Query == nil {
		return "", nil, nil
	}
	list := c.Query.Wheres
	if having {
		list = c.Query.Havings
	}
	sql, bindings, err := g.compileConditions(list, having)
	if err != nil || sql == "" {
		return "", nil, err
	}
	return negate(not, "("+sql+")"), bindings, nil
}

func (g *Grammar) whereExists(c WhereExists, not bool) (string, []any, error) {
	sql, bindings, err := g.CompileSelect(c.Query)
	if err != nil {
		return "", nil, err
	}
	return negate(not, "exists ("+sql+")"), bindings, nil
}

func (g *Grammar) whereIn(c WhereIn, not bool) (string, []any, error) {
	operator := " in "
	if not {
		operator = " not in "
	}
	if c.Query != nil {
		column, err := g.Wrap(c.Column)
		if err != nil {
			return "", nil, err
		}
		sql, bindings, err := g.CompileSelect(c.Query)
		if err != nil {
			return "", nil, err
		}
		return column + operator + "(" + sql + ")", bindings, nil
	}
	if len(c.Values) == 0 {
		if not {
			return "1 = 1", nil, nil
		}
		return "0 = 1", nil, nil
	}
	column, err := g.Wrap(c.Column)
	if err != nil {
		return "", nil, err
	}
	if c.Integer {
		ints := make([]string, len(c.Values))
		for i, v := range c.Values {
			n, err := toInt64(v)
			if err != nil {
				return "", nil, err
			}
			ints[i] = strconv.FormatInt(n, 10)
		}
		return column + operator + "(" + strings.Join(ints, ", ") + ")", nil, nil
	}
	params, bindings := g.Parameterize(c.Values)
	return column + operator + "(" + params + ")", bindings, nil
}

func (g *Grammar) whereBetween(c WhereBetween, not bool) (string, []any, error) {
	column, err := g.Wrap(c.Column)
	if err != nil {
		return "", nil, err
	}
	between := " between "
	if not {
		between = " not between "
	}
	if c.Columns {
		lower, err := g.Wrap(c.Values[0])
		if err != nil {
			return "", nil, err
		}
		upper, err := g.Wrap(c.Values[1])
		if err != nil {
			return "", nil, err
		}
		return column + between + lower + " and " + upper, nil, nil
	}
	var bindings []any
	bindings = append(bindings, bind(c.Values[0])...)
	bindings = append(bindings, bind(c.Values[1])...)
	return column + between + g.Parameter(c.Values[0]) + " and " + g.Parameter(c.Values[1]), bindings, nil
}

func (g *Grammar) whereColumn(c WhereColumn) (string, error) {
	if err := g.d.ValidateOperator(c.Operator); err != nil {
		return "", err
	}
	first, err := g.Wrap(c.First)
	if err != nil {
		return "", err
	}
	second, err := g.Wrap(c.Second)
	if err != nil {
		return "", err
	}
	return first + " " + c.Operator + " " + second, nil
}

func (g *Grammar) whereDatePart(c WhereDatePart) (string, []any, error) {
	if err := g.checkOperator(c.Operator, c.Value); err != nil {
		return "", nil, err
	}
	if c.Value == nil {
		sql, err := g.d.CompileNullCheck(g, c.Column, strings.TrimSpace(c.Operator) != "=")
		return sql, nil, err
	}
	column, err := g.Wrap(c.Column)
	if err != nil {
		return "", nil, err
	}
	return g.d.CompileDatePart(g, c.Part, column, c.Operator, g.Parameter(c.Value)), bind(c.Value), nil
}

func (g *Grammar) whereRowValues(c WhereRowValues) (string, []any, error) {
	if len(c.Columns) != len(c.Values) {
		return "", nil, ErrRowValuesArity
	}
	if err := g.d.ValidateOperator(c.Operator); err != nil {
		return "", nil, err
	}
	columns, err := g.ColumnizeNames(c.Columns)
	if err != nil {
		return "", nil, err
	}
	values, bindings := g.Parameterize(c.Values)
	return "(" + columns + ") " + c.Operator + " (" + values + ")", bindings, nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotInteger, n)
		}
		return i, nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrNotInteger, v)
}
