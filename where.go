package ludb

import (
	"fmt"
	"time"

	"github.com/Lupennat/ludb-sub002/dialect"
)

func (b *Builder) appendWhere(boolean dialect.Boolean, not bool, c dialect.Condition) *Builder {
	b.reg.Wheres = append(b.reg.Wheres, dialect.Where{Boolean: boolean, Not: not, Condition: c})
	return b
}

func (b *Builder) basic(boolean dialect.Boolean, not bool, column any, operator string, value any) *Builder {
	if !b.checkOperator(operator, value) {
		return b
	}
	if q, ok := value.(*Builder); ok {
		value = b.sub(q)
	}
	return b.appendWhere(boolean, not, dialect.WhereBasic{Column: column, Operator: operator, Value: value})
}

// Where adds "column operator value" joined with and. A nil value with "="
// or "<>" becomes a null check; a *Builder value is compiled as a
// sub-select.
func (b *Builder) Where(column any, operator string, value any) *Builder {
	return b.basic(dialect.And, false, column, operator, value)
}

func (b *Builder) OrWhere(column any, operator string, value any) *Builder {
	return b.basic(dialect.Or, false, column, operator, value)
}

// WhereNot negates a basic comparison.
func (b *Builder) WhereNot(column any, operator string, value any) *Builder {
	return b.basic(dialect.And, true, column, operator, value)
}

func (b *Builder) OrWhereNot(column any, operator string, value any) *Builder {
	return b.basic(dialect.Or, true, column, operator, value)
}

// WhereMap adds one equality per entry, in sorted column order.
func (b *Builder) WhereMap(values map[string]any) *Builder {
	for _, a := range dialect.SortedAssignments(values) {
		b.Where(a.Column, "=", a.Value)
	}
	return b
}

// WhereLike adds a like comparison.
func (b *Builder) WhereLike(column any, pattern string) *Builder {
	return b.Where(column, "like", pattern)
}

func (b *Builder) OrWhereLike(column any, pattern string) *Builder {
	return b.OrWhere(column, "like", pattern)
}

func (b *Builder) WhereNotLike(column any, pattern string) *Builder {
	return b.Where(column, "not like", pattern)
}

// ----------------------------------------------------------------------------
// Nested groups and sub-selects
// ----------------------------------------------------------------------------

func (b *Builder) nested(boolean dialect.Boolean, not bool, fn func(*Builder)) *Builder {
	q := b.newQuery()
	q.reg.From = b.reg.From
	fn(q)
	return b.appendWhere(boolean, not, dialect.WhereNested{Query: b.sub(q)})
}

// WhereNested groups the conditions added by fn in parentheses. An empty
// group is dropped.
//
//	q.Where("active", "=", true).WhereNested(func(q *ludb.Builder) {
//	    q.Where("role", "=", "admin").OrWhere("role", "=", "owner")
//	})
func (b *Builder) WhereNested(fn func(*Builder)) *Builder {
	return b.nested(dialect.And, false, fn)
}

func (b *Builder) OrWhereNested(fn func(*Builder)) *Builder {
	return b.nested(dialect.Or, false, fn)
}

// WhereNotNested negates a nested group.
func (b *Builder) WhereNotNested(fn func(*Builder)) *Builder {
	return b.nested(dialect.And, true, fn)
}

func (b *Builder) OrWhereNotNested(fn func(*Builder)) *Builder {
	return b.nested(dialect.Or, true, fn)
}

func (b *Builder) exists(boolean dialect.Boolean, not bool, fn func(*Builder)) *Builder {
	q := b.newQuery()
	fn(q)
	return b.appendWhere(boolean, not, dialect.WhereExists{Query: b.sub(q)})
}

// WhereExists adds "exists (select ...)" with the query built by fn.
func (b *Builder) WhereExists(fn func(*Builder)) *Builder {
	return b.exists(dialect.And, false, fn)
}

func (b *Builder) OrWhereExists(fn func(*Builder)) *Builder {
	return b.exists(dialect.Or, false, fn)
}

func (b *Builder) WhereNotExists(fn func(*Builder)) *Builder {
	return b.exists(dialect.And, true, fn)
}

func (b *Builder) OrWhereNotExists(fn func(*Builder)) *Builder {
	return b.exists(dialect.Or, true, fn)
}

// ----------------------------------------------------------------------------
// Column comparisons, in lists, nulls and ranges
// ----------------------------------------------------------------------------

func (b *Builder) column(boolean dialect.Boolean, first, operator, second string) *Builder {
	if err := b.grammar.ValidateOperator(operator); err != nil {
		b.addError(err)
		return b
	}
	return b.appendWhere(boolean, false, dialect.WhereColumn{First: first, Operator: operator, Second: second})
}

// WhereColumn compares two columns.
func (b *Builder) WhereColumn(first, operator, second string) *Builder {
	return b.column(dialect.And, first, operator, second)
}

func (b *Builder) OrWhereColumn(first, operator, second string) *Builder {
	return b.column(dialect.Or, first, operator, second)
}

// WhereIn matches column against values. An empty list matches nothing.
func (b *Builder) WhereIn(column any, values []any) *Builder {
	return b.appendWhere(dialect.And, false, dialect.WhereIn{Column: column, Values: values})
}

func (b *Builder) OrWhereIn(column any, values []any) *Builder {
	return b.appendWhere(dialect.Or, false, dialect.WhereIn{Column: column, Values: values})
}

// WhereNotIn excludes values. An empty list matches everything.
func (b *Builder) WhereNotIn(column any, values []any) *Builder {
	return b.appendWhere(dialect.And, true, dialect.WhereIn{Column: column, Values: values})
}

func (b *Builder) OrWhereNotIn(column any, values []any) *Builder {
	return b.appendWhere(dialect.Or, true, dialect.WhereIn{Column: column, Values: values})
}

// WhereInSub matches column against the rows of a sub-select.
func (b *Builder) WhereInSub(column any, q *Builder) *Builder {
	return b.appendWhere(dialect.And, false, dialect.WhereIn{Column: column, Query: b.sub(q)})
}

func (b *Builder) WhereNotInSub(column any, q *Builder) *Builder {
	return b.appendWhere(dialect.And, true, dialect.WhereIn{Column: column, Query: b.sub(q)})
}

// WhereIntegerInRaw inlines values as integer literals instead of binding
// them. Values that are not integers fail at compile time.
func (b *Builder) WhereIntegerInRaw(column any, values []any) *Builder {
	return b.appendWhere(dialect.And, false, dialect.WhereIn{Column: column, Values: values, Integer: true})
}

func (b *Builder) WhereIntegerNotInRaw(column any, values []any) *Builder {
	return b.appendWhere(dialect.And, true, dialect.WhereIn{Column: column, Values: values, Integer: true})
}

// WhereNull checks column for null.
func (b *Builder) WhereNull(column any) *Builder {
	return b.appendWhere(dialect.And, false, dialect.WhereNull{Column: column})
}

func (b *Builder) OrWhereNull(column any) *Builder {
	return b.appendWhere(dialect.Or, false, dialect.WhereNull{Column: column})
}

func (b *Builder) WhereNotNull(column any) *Builder {
	return b.appendWhere(dialect.And, true, dialect.WhereNull{Column: column})
}

func (b *Builder) OrWhereNotNull(column any) *Builder {
	return b.appendWhere(dialect.Or, true, dialect.WhereNull{Column: column})
}

// WhereBetween checks that column lies between from and to.
func (b *Builder) WhereBetween(column any, from, to any) *Builder {
	return b.appendWhere(dialect.And, false, dialect.WhereBetween{Column: column, Values: [2]any{from, to}})
}

func (b *Builder) OrWhereBetween(column any, from, to any) *Builder {
	return b.appendWhere(dialect.Or, false, dialect.WhereBetween{Column: column, Values: [2]any{from, to}})
}

func (b *Builder) WhereNotBetween(column any, from, to any) *Builder {
	return b.appendWhere(dialect.And, true, dialect.WhereBetween{Column: column, Values: [2]any{from, to}})
}

func (b *Builder) OrWhereNotBetween(column any, from, to any) *Builder {
	return b.appendWhere(dialect.Or, true, dialect.WhereBetween{Column: column, Values: [2]any{from, to}})
}

// WhereBetweenColumns checks column against two other columns.
func (b *Builder) WhereBetweenColumns(column, lower, upper string) *Builder {
	return b.appendWhere(dialect.And, false, dialect.WhereBetween{Column: column, Values: [2]any{lower, upper}, Columns: true})
}

func (b *Builder) WhereNotBetweenColumns(column, lower, upper string) *Builder {
	return b.appendWhere(dialect.And, true, dialect.WhereBetween{Column: column, Values: [2]any{lower, upper}, Columns: true})
}

// WhereRaw adds a raw predicate with its own bindings.
func (b *Builder) WhereRaw(sql string, bindings ...any) *Builder {
	return b.appendWhere(dialect.And, false, dialect.WhereRaw{SQL: sql, Bindings: bindings})
}

func (b *Builder) OrWhereRaw(sql string, bindings ...any) *Builder {
	return b.appendWhere(dialect.Or, false, dialect.WhereRaw{SQL: sql, Bindings: bindings})
}

// WhereRowValues compares a tuple of columns with a tuple of values.
//
//	q.WhereRowValues([]string{"last_update", "order_number"}, "<", []any{1, 2})
func (b *Builder) WhereRowValues(columns []string, operator string, values []any) *Builder {
	return b.rowValues(dialect.And, columns, operator, values)
}

func (b *Builder) OrWhereRowValues(columns []string, operator string, values []any) *Builder {
	return b.rowValues(dialect.Or, columns, operator, values)
}

func (b *Builder) rowValues(boolean dialect.Boolean, columns []string, operator string, values []any) *Builder {
	if len(columns) != len(values) {
		b.addError(dialect.ErrRowValuesArity)
		return b
	}
	if err := b.grammar.ValidateOperator(operator); err != nil {
		b.addError(err)
		return b
	}
	return b.appendWhere(boolean, false, dialect.WhereRowValues{Columns: columns, Operator: operator, Values: values})
}

// ----------------------------------------------------------------------------
// Date parts
// ----------------------------------------------------------------------------

func (b *Builder) datePart(boolean dialect.Boolean, part dialect.DatePart, column any, operator string, value any) *Builder {
	if !b.checkOperator(operator, value) {
		return b
	}
	return b.appendWhere(boolean, false, dialect.WhereDatePart{
		Part:     part,
		Column:   column,
		Operator: operator,
		Value:    datePartValue(part, value),
	})
}

// datePartValue reduces a time.Time to the compared part, and pads day and
// month numbers to two digits.
func datePartValue(part dialect.DatePart, value any) any {
	if t, ok := value.(time.Time); ok {
		switch part {
		case dialect.PartDate:
			return t.Format("2006-01-02")
		case dialect.PartTime:
			return t.Format("15:04:05")
		case dialect.PartDay:
			return t.Format("02")
		case dialect.PartMonth:
			return t.Format("01")
		case dialect.PartYear:
			return t.Format("2006")
		}
	}
	if part == dialect.PartDay || part == dialect.PartMonth {
		switch n := value.(type) {
		case int:
			return fmt.Sprintf("%02d", n)
		case int64:
			return fmt.Sprintf("%02d", n)
		}
	}
	return value
}

// WhereDate compares the date part of column. time.Time values are
// formatted as Y-m-d.
func (b *Builder) WhereDate(column any, operator string, value any) *Builder {
	return b.datePart(dialect.And, dialect.PartDate, column, operator, value)
}

func (b *Builder) OrWhereDate(column any, operator string, value any) *Builder {
	return b.datePart(dialect.Or, dialect.PartDate, column, operator, value)
}

func (b *Builder) WhereTime(column any, operator string, value any) *Builder {
	return b.datePart(dialect.And, dialect.PartTime, column, operator, value)
}

func (b *Builder) OrWhereTime(column any, operator string, value any) *Builder {
	return b.datePart(dialect.Or, dialect.PartTime, column, operator, value)
}

func (b *Builder) WhereDay(column any, operator string, value any) *Builder {
	return b.datePart(dialect.And, dialect.PartDay, column, operator, value)
}

func (b *Builder) OrWhereDay(column any, operator string, value any) *Builder {
	return b.datePart(dialect.Or, dialect.PartDay, column, operator, value)
}

func (b *Builder) WhereMonth(column any, operator string, value any) *Builder {
	return b.datePart(dialect.And, dialect.PartMonth, column, operator, value)
}

func (b *Builder) OrWhereMonth(column any, operator string, value any) *Builder {
	return b.datePart(dialect.Or, dialect.PartMonth, column, operator, value)
}

func (b *Builder) WhereYear(column any, operator string, value any) *Builder {
	return b.datePart(dialect.And, dialect.PartYear, column, operator, value)
}

func (b *Builder) OrWhereYear(column any, operator string, value any) *Builder {
	return b.datePart(dialect.Or, dialect.PartYear, column, operator, value)
}

// ----------------------------------------------------------------------------
// JSON and full text
// ----------------------------------------------------------------------------

// WhereJsonContains checks that the JSON document at column contains
// value. column may use the arrow path syntax, "options->languages".
func (b *Builder) WhereJsonContains(column string, value any) *Builder {
	return b.appendWhere(dialect.And, false, dialect.WhereJsonContains{Column: column, Value: value})
}

func (b *Builder) OrWhereJsonContains(column string, value any) *Builder {
	return b.appendWhere(dialect.Or, false, dialect.WhereJsonContains{Column: column, Value: value})
}

func (b *Builder) WhereJsonDoesntContain(column string, value any) *Builder {
	return b.appendWhere(dialect.And, true, dialect.WhereJsonContains{Column: column, Value: value})
}

func (b *Builder) OrWhereJsonDoesntContain(column string, value any) *Builder {
	return b.appendWhere(dialect.Or, true, dialect.WhereJsonContains{Column: column, Value: value})
}

// WhereJsonContainsKey checks that a JSON path exists.
func (b *Builder) WhereJsonContainsKey(column string) *Builder {
	return b.appendWhere(dialect.And, false, dialect.WhereJsonContainsKey{Column: column})
}

func (b *Builder) WhereJsonDoesntContainKey(column string) *Builder {
	return b.appendWhere(dialect.And, true, dialect.WhereJsonContainsKey{Column: column})
}

// WhereJsonLength compares the length of a JSON array.
func (b *Builder) WhereJsonLength(column string, operator string, value any) *Builder {
	if !b.checkOperator(operator, value) {
		return b
	}
	return b.appendWhere(dialect.And, false, dialect.WhereJsonLength{Column: column, Operator: operator, Value: value})
}

// WhereFulltext adds a full text search over columns.
func (b *Builder) WhereFulltext(columns []string, value string, opts ...dialect.FulltextOptions) *Builder {
	return b.appendWhere(dialect.And, false, fulltext(columns, value, opts))
}

func (b *Builder) OrWhereFulltext(columns []string, value string, opts ...dialect.FulltextOptions) *Builder {
	return b.appendWhere(dialect.Or, false, fulltext(columns, value, opts))
}

func fulltext(columns []string, value string, opts []dialect.FulltextOptions) dialect.WhereFulltext {
	c := dialect.WhereFulltext{Columns: columns, Value: value}
	if len(opts) > 0 {
		c.Options = opts[0]
	}
	return c
}

// ----------------------------------------------------------------------------
// Having
// ----------------------------------------------------------------------------

func (b *Builder) appendHaving(boolean dialect.Boolean, not bool, c dialect.Condition) *Builder {
	b.reg.Havings = append(b.reg.Havings, dialect.Where{Boolean: boolean, Not: not, Condition: c})
	return b
}

// Having adds "column operator value" to the having clause.
func (b *Builder) Having(column any, operator string, value any) *Builder {
	if !b.checkOperator(operator, value) {
		return b
	}
	return b.appendHaving(dialect.And, false, dialect.WhereBasic{Column: column, Operator: operator, Value: value})
}

func (b *Builder) OrHaving(column any, operator string, value any) *Builder {
	if !b.checkOperator(operator, value) {
		return b
	}
	return b.appendHaving(dialect.Or, false, dialect.WhereBasic{Column: column, Operator: operator, Value: value})
}

// HavingNested groups having conditions added by fn.
func (b *Builder) HavingNested(fn func(*Builder)) *Builder {
	q := b.newQuery()
	fn(q)
	return b.appendHaving(dialect.And, false, dialect.WhereNested{Query: b.sub(q)})
}

func (b *Builder) HavingNull(column any) *Builder {
	return b.appendHaving(dialect.And, false, dialect.WhereNull{Column: column})
}

func (b *Builder) HavingNotNull(column any) *Builder {
	return b.appendHaving(dialect.And, true, dialect.WhereNull{Column: column})
}

func (b *Builder) HavingBetween(column any, from, to any) *Builder {
	return b.appendHaving(dialect.And, false, dialect.WhereBetween{Column: column, Values: [2]any{from, to}})
}

// HavingRaw adds a raw having predicate.
func (b *Builder) HavingRaw(sql string, bindings ...any) *Builder {
	return b.appendHaving(dialect.And, false, dialect.WhereRaw{SQL: sql, Bindings: bindings})
}

func (b *Builder) OrHavingRaw(sql string, bindings ...any) *Builder {
	return b.appendHaving(dialect.Or, false, dialect.WhereRaw{SQL: sql, Bindings: bindings})
}
