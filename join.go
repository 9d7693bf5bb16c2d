package ludb

import "github.com/Lupennat/ludb-sub002/dialect"

// JoinClause collects the on and where conditions of one join.
type JoinClause struct {
	parent *Builder
	join   *dialect.Join
}

func (j *JoinClause) add(boolean dialect.Boolean, not bool, c dialect.Condition) *JoinClause {
	j.join.Wheres = append(j.join.Wheres, dialect.Where{Boolean: boolean, Not: not, Condition: c})
	return j
}

// On compares two columns.
func (j *JoinClause) On(first, operator, second string) *JoinClause {
	if err := j.parent.grammar.ValidateOperator(operator); err != nil {
		j.parent.addError(err)
		return j
	}
	return j.add(dialect.And, false, dialect.WhereColumn{First: first, Operator: operator, Second: second})
}

func (j *JoinClause) OrOn(first, operator, second string) *JoinClause {
	if err := j.parent.grammar.ValidateOperator(operator); err != nil {
		j.parent.addError(err)
		return j
	}
	return j.add(dialect.Or, false, dialect.WhereColumn{First: first, Operator: operator, Second: second})
}

// OnNested groups the conditions added by fn in parentheses.
func (j *JoinClause) OnNested(fn func(*JoinClause)) *JoinClause {
	nested := &JoinClause{parent: j.parent, join: &dialect.Join{}}
	fn(nested)
	return j.add(dialect.And, false, dialect.WhereNested{Query: &dialect.Registry{Wheres: nested.join.Wheres}})
}

// Where compares a column with a bound value.
func (j *JoinClause) Where(column any, operator string, value any) *JoinClause {
	if !j.parent.checkOperator(operator, value) {
		return j
	}
	return j.add(dialect.And, false, dialect.WhereBasic{Column: column, Operator: operator, Value: value})
}

func (j *JoinClause) OrWhere(column any, operator string, value any) *JoinClause {
	if !j.parent.checkOperator(operator, value) {
		return j
	}
	return j.add(dialect.Or, false, dialect.WhereBasic{Column: column, Operator: operator, Value: value})
}

func (j *JoinClause) WhereIn(column any, values []any) *JoinClause {
	return j.add(dialect.And, false, dialect.WhereIn{Column: column, Values: values})
}

func (j *JoinClause) WhereNull(column any) *JoinClause {
	return j.add(dialect.And, false, dialect.WhereNull{Column: column})
}

func (j *JoinClause) WhereNotNull(column any) *JoinClause {
	return j.add(dialect.And, true, dialect.WhereNull{Column: column})
}

// ----------------------------------------------------------------------------
// Builder join methods
// ----------------------------------------------------------------------------

func (b *Builder) joinFunc(kind dialect.JoinType, table any, fn func(*JoinClause)) *Builder {
	j := &JoinClause{parent: b, join: &dialect.Join{Type: kind, Table: table}}
	if fn != nil {
		fn(j)
	}
	b.reg.Joins = append(b.reg.Joins, j.join)
	return b
}

func (b *Builder) joinOn(kind dialect.JoinType, table any, first, operator, second string) *Builder {
	return b.joinFunc(kind, table, func(j *JoinClause) {
		j.On(first, operator, second)
	})
}

// Join adds an inner join on two columns.
//
//	db.Table("users").Join("contacts", "users.id", "=", "contacts.user_id")
func (b *Builder) Join(table, first, operator, second string) *Builder {
	return b.joinOn(dialect.JoinInner, table, first, operator, second)
}

// JoinFunc adds an inner join whose conditions are built by fn.
func (b *Builder) JoinFunc(table any, fn func(*JoinClause)) *Builder {
	return b.joinFunc(dialect.JoinInner, table, fn)
}

// JoinWhere adds an inner join comparing a column with a bound value.
func (b *Builder) JoinWhere(table, column, operator string, value any) *Builder {
	return b.joinFunc(dialect.JoinInner, table, func(j *JoinClause) {
		j.Where(column, operator, value)
	})
}

func (b *Builder) LeftJoin(table, first, operator, second string) *Builder {
	return b.joinOn(dialect.JoinLeft, table, first, operator, second)
}

func (b *Builder) LeftJoinFunc(table any, fn func(*JoinClause)) *Builder {
	return b.joinFunc(dialect.JoinLeft, table, fn)
}

func (b *Builder) RightJoin(table, first, operator, second string) *Builder {
	return b.joinOn(dialect.JoinRight, table, first, operator, second)
}

func (b *Builder) RightJoinFunc(table any, fn func(*JoinClause)) *Builder {
	return b.joinFunc(dialect.JoinRight, table, fn)
}

// CrossJoin adds a join without conditions.
func (b *Builder) CrossJoin(table any) *Builder {
	return b.joinFunc(dialect.JoinCross, table, nil)
}

// JoinSub joins a derived table.
func (b *Builder) JoinSub(q *Builder, alias, first, operator, second string) *Builder {
	return b.joinOn(dialect.JoinInner, dialect.Subquery{Query: b.sub(q), Alias: alias}, first, operator, second)
}

func (b *Builder) LeftJoinSub(q *Builder, alias, first, operator, second string) *Builder {
	return b.joinOn(dialect.JoinLeft, dialect.Subquery{Query: b.sub(q), Alias: alias}, first, operator, second)
}

func (b *Builder) RightJoinSub(q *Builder, alias, first, operator, second string) *Builder {
	return b.joinOn(dialect.JoinRight, dialect.Subquery{Query: b.sub(q), Alias: alias}, first, operator, second)
}

func (b *Builder) CrossJoinSub(q *Builder, alias string) *Builder {
	return b.joinFunc(dialect.JoinCross, dialect.Subquery{Query: b.sub(q), Alias: alias}, nil)
}
