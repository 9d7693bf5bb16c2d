package ludb

import (
	"errors"
	"strings"

	"github.com/Lupennat/ludb-sub002/dialect"
	"github.com/Lupennat/ludb-sub002/internal/validation"
)

// ErrInvalidDirection is recorded when an order direction is neither asc nor
// desc.
var ErrInvalidDirection = errors.New(`ludb: order direction must be "asc" or "desc"`)

// Builder assembles a query fluently and hands it to the grammar of its
// connection. Construction mistakes such as an illegal operator are
// recorded on the builder and returned by ToSQL and by every terminal
// call.
//
// A Builder is not safe for concurrent use; Clone it instead.
//
//	rows, err := db.Table("users").
//	    Select("id", "name").
//	    Where("active", "=", true).
//	    OrderByDesc("created_at").
//	    Limit(10).
//	    GetContext(ctx)
type Builder struct {
	run     *runner
	grammar *dialect.Grammar
	reg     *dialect.Registry
	err     error
}

// NewBuilder returns a builder that compiles with g but has no connection.
// Its terminal calls fail with ErrNoExecutor.
func NewBuilder(g *dialect.Grammar) *Builder {
	return &Builder{grammar: g, reg: &dialect.Registry{}}
}

func newBuilder(r *runner) *Builder {
	return &Builder{run: r, grammar: r.grammar, reg: &dialect.Registry{}}
}

// Raw wraps value as an expression that is written into the SQL verbatim.
func Raw(value any) dialect.Expression {
	return dialect.Raw(value)
}

// newQuery returns an empty builder on the same connection, used for
// nested conditions and sub-selects.
func (b *Builder) newQuery() *Builder {
	return &Builder{run: b.run, grammar: b.grammar, reg: &dialect.Registry{}}
}

func (b *Builder) addError(err error) {
	if err != nil {
		b.err = errors.Join(b.err, err)
	}
}

// sub adopts the errors of a nested builder and returns its registry.
func (b *Builder) sub(q *Builder) *dialect.Registry {
	if q == nil {
		return nil
	}
	b.addError(q.err)
	return q.reg
}

// Table sets the table to query. "users as u" aliases it.
func (b *Builder) Table(name string) *Builder {
	b.reg.From = name
	return b
}

// From sets the table to a name or an Expression.
func (b *Builder) From(table any) *Builder {
	b.reg.From = table
	return b
}

// FromSub selects from a derived table.
func (b *Builder) FromSub(q *Builder, alias string) *Builder {
	b.reg.From = dialect.Subquery{Query: b.sub(q), Alias: alias}
	return b
}

// FromRaw sets a raw from clause.
func (b *Builder) FromRaw(sql string, bindings ...any) *Builder {
	b.reg.From = dialect.RawClause{SQL: sql, Bindings: bindings}
	return b
}

// Select replaces the select list. Entries are column names or
// Expressions.
func (b *Builder) Select(columns ...any) *Builder {
	b.reg.Columns = nil
	return b.AddSelect(columns...)
}

// AddSelect appends to the select list.
func (b *Builder) AddSelect(columns ...any) *Builder {
	b.reg.Columns = append(b.reg.Columns, columns...)
	return b
}

// SelectRaw appends a raw select expression.
func (b *Builder) SelectRaw(sql string, bindings ...any) *Builder {
	b.reg.Columns = append(b.reg.Columns, dialect.RawClause{SQL: sql, Bindings: bindings})
	return b
}

// SelectSub appends an aliased sub-select.
func (b *Builder) SelectSub(q *Builder, alias string) *Builder {
	b.reg.Columns = append(b.reg.Columns, dialect.Subquery{Query: b.sub(q), Alias: alias})
	return b
}

// Distinct makes the query distinct. Columns, where given, are used by
// aggregates and by PostgreSQL "distinct on".
func (b *Builder) Distinct(columns ...string) *Builder {
	b.reg.Distinct = true
	if len(columns) > 0 {
		b.reg.DistinctColumns = append(b.reg.DistinctColumns, columns...)
	}
	return b
}

// ----------------------------------------------------------------------------
// Grouping and ordering
// ----------------------------------------------------------------------------

// GroupBy appends group columns.
func (b *Builder) GroupBy(columns ...any) *Builder {
	b.reg.Groups = append(b.reg.Groups, columns...)
	return b
}

// GroupByRaw appends a raw group expression.
func (b *Builder) GroupByRaw(sql string, bindings ...any) *Builder {
	b.reg.Groups = append(b.reg.Groups, dialect.RawClause{SQL: sql, Bindings: bindings})
	return b
}

// OrderBy appends an order clause. Once a union is added, orders apply to
// the whole union.
func (b *Builder) OrderBy(column any, direction string) *Builder {
	dir := dialect.OrderDirection(strings.ToLower(strings.TrimSpace(direction)))
	if dir == "" {
		dir = dialect.OrderAsc
	}
	if dir != dialect.OrderAsc && dir != dialect.OrderDesc {
		b.addError(ErrInvalidDirection)
		return b
	}
	if q, ok := column.(*Builder); ok {
		column = b.sub(q)
	}
	return b.addOrder(dialect.Order{Column: column, Direction: dir})
}

func (b *Builder) OrderByDesc(column any) *Builder {
	return b.OrderBy(column, "desc")
}

// OrderByRaw appends a raw order expression.
func (b *Builder) OrderByRaw(sql string, bindings ...any) *Builder {
	return b.addOrder(dialect.Order{Column: dialect.RawClause{SQL: sql, Bindings: bindings}})
}

func (b *Builder) addOrder(o dialect.Order) *Builder {
	if len(b.reg.Unions) > 0 {
		b.reg.UnionOrders = append(b.reg.UnionOrders, o)
	} else {
		b.reg.Orders = append(b.reg.Orders, o)
	}
	return b
}

// Latest orders by column descending, created_at by default.
func (b *Builder) Latest(column ...string) *Builder {
	return b.OrderBy(timestampColumn(column), "desc")
}

// Oldest orders by column ascending, created_at by default.
func (b *Builder) Oldest(column ...string) *Builder {
	return b.OrderBy(timestampColumn(column), "asc")
}

func timestampColumn(column []string) string {
	if len(column) > 0 && column[0] != "" {
		return column[0]
	}
	return "created_at"
}

// InRandomOrder orders by the dialect's random function.
func (b *Builder) InRandomOrder(seed ...string) *Builder {
	s := ""
	if len(seed) > 0 {
		s = seed[0]
	}
	return b.OrderByRaw(b.grammar.CompileRandom(s))
}

// Reorder drops every order clause.
func (b *Builder) Reorder() *Builder {
	b.reg.Orders = nil
	b.reg.UnionOrders = nil
	return b
}

// ----------------------------------------------------------------------------
// Limits
// ----------------------------------------------------------------------------

// Limit caps the number of rows. Negative values are ignored.
func (b *Builder) Limit(n int) *Builder {
	if n < 0 {
		return b
	}
	if len(b.reg.Unions) > 0 {
		b.reg.UnionLimit = &n
	} else {
		b.reg.Limit = &n
	}
	return b
}

// Offset skips n rows. Negative values count as zero.
func (b *Builder) Offset(n int) *Builder {
	n = max(n, 0)
	if len(b.reg.Unions) > 0 {
		b.reg.UnionOffset = &n
	} else {
		b.reg.Offset = &n
	}
	return b
}

func (b *Builder) Take(n int) *Builder {
	return b.Limit(n)
}

func (b *Builder) Skip(n int) *Builder {
	return b.Offset(n)
}

// ForPage sets limit and offset for a one-based page.
func (b *Builder) ForPage(page, perPage int) *Builder {
	if page < 1 {
		page = 1
	}
	return b.Offset((page - 1) * perPage).Limit(perPage)
}

// ForPageAfterID pages by key instead of offset.
func (b *Builder) ForPageAfterID(perPage int, lastID any, column string) *Builder {
	if column == "" {
		column = "id"
	}
	kept := b.reg.Orders[:0:0]
	for _, o := range b.reg.Orders {
		if name, ok := o.Column.(string); ok && name == column {
			continue
		}
		kept = append(kept, o)
	}
	b.reg.Orders = kept
	if lastID != nil {
		b.Where(column, ">", lastID)
	}
	return b.OrderBy(column, "asc").Limit(perPage)
}

// ----------------------------------------------------------------------------
// Unions and locks
// ----------------------------------------------------------------------------

// Union appends q with "union".
func (b *Builder) Union(q *Builder) *Builder {
	b.reg.Unions = append(b.reg.Unions, dialect.Union{Query: b.sub(q)})
	return b
}

// UnionAll appends q with "union all".
func (b *Builder) UnionAll(q *Builder) *Builder {
	b.reg.Unions = append(b.reg.Unions, dialect.Union{Query: b.sub(q), All: true})
	return b
}

// LockForUpdate adds an exclusive row lock.
func (b *Builder) LockForUpdate() *Builder {
	b.reg.Lock = dialect.LockForUpdate
	return b
}

// SharedLock adds a shared row lock.
func (b *Builder) SharedLock() *Builder {
	b.reg.Lock = dialect.LockShared
	return b
}

// Lock adds a raw lock clause.
func (b *Builder) Lock(raw string) *Builder {
	b.reg.Lock = dialect.LockCustom
	b.reg.LockRaw = raw
	return b
}

// ----------------------------------------------------------------------------
// Compilation
// ----------------------------------------------------------------------------

// ToSQL compiles the select statement with ? placeholders.
func (b *Builder) ToSQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	return b.grammar.CompileSelect(b.reg)
}

// ToRawSQL compiles the select statement with the bindings inlined. The
// result is meant for logs and debugging only.
func (b *Builder) ToRawSQL() (string, error) {
	sql, bindings, err := b.ToSQL()
	if err != nil {
		return "", err
	}
	return b.grammar.SubstituteBindingsIntoRawSQL(sql, bindings)
}

// Registry returns the structured query the builder has assembled.
func (b *Builder) Registry() *dialect.Registry {
	return b.reg
}

// Grammar returns the grammar the builder compiles with.
func (b *Builder) Grammar() *dialect.Grammar {
	return b.grammar
}

// Err returns the errors recorded while building.
func (b *Builder) Err() error {
	return b.err
}

// Clone returns an independent copy of the builder.
func (b *Builder) Clone() *Builder {
	return &Builder{run: b.run, grammar: b.grammar, reg: b.reg.Clone(), err: b.err}
}

// Reset clears every clause and recorded error.
func (b *Builder) Reset() *Builder {
	b.reg = &dialect.Registry{}
	b.err = nil
	return b
}

// When applies fn only if condition is true.
//
//	db.Table("users").When(onlyActive, func(q *ludb.Builder) {
//	    q.Where("active", "=", true)
//	})
func (b *Builder) When(condition bool, fn func(*Builder)) *Builder {
	if condition {
		fn(b)
	}
	return b
}

// Unless applies fn only if condition is false.
func (b *Builder) Unless(condition bool, fn func(*Builder)) *Builder {
	return b.When(!condition, fn)
}

// checkOperator records an operator the dialect does not know, or a nil
// value paired with an operator that cannot compare with null.
func (b *Builder) checkOperator(operator string, value any) bool {
	if value == nil && !validation.IsNullSafeOperator(operator) {
		b.addError(dialect.ErrIllegalOperator)
		return false
	}
	if err := b.grammar.ValidateOperator(operator); err != nil {
		b.addError(err)
		return false
	}
	return true
}
