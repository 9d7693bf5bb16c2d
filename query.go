package ludb

import (
	"context"
	"sort"

	"github.com/Lupennat/ludb-sub002/dialect"
)

// prepare returns the runner after checking that the builder can execute.
func (b *Builder) prepare() (*runner, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.run == nil {
		return nil, ErrNoExecutor
	}
	return b.run, nil
}

// GetContext runs the select and returns every row.
func (b *Builder) GetContext(ctx context.Context) ([]map[string]any, error) {
	run, err := b.prepare()
	if err != nil {
		return nil, err
	}
	sql, bindings, err := b.grammar.CompileSelect(b.reg)
	if err != nil {
		return nil, err
	}
	return run.selectRows(ctx, sql, bindings)
}

func (b *Builder) Get() ([]map[string]any, error) {
	return b.GetContext(context.Background())
}

// FirstContext returns the first row, or ErrNoRows. The builder itself is
// left without a limit.
func (b *Builder) FirstContext(ctx context.Context) (map[string]any, error) {
	rows, err := b.Clone().Limit(1).GetContext(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

func (b *Builder) First() (map[string]any, error) {
	return b.FirstContext(context.Background())
}

// PluckContext returns the values of one column.
func (b *Builder) PluckContext(ctx context.Context, column string) ([]any, error) {
	rows, err := b.Clone().Select(column).GetContext(ctx)
	if err != nil {
		return nil, err
	}
	key := lastSegment(column)
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = row[key]
	}
	return out, nil
}

func (b *Builder) Pluck(column string) ([]any, error) {
	return b.PluckContext(context.Background(), column)
}

// ----------------------------------------------------------------------------
// Writes
// ----------------------------------------------------------------------------

// InsertContext inserts one or more rows. Every row must carry the same
// columns. Passing a single empty map inserts a row of defaults.
func (b *Builder) InsertContext(ctx context.Context, rows ...map[string]any) (*QueryResult, error) {
	run, err := b.prepare()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return NewQueryResult(nil), nil
	}
	if len(rows) == 1 && len(rows[0]) == 0 {
		rows = nil
	}
	sql, bindings, err := b.grammar.CompileInsert(b.reg, rows)
	if err != nil {
		return nil, err
	}
	res, err := run.statement(ctx, sql, bindings)
	if err != nil {
		return nil, err
	}
	return NewQueryResult(res), nil
}

func (b *Builder) Insert(rows ...map[string]any) (*QueryResult, error) {
	return b.InsertContext(context.Background(), rows...)
}

// InsertGetIDContext inserts one row and returns its generated key.
// sequence names the key column, "id" when empty.
func (b *Builder) InsertGetIDContext(ctx context.Context, values map[string]any, sequence string) (int64, error) {
	run, err := b.prepare()
	if err != nil {
		return 0, err
	}
	if sequence == "" {
		sequence = "id"
	}
	sql, bindings, err := b.grammar.CompileInsertGetID(b.reg, values, sequence)
	if err != nil {
		return 0, err
	}
	return run.insertGetID(ctx, sql, bindings, sequence)
}

func (b *Builder) InsertGetID(values map[string]any, sequence string) (int64, error) {
	return b.InsertGetIDContext(context.Background(), values, sequence)
}

// InsertOrIgnoreContext inserts rows, skipping those that violate a unique
// constraint, and returns the number of inserted rows.
func (b *Builder) InsertOrIgnoreContext(ctx context.Context, rows ...map[string]any) (int64, error) {
	run, err := b.prepare()
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	sql, bindings, err := b.grammar.CompileInsertOrIgnore(b.reg, rows)
	if err != nil {
		return 0, err
	}
	return run.affecting(ctx, sql, bindings)
}

func (b *Builder) InsertOrIgnore(rows ...map[string]any) (int64, error) {
	return b.InsertOrIgnoreContext(context.Background(), rows...)
}

// InsertUsingContext inserts the rows selected by q.
func (b *Builder) InsertUsingContext(ctx context.Context, columns []string, q *Builder) (int64, error) {
	query := b.sub(q)
	run, err := b.prepare()
	if err != nil {
		return 0, err
	}
	sql, bindings, err := b.grammar.CompileInsertUsing(b.reg, columns, query)
	if err != nil {
		return 0, err
	}
	return run.affecting(ctx, sql, bindings)
}

func (b *Builder) InsertUsing(columns []string, q *Builder) (int64, error) {
	return b.InsertUsingContext(context.Background(), columns, q)
}

// UpdateContext updates the matched rows and returns how many changed.
func (b *Builder) UpdateContext(ctx context.Context, values map[string]any) (int64, error) {
	run, err := b.prepare()
	if err != nil {
		return 0, err
	}
	sql, bindings, err := b.grammar.CompileUpdate(b.reg, values)
	if err != nil {
		return 0, err
	}
	return run.affecting(ctx, sql, bindings)
}

func (b *Builder) Update(values map[string]any) (int64, error) {
	return b.UpdateContext(context.Background(), values)
}

// IncrementContext adds amount to column, updating extra columns too.
func (b *Builder) IncrementContext(ctx context.Context, column string, amount any, extra map[string]any) (int64, error) {
	return b.step(ctx, column, "+", amount, extra)
}

// DecrementContext subtracts amount from column.
func (b *Builder) DecrementContext(ctx context.Context, column string, amount any, extra map[string]any) (int64, error) {
	return b.step(ctx, column, "-", amount, extra)
}

func (b *Builder) Increment(column string, amount any) (int64, error) {
	return b.IncrementContext(context.Background(), column, amount, nil)
}

func (b *Builder) Decrement(column string, amount any) (int64, error) {
	return b.DecrementContext(context.Background(), column, amount, nil)
}

func (b *Builder) step(ctx context.Context, column, sign string, amount any, extra map[string]any) (int64, error) {
	if _, err := toFloat(amount); err != nil {
		return 0, WrapError("non-numeric value passed to increment", err)
	}
	wrapped, err := b.grammar.Wrap(column)
	if err != nil {
		return 0, err
	}
	lit, err := b.grammar.Escape(amount)
	if err != nil {
		return 0, err
	}
	values := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		values[k] = v
	}
	values[column] = dialect.Raw(wrapped + " " + sign + " " + lit)
	return b.UpdateContext(ctx, values)
}

// UpsertContext inserts rows and updates those conflicting on uniqueBy.
// update lists the columns to overwrite from the inserted row, or
// dialect.Assignment values. A nil update overwrites every inserted
// column; an empty, non-nil update makes it a plain insert.
func (b *Builder) UpsertContext(ctx context.Context, rows []map[string]any, uniqueBy []string, update []any) (int64, error) {
	run, err := b.prepare()
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if update == nil {
		keys := make([]string, 0, len(rows[0]))
		for k := range rows[0] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		update = make([]any, len(keys))
		for i, k := range keys {
			update[i] = k
		}
	}
	sql, bindings, err := b.grammar.CompileUpsert(b.reg, rows, uniqueBy, update)
	if err != nil {
		return 0, err
	}
	return run.affecting(ctx, sql, bindings)
}

func (b *Builder) Upsert(rows []map[string]any, uniqueBy []string, update []any) (int64, error) {
	return b.UpsertContext(context.Background(), rows, uniqueBy, update)
}

// DeleteContext deletes the matched rows and returns how many went.
func (b *Builder) DeleteContext(ctx context.Context) (int64, error) {
	run, err := b.prepare()
	if err != nil {
		return 0, err
	}
	sql, bindings, err := b.grammar.CompileDelete(b.reg)
	if err != nil {
		return 0, err
	}
	return run.affecting(ctx, sql, bindings)
}

func (b *Builder) Delete() (int64, error) {
	return b.DeleteContext(context.Background())
}

// TruncateContext empties the table. Some engines need more than one
// statement; they run in order.
func (b *Builder) TruncateContext(ctx context.Context) error {
	run, err := b.prepare()
	if err != nil {
		return err
	}
	statements, err := b.grammar.CompileTruncate(b.reg)
	if err != nil {
		return err
	}
	for _, s := range statements {
		if _, err := run.statement(ctx, s.SQL, s.Bindings); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) Truncate() error {
	return b.TruncateContext(context.Background())
}

// ----------------------------------------------------------------------------
// Aggregates
// ----------------------------------------------------------------------------

// aggregate runs function over columns on a copy of the builder and
// returns the "aggregate" value, nil when no row came back.
func (b *Builder) aggregate(ctx context.Context, function string, columns ...any) (any, error) {
	q := b.Clone()
	if len(q.reg.Unions) == 0 && len(q.reg.Havings) == 0 {
		q.reg.Columns = nil
	}
	if len(columns) == 0 {
		columns = []any{"*"}
	}
	q.reg.Aggregate = &dialect.Aggregate{Function: function, Columns: columns}
	rows, err := q.GetContext(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0]["aggregate"], nil
}

// CountContext counts the matched rows, or the non-null values of column.
func (b *Builder) CountContext(ctx context.Context, column ...string) (int64, error) {
	args := make([]any, len(column))
	for i, c := range column {
		args[i] = c
	}
	v, err := b.aggregate(ctx, "count", args...)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	return toInt64(v)
}

func (b *Builder) Count(column ...string) (int64, error) {
	return b.CountContext(context.Background(), column...)
}

// MinContext returns the smallest value of column, nil for no rows.
func (b *Builder) MinContext(ctx context.Context, column string) (any, error) {
	return b.aggregate(ctx, "min", column)
}

func (b *Builder) MaxContext(ctx context.Context, column string) (any, error) {
	return b.aggregate(ctx, "max", column)
}

// SumContext returns the sum of column as float64, zero for no rows.
func (b *Builder) SumContext(ctx context.Context, column string) (float64, error) {
	v, err := b.aggregate(ctx, "sum", column)
	if err != nil || v == nil {
		return 0, err
	}
	return toFloat(v)
}

// AvgContext returns the average of column, nil for no rows.
func (b *Builder) AvgContext(ctx context.Context, column string) (any, error) {
	return b.aggregate(ctx, "avg", column)
}

func (b *Builder) Min(column string) (any, error) {
	return b.MinContext(context.Background(), column)
}

func (b *Builder) Max(column string) (any, error) {
	return b.MaxContext(context.Background(), column)
}

func (b *Builder) Sum(column string) (float64, error) {
	return b.SumContext(context.Background(), column)
}

func (b *Builder) Avg(column string) (any, error) {
	return b.AvgContext(context.Background(), column)
}

// ExistsContext reports whether the query matches at least one row.
func (b *Builder) ExistsContext(ctx context.Context) (bool, error) {
	run, err := b.prepare()
	if err != nil {
		return false, err
	}
	sql, bindings, err := b.grammar.CompileExists(b.reg)
	if err != nil {
		return false, err
	}
	rows, err := run.selectRows(ctx, sql, bindings)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	return truthy(rows[0]["exists"]), nil
}

func (b *Builder) Exists() (bool, error) {
	return b.ExistsContext(context.Background())
}

func (b *Builder) DoesntExistContext(ctx context.Context) (bool, error) {
	exists, err := b.ExistsContext(ctx)
	return !exists, err
}

func (b *Builder) DoesntExist() (bool, error) {
	return b.DoesntExistContext(context.Background())
}

// PaginateContext counts the matched rows and returns one page of them.
func (b *Builder) PaginateContext(ctx context.Context, page, perPage int) ([]map[string]any, *Pagination, error) {
	total, err := b.paginationCount(ctx)
	if err != nil {
		return nil, nil, err
	}
	p := NewPagination(page, perPage, total)
	if total == 0 {
		return []map[string]any{}, p, nil
	}
	rows, err := b.Clone().ForPage(p.Page, p.PerPage).GetContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	return rows, p, nil
}

func (b *Builder) Paginate(page, perPage int) ([]map[string]any, *Pagination, error) {
	return b.PaginateContext(context.Background(), page, perPage)
}

// paginationCount counts without orders and limits. Grouped queries are
// counted as a derived table so every group counts once.
func (b *Builder) paginationCount(ctx context.Context) (int64, error) {
	q := b.Clone()
	q.reg.Orders = nil
	q.reg.Limit = nil
	q.reg.Offset = nil
	q.reg.UnionOrders = nil
	q.reg.UnionLimit = nil
	q.reg.UnionOffset = nil

	if len(q.reg.Groups) == 0 && len(q.reg.Havings) == 0 {
		return q.CountContext(ctx)
	}
	return b.newQuery().FromSub(q, "aggregate_table").CountContext(ctx)
}
