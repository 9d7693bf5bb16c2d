package dialect

import (
	"strings"

	"github.com/Lupennat/ludb-sub002/internal/validation"
)

// CompileInsert compiles an insert of one or more rows. Columns are taken
// from the first row in sorted order; every row must carry the same set.
func (g *Grammar) CompileInsert(r *Registry, rows []map[string]any) (string, []any, error) {
	table, err := g.WrapTable(r.From)
	if err != nil {
		return "", nil, err
	}
	if len(rows) == 0 {
		return g.d.CompileEmptyInsert(g, table), nil, nil
	}
	columns, values, err := insertColumns(rows)
	if err != nil {
		return "", nil, err
	}
	names, err := g.ColumnizeNames(columns)
	if err != nil {
		return "", nil, err
	}
	records := make([]string, len(values))
	var bindings []any
	for i, row := range values {
		params, args := g.Parameterize(row)
		records[i] = "(" + params + ")"
		bindings = append(bindings, args...)
	}
	return "insert into " + table + " (" + names + ") values " + strings.Join(records, ", "), bindings, nil
}

// CompileInsertOrIgnore compiles an insert that skips conflicting rows.
func (g *Grammar) CompileInsertOrIgnore(r *Registry, rows []map[string]any) (string, []any, error) {
	return g.d.CompileInsertOrIgnore(g, r, rows)
}

// CompileInsertGetID compiles an insert whose generated key is read back.
func (g *Grammar) CompileInsertGetID(r *Registry, row map[string]any, sequence string) (string, []any, error) {
	return g.d.CompileInsertGetID(g, r, row, sequence)
}

// CompileInsertUsing compiles "insert into t (cols) select ...".
func (g *Grammar) CompileInsertUsing(r *Registry, columns []string, query *Registry) (string, []any, error) {
	table, err := g.WrapTable(r.From)
	if err != nil {
		return "", nil, err
	}
	sql, bindings, err := g.CompileSelect(query)
	if err != nil {
		return "", nil, err
	}
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == "*") {
		return "insert into " + table + " " + sql, bindings, nil
	}
	names, err := g.ColumnizeNames(columns)
	if err != nil {
		return "", nil, err
	}
	return "insert into " + table + " (" + names + ") " + sql, bindings, nil
}

// CompileUpdate compiles an update of the rows matched by r.
func (g *Grammar) CompileUpdate(r *Registry, values map[string]any) (string, []any, error) {
	return g.d.CompileUpdateStatement(g, r, SortedAssignments(values))
}

// CompileUpsert compiles an insert that updates rows conflicting on
// uniqueBy. update entries are column names (copied from the inserted row)
// or Assignments. Without update entries it is a plain insert.
func (g *Grammar) CompileUpsert(r *Registry, rows []map[string]any, uniqueBy []string, update []any) (string, []any, error) {
	if len(rows) == 0 {
		return "", nil, ErrEmptyBatch
	}
	if len(update) == 0 {
		return g.CompileInsert(r, rows)
	}
	if len(uniqueBy) == 0 {
		return "", nil, ErrEmptyUniqueBy
	}
	for _, u := range update {
		switch u.(type) {
		case string, Assignment:
		default:
			return "", nil, ErrInvalidUpsertValue
		}
	}
	return g.d.CompileUpsert(g, r, rows, uniqueBy, update)
}

// CompileDelete compiles a delete of the rows matched by r.
func (g *Grammar) CompileDelete(r *Registry) (string, []any, error) {
	return g.d.CompileDeleteStatement(g, r)
}

// CompileTruncate compiles the statements emptying the table of r.
func (g *Grammar) CompileTruncate(r *Registry) ([]Statement, error) {
	return g.d.CompileTruncate(g, r)
}

// ----------------------------------------------------------------------------
// Shared update / delete forms
// ----------------------------------------------------------------------------

// compileUpdate is the portable update, with or without joins.
func (g *Grammar) compileUpdate(r *Registry, values []Assignment) (string, []any, error) {
	if len(r.Joins) > 0 {
		return g.compileUpdateWithJoins(r, values)
	}
	return g.compileUpdateWithoutJoins(r, values)
}

func (g *Grammar) compileUpdateWithoutJoins(r *Registry, values []Assignment) (string, []any, error) {
	table, err := g.WrapTable(r.From)
	if err != nil {
		return "", nil, err
	}
	w := &writer{}
	columns, args, err := g.d.CompileUpdateColumns(g, values)
	if err != nil {
		return "", nil, err
	}
	w.add("update "+table+" set "+columns, args...)
	where, args, err := g.compileWheres(r.Wheres, "where")
	if err != nil {
		return "", nil, err
	}
	w.add(where, args...)
	return w.String(), w.bindings, nil
}

func (g *Grammar) compileUpdateWithJoins(r *Registry, values []Assignment) (string, []any, error) {
	table, err := g.WrapTable(r.From)
	if err != nil {
		return "", nil, err
	}
	w := &writer{}
	joins, args, err := g.compileJoins(r.Joins)
	if err != nil {
		return "", nil, err
	}
	w.add("update "+table+" "+joins, args...)
	columns, args, err := g.d.CompileUpdateColumns(g, values)
	if err != nil {
		return "", nil, err
	}
	w.add("set "+columns, args...)
	where, args, err := g.compileWheres(r.Wheres, "where")
	if err != nil {
		return "", nil, err
	}
	w.add(where, args...)
	return w.String(), w.bindings, nil
}

// compileUpdateByKey restricts the update to the rows whose key column is
// returned by the query itself; used where the engine has no update with
// join or limit.
func (g *Grammar) compileUpdateByKey(r *Registry, values []Assignment, key string) (string, []any, error) {
	table, err := g.WrapTable(r.From)
	if err != nil {
		return "", nil, err
	}
	columns, bindings, err := g.d.CompileUpdateColumns(g, values)
	if err != nil {
		return "", nil, err
	}
	sub, args, err := g.compileKeySelect(r, key)
	if err != nil {
		return "", nil, err
	}
	sql := "update " + table + " set " + columns + " where " + g.WrapValue(key) + " in (" + sub + ")"
	return sql, append(bindings, args...), nil
}

func (g *Grammar) compileDeleteByKey(r *Registry, key string) (string, []any, error) {
	table, err := g.WrapTable(r.From)
	if err != nil {
		return "", nil, err
	}
	sub, bindings, err := g.compileKeySelect(r, key)
	if err != nil {
		return "", nil, err
	}
	return "delete from " + table + " where " + g.WrapValue(key) + " in (" + sub + ")", bindings, nil
}

// compileKeySelect selects alias.key on a clone of r.
func (g *Grammar) compileKeySelect(r *Registry, key string) (string, []any, error) {
	sel := r.Clone()
	sel.Columns = []any{validation.LastAlias(fromName(r.From)) + "." + key}
	sel.Aggregate = nil
	return g.CompileSelect(sel)
}

// compileDelete is the portable delete, with or without joins.
func (g *Grammar) compileDelete(r *Registry) (string, []any, error) {
	table, err := g.WrapTable(r.From)
	if err != nil {
		return "", nil, err
	}
	w := &writer{}
	if len(r.Joins) > 0 {
		alias := validation.LastAlias(table)
		joins, args, err := g.compileJoins(r.Joins)
		if err != nil {
			return "", nil, err
		}
		w.add("delete "+alias+" from "+table+" "+joins, args...)
	} else {
		w.add("delete from " + table)
	}
	where, args, err := g.compileWheres(r.Wheres, "where")
	if err != nil {
		return "", nil, err
	}
	w.add(where, args...)
	return w.String(), w.bindings, nil
}

// compileUpsertAssignments renders the update list of an upsert. source
// renders the "take it from the inserted row" form for a column.
func (g *Grammar) compileUpsertAssignments(update []any, source func(column string) string) (string, []any, error) {
	parts := make([]string, 0, len(update))
	var bindings []any
	for _, u := range update {
		switch v := u.(type) {
		case string:
			parts = append(parts, g.wrapPlain(v)+" = "+source(v))
		case Assignment:
			parts = append(parts, g.wrapPlain(v.Column)+" = "+g.Parameter(v.Value))
			bindings = append(bindings, bind(v.Value)...)
		default:
			return "", nil, ErrInvalidUpsertValue
		}
	}
	return strings.Join(parts, ", "), bindings, nil
}
