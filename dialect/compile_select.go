package dialect

import (
	"strconv"
	"strings"
)

// writer collects non-empty SQL segments and the bindings they introduced,
// in emission order.
type writer struct {
	parts    []string
	bindings []any
}

func (w *writer) add(sql string, bindings ...any) {
	if sql != "" {
		w.parts = append(w.parts, sql)
	}
	w.bindings = append(w.bindings, bindings...)
}

func (w *writer) String() string {
	return strings.TrimSpace(strings.Join(w.parts, " "))
}

// CompileSelect compiles a select statement.
func (g *Grammar) CompileSelect(r *Registry) (string, []any, error) {
	if r == nil {
		return "", nil, ErrNoTable
	}
	r = g.d.PrepareSelect(r)

	if (len(r.Unions) > 0 || len(r.Havings) > 0) && r.Aggregate != nil {
		return g.compileUnionAggregate(r)
	}

	w := &writer{}
	if err := g.compileComponents(w, r); err != nil {
		return "", nil, err
	}
	sql := w.String()
	bindings := w.bindings

	if len(r.Unions) > 0 {
		unions, args, err := g.compileUnions(r)
		if err != nil {
			return "", nil, err
		}
		sql = g.d.WrapUnion(g, sql) + " " + unions
		bindings = append(bindings, args...)
	}
	return sql, bindings, nil
}

func (g *Grammar) compileComponents(w *writer, r *Registry) error {
	if r.Aggregate != nil {
		sql, args, err := g.compileAggregate(r)
		if err != nil {
			return err
		}
		w.add(sql, args...)
	} else {
		columns := r.Columns
		if len(columns) == 0 {
			columns = []any{"*"}
		}
		sql, args, err := g.Columnize(columns)
		if err != nil {
			return err
		}
		w.add(g.d.SelectKeyword(g, r)+sql, args...)
	}

	if r.From != nil {
		from, args, err := g.compileTableRef(r.From)
		if err != nil {
			return err
		}
		sql := "from " + from
		if hint := g.d.FromLockHint(r); hint != "" {
			sql += " " + hint
		}
		w.add(sql, args...)
	}

	if len(r.Joins) > 0 {
		sql, args, err := g.compileJoins(r.Joins)
		if err != nil {
			return err
		}
		w.add(sql, args...)
	}

	if len(r.Wheres) > 0 {
		sql, args, err := g.compileWheres(r.Wheres, "where")
		if err != nil {
			return err
		}
		w.add(sql, args...)
	}

	if len(r.Groups) > 0 {
		sql, args, err := g.Columnize(r.Groups)
		if err != nil {
			return err
		}
		w.add("group by "+sql, args...)
	}

	if len(r.Havings) > 0 {
		sql, args, err := g.compileHavings(r.Havings)
		if err != nil {
			return err
		}
		w.add(sql, args...)
	}

	if len(r.Orders) > 0 {
		sql, args, err := g.compileOrders(r.Orders)
		if err != nil {
			return err
		}
		w.add(sql, args...)
	}

	w.add(g.d.CompileLimitOffset(g, r.Limit, r.Offset))
	w.add(g.d.CompileLock(r))
	return nil
}

func (g *Grammar) compileAggregate(r *Registry) (string, []any, error) {
	column, bindings, err := g.Columnize(r.Aggregate.Columns)
	if err != nil {
		return "", nil, err
	}
	if len(r.DistinctColumns) > 0 {
		distinct, err := g.ColumnizeNames(r.DistinctColumns)
		if err != nil {
			return "", nil, err
		}
		column = "distinct " + distinct
	} else if r.Distinct && column != "*" {
		column = "distinct " + column
	}
	return "select " + r.Aggregate.Function + "(" + column + ") as aggregate", bindings, nil
}

// compileUnionAggregate runs the aggregate over the whole union (or
// grouped query) as a derived table.
func (g *Grammar) compileUnionAggregate(r *Registry) (string, []any, error) {
	agg, bindings, err := g.compileAggregate(r)
	if err != nil {
		return "", nil, err
	}
	inner := r.Clone()
	inner.Aggregate = nil
	sql, args, err := g.CompileSelect(inner)
	if err != nil {
		return "", nil, err
	}
	temp, err := g.WrapTable("temp_table")
	if err != nil {
		return "", nil, err
	}
	return agg + " from (" + sql + ") as " + temp, append(bindings, args...), nil
}

func (g *Grammar) compileJoins(joins []*Join) (string, []any, error) {
	parts := make([]string, 0, len(joins))
	var bindings []any
	for _, j := range joins {
		table, args, err := g.compileTableRef(j.Table)
		if err != nil {
			return "", nil, err
		}
		bindings = append(bindings, args...)
		on, args, err := g.compileWheres(j.Wheres, "on")
		if err != nil {
			return "", nil, err
		}
		bindings = append(bindings, args...)
		parts = append(parts, strings.TrimSpace(string(j.Type)+" join "+table+" "+on))
	}
	return strings.Join(parts, " "), bindings, nil
}

func (g *Grammar) compileOrders(orders []Order) (string, []any, error) {
	parts := make([]string, 0, len(orders))
	var bindings []any
	for _, o := range orders {
		direction := string(o.Direction)
		if direction == "" {
			direction = string(OrderAsc)
		}
		switch c := o.Column.(type) {
		case RawClause:
			parts = append(parts, c.SQL)
			bindings = append(bindings, c.Bindings...)
		case *Registry:
			sql, args, err := g.CompileSelect(c)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, "("+sql+") "+direction)
			bindings = append(bindings, args...)
		default:
			wrapped, err := g.Wrap(o.Column)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, wrapped+" "+direction)
		}
	}
	return "order by " + strings.Join(parts, ", "), bindings, nil
}

func (g *Grammar) compileUnions(r *Registry) (string, []any, error) {
	var sb strings.Builder
	var bindings []any
	for _, u := range r.Unions {
		sql, args, err := g.CompileSelect(u.Query)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(g.d.CompileUnion(g, sql, u.All))
		bindings = append(bindings, args...)
	}
	if len(r.UnionOrders) > 0 {
		sql, args, err := g.compileOrders(r.UnionOrders)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" " + sql)
		bindings = append(bindings, args...)
	}
	if tail := g.d.CompileLimitOffset(g, r.UnionLimit, r.UnionOffset); tail != "" {
		sb.WriteString(" " + tail)
	}
	return strings.TrimLeft(sb.String(), " "), bindings, nil
}

// CompileExists compiles a query checking whether r returns any row.
func (g *Grammar) CompileExists(r *Registry) (string, []any, error) {
	return g.d.CompileExists(g, r)
}

// CompileRandom returns the random ordering expression.
func (g *Grammar) CompileRandom(seed string) string {
	return g.d.CompileRandom(seed)
}

// CompileSavepoint returns the statement creating a savepoint.
func (g *Grammar) CompileSavepoint(name string) string {
	return g.d.CompileSavepoint(name)
}

// CompileSavepointRollBack returns the statement rolling back to a savepoint.
func (g *Grammar) CompileSavepointRollBack(name string) string {
	return g.d.CompileSavepointRollBack(name)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
