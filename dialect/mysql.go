package dialect

import (
	"strings"

	"github.com/Lupennat/ludb-sub002/internal/validation"
)

// mysqlDialect renders MySQL and MariaDB syntax.
type mysqlDialect struct {
	baseDialect
}

// MySQL returns the MySQL grammar.
func MySQL() *Grammar {
	return New(mysqlDialect{baseDialect: newBaseDialect("mysql", "sounds like")})
}

// QuoteIdentifier wraps a segment in backticks: users -> `users`.
func (mysqlDialect) QuoteIdentifier(segment string) string {
	return "`" + strings.ReplaceAll(segment, "`", "``") + "`"
}

// CompileLimitOffset pairs a lone offset with the largest unsigned bigint,
// since MySQL has no offset clause without a limit.
func (mysqlDialect) CompileLimitOffset(_ *Grammar, limit, offset *int) string {
	return limitOffset(limit, offset, "18446744073709551615")
}

// ----------------------------------------------------------------------------
// JSON
// ----------------------------------------------------------------------------

func (mysqlDialect) WrapJSONSelector(g *Grammar, value string) (string, error) {
	field, path := g.wrapJSONFieldAndPath(value)
	return "json_unquote(json_extract(" + field + path + "))", nil
}

func (mysqlDialect) CompileJSONContains(g *Grammar, column, value string) (string, error) {
	field, path := g.wrapJSONFieldAndPath(column)
	return "json_contains(" + field + ", " + value + path + ")", nil
}

func (mysqlDialect) CompileJSONContainsKey(g *Grammar, column string) (string, error) {
	field, path := g.wrapJSONFieldAndPath(column)
	return "ifnull(json_contains_path(" + field + ", 'one'" + path + "), 0)", nil
}

func (mysqlDialect) CompileJSONLength(g *Grammar, column, operator, value string) (string, error) {
	field, path := g.wrapJSONFieldAndPath(column)
	return "json_length(" + field + path + ") " + operator + " " + value, nil
}

// CompileNullCheck treats a JSON null stored at a path like a missing path.
func (d mysqlDialect) CompileNullCheck(g *Grammar, column any, not bool) (string, error) {
	name := columnText(column)
	if !validation.IsJSONSelector(name) {
		return d.baseDialect.CompileNullCheck(g, column, not)
	}
	field, path := g.wrapJSONFieldAndPath(name)
	extract := "json_extract(" + field + path + ")"
	if not {
		return "(" + extract + " is not null AND json_type(" + extract + ") != 'NULL')", nil
	}
	return "(" + extract + " is null OR json_type(" + extract + ") = 'NULL')", nil
}

// CompileUpdateColumns writes JSON paths with json_set. Booleans are inlined
// as JSON literals and slices or maps are cast from their JSON encoding.
func (mysqlDialect) CompileUpdateColumns(g *Grammar, values []Assignment) (string, []any, error) {
	parts := make([]string, len(values))
	var bindings []any
	for i, a := range values {
		if !validation.IsJSONSelector(a.Column) {
			column, err := g.Wrap(a.Column)
			if err != nil {
				return "", nil, err
			}
			value, args, err := updateParameter(g, a.Value)
			if err != nil {
				return "", nil, err
			}
			parts[i] = column + " = " + value
			bindings = append(bindings, args...)
			continue
		}

		var value string
		switch v := a.Value.(type) {
		case bool:
			value = "false"
			if v {
				value = "true"
			}
		default:
			if isJSONValue(v) {
				encoded, err := jsonEncode(v)
				if err != nil {
					return "", nil, err
				}
				value = "cast(? as json)"
				bindings = append(bindings, encoded)
				break
			}
			value = g.Parameter(v)
			bindings = append(bindings, bind(v)...)
		}
		field, path := g.wrapJSONFieldAndPath(a.Column)
		parts[i] = field + " = json_set(" + field + path + ", " + value + ")"
	}
	return strings.Join(parts, ", "), bindings, nil
}

// ----------------------------------------------------------------------------
// Fulltext and upsert
// ----------------------------------------------------------------------------

func (mysqlDialect) CompileFulltext(g *Grammar, where WhereFulltext) (string, []any, error) {
	columns, err := g.ColumnizeNames(where.Columns)
	if err != nil {
		return "", nil, err
	}
	mode := " in natural language mode"
	if where.Options.Mode == "boolean" {
		mode = " in boolean mode"
	}
	expanded := ""
	if where.Options.Expanded && where.Options.Mode != "boolean" {
		expanded = " with query expansion"
	}
	return "match (" + columns + ") against (?" + mode + expanded + ")", []any{where.Value}, nil
}

func (mysqlDialect) CompileUpsert(g *Grammar, r *Registry, rows []map[string]any, _ []string, update []any) (string, []any, error) {
	sql, bindings, err := g.CompileInsert(r, rows)
	if err != nil {
		return "", nil, err
	}
	columns, args, err := g.compileUpsertAssignments(update, func(column string) string {
		return "values(" + g.wrapPlain(column) + ")"
	})
	if err != nil {
		return "", nil, err
	}
	return sql + " on duplicate key update " + columns, append(bindings, args...), nil
}

// ----------------------------------------------------------------------------
// Inserts
// ----------------------------------------------------------------------------

func (mysqlDialect) CompileEmptyInsert(_ *Grammar, table string) string {
	return "insert into " + table + " () values ()"
}

func (mysqlDialect) CompileInsertOrIgnore(g *Grammar, r *Registry, rows []map[string]any) (string, []any, error) {
	sql, bindings, err := g.CompileInsert(r, rows)
	if err != nil {
		return "", nil, err
	}
	return strings.Replace(sql, "insert", "insert ignore", 1), bindings, nil
}

// ----------------------------------------------------------------------------
// Locks, update and delete
// ----------------------------------------------------------------------------

func (mysqlDialect) CompileLock(r *Registry) string {
	switch r.Lock {
	case LockForUpdate:
		return "for update"
	case LockShared:
		return "lock in share mode"
	case LockCustom:
		return r.LockRaw
	}
	return ""
}

// CompileUpdateStatement appends order by and limit to single table updates.
func (d mysqlDialect) CompileUpdateStatement(g *Grammar, r *Registry, values []Assignment) (string, []any, error) {
	sql, bindings, err := g.compileUpdate(r, values)
	if err != nil || len(r.Joins) > 0 {
		return sql, bindings, err
	}
	return d.appendOrderAndLimit(g, r, sql, bindings)
}

// CompileDeleteStatement appends order by and limit to single table deletes.
func (d mysqlDialect) CompileDeleteStatement(g *Grammar, r *Registry) (string, []any, error) {
	sql, bindings, err := g.compileDelete(r)
	if err != nil || len(r.Joins) > 0 {
		return sql, bindings, err
	}
	return d.appendOrderAndLimit(g, r, sql, bindings)
}

func (mysqlDialect) appendOrderAndLimit(g *Grammar, r *Registry, sql string, bindings []any) (string, []any, error) {
	if len(r.Orders) > 0 {
		orders, args, err := g.compileOrders(r.Orders)
		if err != nil {
			return "", nil, err
		}
		sql += " " + orders
		bindings = append(bindings, args...)
	}
	if r.Limit != nil {
		sql += " limit " + itoa(*r.Limit)
	}
	return sql, bindings, nil
}

// ----------------------------------------------------------------------------
// Literals and small statements
// ----------------------------------------------------------------------------

// EscapeString doubles quotes and escapes backslashes, which MySQL treats as
// an escape character inside literals.
func (mysqlDialect) EscapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (mysqlDialect) CompileRandom(seed string) string {
	return "RAND(" + seed + ")"
}

// ----------------------------------------------------------------------------
// Helpers shared by the JSON aware dialects
// ----------------------------------------------------------------------------

// columnText returns the textual column reference of a string or Expression.
func columnText(column any) string {
	switch c := column.(type) {
	case string:
		return c
	case Expression:
		return c.String()
	}
	return ""
}

// updateParameter renders a plain update value; slices and maps are bound as
// their JSON encoding.
func updateParameter(g *Grammar, value any) (string, []any, error) {
	if isJSONValue(value) {
		encoded, err := jsonEncode(value)
		if err != nil {
			return "", nil, err
		}
		return "?", []any{encoded}, nil
	}
	return g.Parameter(value), bind(value), nil
}
