package dialect

import (
	"strings"

	"github.com/Lupennat/ludb-sub002/internal/validation"
)

// sqliteDialect renders SQLite syntax.
type sqliteDialect struct {
	baseDialect
}

// SQLite returns the SQLite grammar.
func SQLite() *Grammar {
	return New(sqliteDialect{baseDialect: newBaseDialect("sqlite")})
}

// CompileLimitOffset pairs a lone offset with "limit -1".
func (sqliteDialect) CompileLimitOffset(_ *Grammar, limit, offset *int) string {
	return limitOffset(limit, offset, "-1")
}

var sqliteDateFormats = map[DatePart]string{
	PartDate:  "%Y-%m-%d",
	PartTime:  "%H:%M:%S",
	PartDay:   "%d",
	PartMonth: "%m",
	PartYear:  "%Y",
}

// CompileDatePart compares strftime output as text.
func (sqliteDialect) CompileDatePart(_ *Grammar, part DatePart, column, operator, value string) string {
	return "strftime('" + sqliteDateFormats[part] + "', " + column + ") " + operator + " cast(" + value + " as text)"
}

func (sqliteDialect) WrapJSONSelector(g *Grammar, value string) (string, error) {
	field, path := g.wrapJSONFieldAndPath(value)
	return "json_extract(" + field + path + ")", nil
}

func (sqliteDialect) CompileJSONContainsKey(g *Grammar, column string) (string, error) {
	field, path := g.wrapJSONFieldAndPath(column)
	return "json_type(" + field + path + ") is not null", nil
}

func (sqliteDialect) CompileJSONLength(g *Grammar, column, operator, value string) (string, error) {
	field, path := g.wrapJSONFieldAndPath(column)
	return "json_array_length(" + field + path + ") " + operator + " " + value, nil
}

// CompileUpdateColumns merges every JSON path update of a column into one
// json_patch call. Plain columns come first, then one patch per JSON column
// in the order the column first appears.
func (sqliteDialect) CompileUpdateColumns(g *Grammar, values []Assignment) (string, []any, error) {
	var parts []string
	var bindings []any

	var groupOrder []string
	groups := map[string]map[string]any{}

	for _, a := range values {
		if validation.IsJSONSelector(a.Column) {
			path := strings.Split(a.Column, "->")
			column := lastSegment(path[0])
			if _, ok := groups[column]; !ok {
				groups[column] = map[string]any{}
				groupOrder = append(groupOrder, column)
			}
			setJSONPath(groups[column], path[1:], a.Value)
			continue
		}
		value, args, err := updateParameter(g, a.Value)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, g.WrapValue(lastSegment(a.Column))+" = "+value)
		bindings = append(bindings, args...)
	}

	for _, column := range groupOrder {
		encoded, err := jsonEncode(groups[column])
		if err != nil {
			return "", nil, err
		}
		wrapped := g.WrapValue(column)
		parts = append(parts, wrapped+" = json_patch(ifnull("+wrapped+", json('{}')), json(?))")
		bindings = append(bindings, encoded)
	}
	return strings.Join(parts, ", "), bindings, nil
}

func lastSegment(column string) string {
	segments := strings.Split(column, ".")
	return segments[len(segments)-1]
}

// setJSONPath stores value at path inside doc, creating objects on the way.
func setJSONPath(doc map[string]any, path []string, value any) {
	for i, key := range path {
		if i == len(path)-1 {
			doc[key] = value
			return
		}
		next, ok := doc[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			doc[key] = next
		}
		doc = next
	}
}

func (sqliteDialect) CompileUpsert(g *Grammar, r *Registry, rows []map[string]any, uniqueBy []string, update []any) (string, []any, error) {
	return compileOnConflictUpsert(g, r, rows, uniqueBy, update)
}

func (sqliteDialect) CompileInsertOrIgnore(g *Grammar, r *Registry, rows []map[string]any) (string, []any, error) {
	sql, bindings, err := g.CompileInsert(r, rows)
	if err != nil {
		return "", nil, err
	}
	return strings.Replace(sql, "insert", "insert or ignore", 1), bindings, nil
}

// CompileLock renders nothing; SQLite locks the whole database file.
func (sqliteDialect) CompileLock(*Registry) string { return "" }

func (sqliteDialect) WrapUnion(_ *Grammar, sql string) string {
	return "select * from (" + sql + ")"
}

// CompileUpdateStatement targets rows by rowid when joins or a limit are set.
func (sqliteDialect) CompileUpdateStatement(g *Grammar, r *Registry, values []Assignment) (string, []any, error) {
	if len(r.Joins) > 0 || r.Limit != nil {
		return g.compileUpdateByKey(r, values, "rowid")
	}
	return g.compileUpdate(r, values)
}

// CompileDeleteStatement targets rows by rowid when joins or a limit are set.
func (sqliteDialect) CompileDeleteStatement(g *Grammar, r *Registry) (string, []any, error) {
	if len(r.Joins) > 0 || r.Limit != nil {
		return g.compileDeleteByKey(r, "rowid")
	}
	return g.compileDelete(r)
}

// CompileTruncate clears the table and resets its autoincrement sequence.
func (sqliteDialect) CompileTruncate(g *Grammar, r *Registry) ([]Statement, error) {
	table, err := g.WrapTable(r.From)
	if err != nil {
		return nil, err
	}
	return []Statement{
		{SQL: "delete from sqlite_sequence where name = ?", Bindings: []any{g.prefix + fromName(r.From)}},
		{SQL: "delete from " + table},
	}, nil
}
