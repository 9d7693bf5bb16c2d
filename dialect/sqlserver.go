package dialect

import (
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/Lupennat/ludb-sub002/internal/validation"
)

// upsertSource is the alias of the values table in a merge statement.
const upsertSource = "ludb_source"

// sqlServerDialect renders Transact-SQL for go-mssqldb.
type sqlServerDialect struct {
	baseDialect
}

// SQLServer returns the SQL Server grammar.
func SQLServer() *Grammar {
	return New(sqlServerDialect{baseDialect: newBaseDialect("sqlsrv", "!<", "!>", "&=", "|=", "^=")})
}

// QuoteIdentifier wraps a segment in brackets: users -> [users].
func (sqlServerDialect) QuoteIdentifier(segment string) string {
	return "[" + strings.ReplaceAll(segment, "]", "]]") + "]"
}

func (sqlServerDialect) DateFormat() string { return "2006-01-02 15:04:05.000" }

func (d sqlServerDialect) CompileDatePart(g *Grammar, part DatePart, column, operator, value string) string {
	switch part {
	case PartDate:
		return "cast(" + column + " as date) " + operator + " " + value
	case PartTime:
		return "cast(" + column + " as time) " + operator + " " + value
	}
	return d.baseDialect.CompileDatePart(g, part, column, operator, value)
}

// ----------------------------------------------------------------------------
// JSON
// ----------------------------------------------------------------------------

func (sqlServerDialect) WrapJSONSelector(g *Grammar, value string) (string, error) {
	field, path := g.wrapJSONFieldAndPath(value)
	return "json_value(" + field + path + ")", nil
}

func (sqlServerDialect) CompileJSONContains(g *Grammar, column, value string) (string, error) {
	field, path := g.wrapJSONFieldAndPath(column)
	return value + " in (select [value] from openjson(" + field + path + "))", nil
}

// PrepareJSONContainsBinding binds scalars as they are; openjson yields
// booleans as the JSON literals true and false.
func (sqlServerDialect) PrepareJSONContainsBinding(value any) (any, error) {
	if b, ok := value.(bool); ok {
		if b {
			return "true", nil
		}
		return "false", nil
	}
	return value, nil
}

var numericIndexRe = regexp.MustCompile(`\[([0-9]+)\]$`)

func (sqlServerDialect) CompileJSONContainsKey(g *Grammar, column string) (string, error) {
	segments := strings.Split(column, "->")
	last := segments[len(segments)-1]
	segments = segments[:len(segments)-1]

	var key string
	if m := numericIndexRe.FindStringSubmatch(last); m != nil {
		segments = append(segments, strings.TrimSuffix(last, m[0]))
		key = m[1]
	} else {
		key = "'" + strings.ReplaceAll(last, "'", "''") + "'"
	}
	field, path := g.wrapJSONFieldAndPath(strings.Join(segments, "->"))
	return key + " in (select [key] from openjson(" + field + path + "))", nil
}

func (sqlServerDialect) CompileJSONLength(g *Grammar, column, operator, value string) (string, error) {
	field, path := g.wrapJSONFieldAndPath(column)
	return "(select count(*) from openjson(" + field + path + ")) " + operator + " " + value, nil
}

// ----------------------------------------------------------------------------
// Upsert and inserts
// ----------------------------------------------------------------------------

// CompileUpsert renders a merge against an inline values table.
func (sqlServerDialect) CompileUpsert(g *Grammar, r *Registry, rows []map[string]any, uniqueBy []string, update []any) (string, []any, error) {
	table, err := g.WrapTable(r.From)
	if err != nil {
		return "", nil, err
	}
	names, values, err := insertColumns(rows)
	if err != nil {
		return "", nil, err
	}
	columns, err := g.ColumnizeNames(names)
	if err != nil {
		return "", nil, err
	}
	source, err := g.WrapTable(upsertSource)
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

	on := make([]string, len(uniqueBy))
	target := fromName(r.From)
	for i, column := range uniqueBy {
		on[i] = g.wrapPlain(upsertSource+"."+column) + " = " + g.wrapPlain(target+"."+column)
	}

	var sb strings.Builder
	sb.WriteString("merge " + table + " ")
	sb.WriteString("using (values " + strings.Join(records, ", ") + ") " + source + " (" + columns + ") ")
	sb.WriteString("on " + strings.Join(on, " and ") + " ")

	assignments, args, err := g.compileUpsertAssignments(update, func(column string) string {
		return g.wrapPlain(upsertSource + "." + column)
	})
	if err != nil {
		return "", nil, err
	}
	sb.WriteString("when matched then update set " + assignments + " ")
	bindings = append(bindings, args...)

	sb.WriteString("when not matched then insert (" + columns + ") values (" + columns + ");")
	return sb.String(), bindings, nil
}

// CompileInsertGetID reads the generated key back with an output clause.
func (sqlServerDialect) CompileInsertGetID(g *Grammar, r *Registry, row map[string]any, sequence string) (string, []any, error) {
	table, err := g.WrapTable(r.From)
	if err != nil {
		return "", nil, err
	}
	if sequence == "" {
		sequence = "id"
	}
	output := "output inserted." + g.wrapPlain(sequence)
	if len(row) == 0 {
		return "insert into " + table + " " + output + " default values", nil, nil
	}
	names, values, err := insertColumns([]map[string]any{row})
	if err != nil {
		return "", nil, err
	}
	columns, err := g.ColumnizeNames(names)
	if err != nil {
		return "", nil, err
	}
	params, bindings := g.Parameterize(values[0])
	return "insert into " + table + " (" + columns + ") " + output + " values (" + params + ")", bindings, nil
}

// ----------------------------------------------------------------------------
// Pagination and locks
// ----------------------------------------------------------------------------

// PrepareSelect adds a neutral order when an offset is requested without
// one, since offset ... fetch requires an order by clause.
func (sqlServerDialect) PrepareSelect(r *Registry) *Registry {
	if r.Offset == nil || *r.Offset <= 0 || len(r.Orders) > 0 {
		return r
	}
	c := r.Clone()
	c.Orders = []Order{{Column: RawClause{SQL: "(SELECT 0)"}}}
	return c
}

// SelectKeyword renders "top n" for a limit without offset.
func (d sqlServerDialect) SelectKeyword(g *Grammar, r *Registry) string {
	keyword := d.baseDialect.SelectKeyword(g, r)
	if r.Limit != nil && *r.Limit > 0 && (r.Offset == nil || *r.Offset <= 0) {
		keyword += "top " + itoa(*r.Limit) + " "
	}
	return keyword
}

func (sqlServerDialect) CompileLimitOffset(_ *Grammar, limit, offset *int) string {
	if offset == nil || *offset <= 0 {
		return ""
	}
	sql := "offset " + itoa(*offset) + " rows"
	if limit != nil && *limit > 0 {
		sql += " fetch next " + itoa(*limit) + " rows only"
	}
	return sql
}

// FromLockHint renders the lock as a table hint after the from clause.
func (sqlServerDialect) FromLockHint(r *Registry) string {
	switch r.Lock {
	case LockForUpdate:
		return "with(rowlock,updlock,holdlock)"
	case LockShared:
		return "with(rowlock,holdlock)"
	case LockCustom:
		return r.LockRaw
	}
	return ""
}

func (sqlServerDialect) CompileLock(*Registry) string { return "" }

func (sqlServerDialect) WrapUnion(g *Grammar, sql string) string {
	temp, _ := g.WrapTable("temp_table")
	return "select * from (" + sql + ") as " + temp
}

// ----------------------------------------------------------------------------
// Update, delete and small statements
// ----------------------------------------------------------------------------

// CompileUpdateStatement uses "update alias set ... from table joins" when
// joins are present.
func (sqlServerDialect) CompileUpdateStatement(g *Grammar, r *Registry, values []Assignment) (string, []any, error) {
	if len(r.Joins) == 0 {
		return g.compileUpdate(r, values)
	}
	table, err := g.WrapTable(r.From)
	if err != nil {
		return "", nil, err
	}
	w := &writer{}
	columns, args, err := g.d.CompileUpdateColumns(g, values)
	if err != nil {
		return "", nil, err
	}
	w.add("update "+validation.LastAlias(table)+" set "+columns, args...)
	joins, args, err := g.compileJoins(r.Joins)
	if err != nil {
		return "", nil, err
	}
	w.add("from "+table+" "+joins, args...)
	where, args, err := g.compileWheres(r.Wheres, "where")
	if err != nil {
		return "", nil, err
	}
	w.add(where, args...)
	return w.String(), w.bindings, nil
}

// CompileDeleteStatement renders a limit without offset as "delete top (n)".
func (sqlServerDialect) CompileDeleteStatement(g *Grammar, r *Registry) (string, []any, error) {
	sql, bindings, err := g.compileDelete(r)
	if err != nil || len(r.Joins) > 0 {
		return sql, bindings, err
	}
	if r.Limit != nil && *r.Limit > 0 && (r.Offset == nil || *r.Offset <= 0) {
		sql = strings.Replace(sql, "delete", "delete top ("+itoa(*r.Limit)+")", 1)
	}
	return sql, bindings, nil
}

// CompileExists selects a constant from the first matching row.
func (sqlServerDialect) CompileExists(g *Grammar, r *Registry) (string, []any, error) {
	c := r.Clone()
	c.Columns = []any{RawClause{SQL: "1 [exists]"}}
	c.Aggregate = nil
	limit := 1
	c.Limit = &limit
	return g.CompileSelect(c)
}

func (sqlServerDialect) CompileRandom(string) string { return "NEWID()" }

func (sqlServerDialect) CompileSavepoint(name string) string { return "SAVE TRANSACTION " + name }

func (sqlServerDialect) CompileSavepointRollBack(name string) string {
	return "ROLLBACK TRANSACTION " + name
}

func (sqlServerDialect) EscapeBinary(v []byte) string {
	return "0x" + hex.EncodeToString(v)
}

func (sqlServerDialect) PlaceholderStyle() PlaceholderStyle { return PlaceholderAtP }
