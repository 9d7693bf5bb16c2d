package dialect

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/Lupennat/ludb-sub002/internal/validation"
)

// baseDialect holds the renderings shared by every engine. Dialects embed it
// and override the hooks whose syntax differs.
type baseDialect struct {
	name string
	ops  validation.OperatorSet
}

func newBaseDialect(name string, extraOperators ...string) baseDialect {
	return baseDialect{name: name, ops: validation.NewOperatorSet(extraOperators...)}
}

// Base returns a grammar with the generic syntax only. Engine specific
// features fail with an UnsupportedError.
func Base() *Grammar {
	return New(newBaseDialect("base"))
}

func (b baseDialect) Name() string { return b.name }

func (b baseDialect) QuoteIdentifier(segment string) string {
	return `"` + strings.ReplaceAll(segment, `"`, `""`) + `"`
}

// Operators

func (b baseDialect) IsOperator(op string) bool { return b.ops.Contains(op) }

func (b baseDialect) ValidateOperator(op string) error {
	if err := b.ops.ValidateOperator(op); err != nil {
		return &OperatorError{Operator: op, Err: err}
	}
	return nil
}

func (b baseDialect) Operators() []string { return b.ops.List() }

func (b baseDialect) CompileComparison(_ *Grammar, column, operator, value string) string {
	return column + " " + operator + " " + value
}

// Dates

func (b baseDialect) CompileDatePart(_ *Grammar, part DatePart, column, operator, value string) string {
	return string(part) + "(" + column + ") " + operator + " " + value
}

func (b baseDialect) DateFormat() string { return "2006-01-02 15:04:05" }

// JSON

func (b baseDialect) WrapJSONSelector(*Grammar, string) (string, error) {
	return "", unsupportedEngine(b.name, "json", "JSON operations")
}

func (b baseDialect) CompileJSONContains(*Grammar, string, string) (string, error) {
	return "", unsupportedEngine(b.name, "json contains", "JSON contains operations")
}

func (b baseDialect) PrepareJSONContainsBinding(value any) (any, error) {
	encoded, err := jsonEncode(value)
	if err != nil {
		return nil, err
	}
	return encoded, nil
}

func (b baseDialect) CompileJSONContainsKey(*Grammar, string) (string, error) {
	return "", unsupportedEngine(b.name, "json contains key", "JSON contains key operations")
}

func (b baseDialect) CompileJSONLength(*Grammar, string, string, string) (string, error) {
	return "", unsupportedEngine(b.name, "json length", "JSON length operations")
}

func (b baseDialect) CompileNullCheck(g *Grammar, column any, not bool) (string, error) {
	wrapped, err := g.Wrap(column)
	if err != nil {
		return "", err
	}
	if not {
		return wrapped + " is not null", nil
	}
	return wrapped + " is null", nil
}

func (b baseDialect) CompileUpdateColumns(g *Grammar, values []Assignment) (string, []any, error) {
	parts := make([]string, len(values))
	var bindings []any
	for i, a := range values {
		column, err := g.Wrap(a.Column)
		if err != nil {
			return "", nil, err
		}
		parts[i] = column + " = " + g.Parameter(a.Value)
		bindings = append(bindings, bind(a.Value)...)
	}
	return strings.Join(parts, ", "), bindings, nil
}

// Fulltext and upsert

func (b baseDialect) CompileFulltext(*Grammar, WhereFulltext) (string, []any, error) {
	return "", nil, unsupportedEngine(b.name, "fulltext", "fulltext search operations")
}

func (b baseDialect) CompileUpsert(*Grammar, *Registry, []map[string]any, []string, []any) (string, []any, error) {
	return "", nil, unsupported(b.name, "upserts")
}

// Inserts

func (b baseDialect) CompileEmptyInsert(_ *Grammar, table string) string {
	return "insert into " + table + " default values"
}

func (b baseDialect) CompileInsertOrIgnore(*Grammar, *Registry, []map[string]any) (string, []any, error) {
	return "", nil, unsupportedEngine(b.name, "insert or ignore", "inserting while ignoring errors")
}

func (b baseDialect) CompileInsertGetID(g *Grammar, r *Registry, row map[string]any, _ string) (string, []any, error) {
	return g.CompileInsert(r, []map[string]any{row})
}

// Select keyword, limit and offset

func (b baseDialect) PrepareSelect(r *Registry) *Registry { return r }

func (b baseDialect) SelectKeyword(_ *Grammar, r *Registry) string {
	if r.Distinct || len(r.DistinctColumns) > 0 {
		return "select distinct "
	}
	return "select "
}

func (b baseDialect) CompileLimitOffset(_ *Grammar, limit, offset *int) string {
	return limitOffset(limit, offset, "")
}

// limitOffset renders "limit n offset m". Engines that reject an offset
// without a limit pass the literal that means no limit as unbounded.
func limitOffset(limit, offset *int, unbounded string) string {
	var parts []string
	switch {
	case limit != nil:
		parts = append(parts, "limit "+itoa(*limit))
	case offset != nil && unbounded != "":
		parts = append(parts, "limit "+unbounded)
	}
	if offset != nil {
		parts = append(parts, "offset "+itoa(*offset))
	}
	return strings.Join(parts, " ")
}

// Locks

func (b baseDialect) FromLockHint(*Registry) string { return "" }

func (b baseDialect) CompileLock(r *Registry) string {
	if r.Lock == LockCustom {
		return r.LockRaw
	}
	return ""
}

// Unions

func (b baseDialect) WrapUnion(_ *Grammar, sql string) string {
	return "(" + sql + ")"
}

func (b baseDialect) CompileUnion(g *Grammar, sql string, all bool) string {
	if all {
		return " union all " + g.d.WrapUnion(g, sql)
	}
	return " union " + g.d.WrapUnion(g, sql)
}

// Update, delete and truncate

func (b baseDialect) CompileUpdateStatement(g *Grammar, r *Registry, values []Assignment) (string, []any, error) {
	return g.compileUpdate(r, values)
}

func (b baseDialect) CompileDeleteStatement(g *Grammar, r *Registry) (string, []any, error) {
	return g.compileDelete(r)
}

func (b baseDialect) CompileTruncate(g *Grammar, r *Registry) ([]Statement, error) {
	table, err := g.WrapTable(r.From)
	if err != nil {
		return nil, err
	}
	return []Statement{{SQL: "truncate table " + table}}, nil
}

// Literal escaping

func (b baseDialect) EscapeString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (b baseDialect) EscapeBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func (b baseDialect) EscapeBinary(v []byte) string {
	return "x'" + hex.EncodeToString(v) + "'"
}

func (b baseDialect) RestoreOperators(sql string) string { return sql }

func (b baseDialect) PlaceholderStyle() PlaceholderStyle { return PlaceholderQuestion }

// Small statements

func (b baseDialect) CompileExists(g *Grammar, r *Registry) (string, []any, error) {
	sql, bindings, err := g.CompileSelect(r)
	if err != nil {
		return "", nil, err
	}
	return "select exists(" + sql + ") as " + g.WrapValue("exists"), bindings, nil
}

func (b baseDialect) CompileRandom(string) string { return "RANDOM()" }

func (b baseDialect) CompileSavepoint(name string) string { return "SAVEPOINT " + name }

func (b baseDialect) CompileSavepointRollBack(name string) string {
	return "ROLLBACK TO SAVEPOINT " + name
}

// jsonEncode renders value as a JSON document without HTML escaping.
func jsonEncode(value any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// isJSONValue reports whether value is encoded as a JSON document when used
// as an update value: maps and slices other than []byte.
func isJSONValue(value any) bool {
	if value == nil {
		return false
	}
	if _, ok := value.([]byte); ok {
		return false
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}
