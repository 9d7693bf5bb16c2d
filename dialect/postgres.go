package dialect

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"github.com/Lupennat/ludb-sub002/internal/validation"
)

// postgresDialect renders PostgreSQL syntax for the pgx driver.
type postgresDialect struct {
	baseDialect
}

// Postgres returns the PostgreSQL grammar.
func Postgres() *Grammar {
	return New(postgresDialect{baseDialect: newBaseDialect("pgsql",
		"between", "ilike", "not ilike", "~", "&", "|", "#", "<<", ">>", "<<=", ">>=",
		"&&", "@>", "<@", "?", "?|", "?&", "||", "-", "@?", "@@", "#-",
		"is distinct from", "is not distinct from",
	)})
}

// postgresBitwise are the operators compared through a boolean cast.
var postgresBitwise = map[string]bool{
	"~": true, "&": true, "|": true, "#": true, "<<": true, ">>": true, "<<=": true, ">>=": true,
}

// fulltextLanguages are the text search configurations accepted as a
// fulltext language; anything else falls back to english.
var fulltextLanguages = map[string]bool{
	"simple": true, "arabic": true, "danish": true, "dutch": true, "english": true,
	"finnish": true, "french": true, "german": true, "hungarian": true,
	"indonesian": true, "irish": true, "italian": true, "lithuanian": true,
	"nepali": true, "norwegian": true, "portuguese": true, "romanian": true,
	"russian": true, "spanish": true, "swedish": true, "tamil": true, "turkish": true,
}

// CompileComparison casts like operands to text and wraps bitwise
// comparisons in a boolean cast.
func (d postgresDialect) CompileComparison(g *Grammar, column, operator, value string) string {
	op := strings.TrimSpace(operator)
	switch {
	case validation.IsPatternOperator(op):
		return column + "::text " + operator + " " + value
	case postgresBitwise[op] || validation.IsBitwiseOperator(op):
		return "(" + column + " " + operator + " " + value + ")::bool"
	}
	return d.baseDialect.CompileComparison(g, column, operator, value)
}

func (postgresDialect) CompileDatePart(_ *Grammar, part DatePart, column, operator, value string) string {
	switch part {
	case PartDate:
		return column + "::date " + operator + " " + value
	case PartTime:
		return column + "::time " + operator + " " + value
	}
	return "extract(" + string(part) + " from " + column + ") " + operator + " " + value
}

// ----------------------------------------------------------------------------
// JSON
// ----------------------------------------------------------------------------

// WrapJSONSelector renders col->a->b as "col"->'a'->>'b'.
func (postgresDialect) WrapJSONSelector(g *Grammar, value string) (string, error) {
	path := strings.Split(value, "->")
	field := g.wrapPlain(path[0])
	wrapped := postgresJSONPathAttributes(path[1:], "'")
	if len(wrapped) == 0 {
		return field, nil
	}
	attribute := wrapped[len(wrapped)-1]
	if rest := wrapped[:len(wrapped)-1]; len(rest) > 0 {
		return field + "->" + strings.Join(rest, "->") + "->>" + attribute, nil
	}
	return field + "->>" + attribute, nil
}

// jsonbColumn wraps a JSON selector keeping the last step as jsonb.
func jsonbColumn(g *Grammar, column string) (string, error) {
	wrapped, err := g.Wrap(column)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(wrapped, "->>", "->"), nil
}

func (postgresDialect) CompileJSONContains(g *Grammar, column, value string) (string, error) {
	wrapped, err := jsonbColumn(g, column)
	if err != nil {
		return "", err
	}
	return "(" + wrapped + ")::jsonb @> " + value, nil
}

var trailingIndexRe = regexp.MustCompile(`\[(-?[0-9]+)\]$`)

func (postgresDialect) CompileJSONContainsKey(g *Grammar, column string) (string, error) {
	segments := strings.Split(column, "->")
	last := segments[len(segments)-1]
	segments = segments[:len(segments)-1]

	index, hasIndex := "", false
	if integerRe.MatchString(last) {
		index, hasIndex = last, true
	} else if m := trailingIndexRe.FindStringSubmatch(last); m != nil {
		segments = append(segments, strings.TrimSuffix(last, m[0]))
		index, hasIndex = m[1], true
	}

	wrapped, err := jsonbColumn(g, strings.Join(segments, "->"))
	if err != nil {
		return "", err
	}
	if hasIndex {
		i, err := strconv.Atoi(index)
		if err != nil {
			return "", err
		}
		length := i + 1
		if i < 0 {
			length = -i
		}
		return "case when jsonb_typeof((" + wrapped + ")::jsonb) = 'array' then jsonb_array_length((" +
			wrapped + ")::jsonb) >= " + itoa(length) + " else false end", nil
	}
	key := "'" + strings.ReplaceAll(last, "'", "''") + "'"
	return "coalesce((" + wrapped + ")::jsonb ?? " + key + ", false)", nil
}

func (postgresDialect) CompileJSONLength(g *Grammar, column, operator, value string) (string, error) {
	wrapped, err := jsonbColumn(g, column)
	if err != nil {
		return "", err
	}
	return "jsonb_array_length((" + wrapped + ")::jsonb) " + operator + " " + value, nil
}

// CompileUpdateColumns drops the table qualifier of each column, which
// Postgres does not accept in a set list, and writes JSON paths with
// jsonb_set.
func (postgresDialect) CompileUpdateColumns(g *Grammar, values []Assignment) (string, []any, error) {
	parts := make([]string, len(values))
	var bindings []any
	for i, a := range values {
		segments := strings.Split(a.Column, ".")
		column := segments[len(segments)-1]

		if !validation.IsJSONSelector(a.Column) {
			value, args, err := updateParameter(g, a.Value)
			if err != nil {
				return "", nil, err
			}
			parts[i] = g.WrapValue(column) + " = " + value
			bindings = append(bindings, args...)
			continue
		}

		path := strings.Split(column, "->")
		field := g.WrapValue(path[0])
		jsonPath := "'{" + strings.Join(postgresJSONPathAttributes(path[1:], `"`), ",") + "}'"
		value := g.Parameter(a.Value)
		if !IsExpression(a.Value) {
			encoded, err := jsonEncode(a.Value)
			if err != nil {
				return "", nil, err
			}
			bindings = append(bindings, encoded)
		}
		parts[i] = field + " = jsonb_set(" + field + "::jsonb, " + jsonPath + ", " + value + ")"
	}
	return strings.Join(parts, ", "), bindings, nil
}

// postgresJSONPathAttributes splits array keys out of each path segment and
// quotes every non integer attribute.
func postgresJSONPathAttributes(path []string, quote string) []string {
	var out []string
	for _, attribute := range path {
		for _, key := range parseJSONPathArrayKeys(attribute) {
			if integerRe.MatchString(key) {
				out = append(out, key)
				continue
			}
			out = append(out, quote+key+quote)
		}
	}
	return out
}

// parseJSONPathArrayKeys splits "tags[0][1]" into "tags", "0", "1".
func parseJSONPathArrayKeys(attribute string) []string {
	keys := jsonArrayKeyRe.FindString(attribute)
	if keys == "" {
		return []string{attribute}
	}
	var out []string
	if key := strings.TrimSuffix(attribute, keys); key != "" {
		out = append(out, key)
	}
	for _, m := range jsonIndexRe.FindAllStringSubmatch(keys, -1) {
		if m[1] != "" {
			out = append(out, m[1])
		}
	}
	return out
}

// ----------------------------------------------------------------------------
// Fulltext and upsert
// ----------------------------------------------------------------------------

func (postgresDialect) CompileFulltext(g *Grammar, where WhereFulltext) (string, []any, error) {
	language := where.Options.Language
	if !fulltextLanguages[language] {
		language = "english"
	}
	vectors := make([]string, len(where.Columns))
	for i, column := range where.Columns {
		wrapped, err := g.Wrap(column)
		if err != nil {
			return "", nil, err
		}
		vectors[i] = "to_tsvector('" + language + "', " + wrapped + ")"
	}
	mode := "plainto_tsquery"
	switch where.Options.Mode {
	case "phrase":
		mode = "phraseto_tsquery"
	case "websearch":
		mode = "websearch_to_tsquery"
	}
	sql := "(" + strings.Join(vectors, " || ") + ") @@ " + mode + "('" + language + "', ?)"
	return sql, []any{where.Value}, nil
}

func (postgresDialect) CompileUpsert(g *Grammar, r *Registry, rows []map[string]any, uniqueBy []string, update []any) (string, []any, error) {
	return compileOnConflictUpsert(g, r, rows, uniqueBy, update)
}

// compileOnConflictUpsert is the insert ... on conflict do update form
// shared by Postgres and SQLite.
func compileOnConflictUpsert(g *Grammar, r *Registry, rows []map[string]any, uniqueBy []string, update []any) (string, []any, error) {
	sql, bindings, err := g.CompileInsert(r, rows)
	if err != nil {
		return "", nil, err
	}
	unique, err := g.ColumnizeNames(uniqueBy)
	if err != nil {
		return "", nil, err
	}
	excluded := g.WrapValue("excluded")
	columns, args, err := g.compileUpsertAssignments(update, func(column string) string {
		return excluded + "." + g.wrapPlain(column)
	})
	if err != nil {
		return "", nil, err
	}
	sql += " on conflict (" + unique + ") do update set " + columns
	return sql, append(bindings, args...), nil
}

// ----------------------------------------------------------------------------
// Inserts, select keyword and locks
// ----------------------------------------------------------------------------

func (postgresDialect) CompileInsertOrIgnore(g *Grammar, r *Registry, rows []map[string]any) (string, []any, error) {
	sql, bindings, err := g.CompileInsert(r, rows)
	if err != nil {
		return "", nil, err
	}
	return sql + " on conflict do nothing", bindings, nil
}

func (postgresDialect) CompileInsertGetID(g *Grammar, r *Registry, row map[string]any, sequence string) (string, []any, error) {
	sql, bindings, err := g.CompileInsert(r, []map[string]any{row})
	if err != nil {
		return "", nil, err
	}
	if sequence == "" {
		sequence = "id"
	}
	return sql + " returning " + g.wrapPlain(sequence), bindings, nil
}

func (d postgresDialect) SelectKeyword(g *Grammar, r *Registry) string {
	if len(r.DistinctColumns) == 0 {
		return d.baseDialect.SelectKeyword(g, r)
	}
	columns := make([]string, len(r.DistinctColumns))
	for i, c := range r.DistinctColumns {
		columns[i] = g.wrapPlain(c)
	}
	return "select distinct on (" + strings.Join(columns, ", ") + ") "
}

func (postgresDialect) CompileLock(r *Registry) string {
	switch r.Lock {
	case LockForUpdate:
		return "for update"
	case LockShared:
		return "for share"
	case LockCustom:
		return r.LockRaw
	}
	return ""
}

// ----------------------------------------------------------------------------
// Update, delete and truncate
// ----------------------------------------------------------------------------

// CompileUpdateStatement targets rows by ctid when joins or a limit are set.
func (postgresDialect) CompileUpdateStatement(g *Grammar, r *Registry, values []Assignment) (string, []any, error) {
	if len(r.Joins) > 0 || r.Limit != nil {
		return g.compileUpdateByKey(r, values, "ctid")
	}
	return g.compileUpdate(r, values)
}

// CompileDeleteStatement targets rows by ctid when joins or a limit are set.
func (postgresDialect) CompileDeleteStatement(g *Grammar, r *Registry) (string, []any, error) {
	if len(r.Joins) > 0 || r.Limit != nil {
		return g.compileDeleteByKey(r, "ctid")
	}
	return g.compileDelete(r)
}

func (postgresDialect) CompileTruncate(g *Grammar, r *Registry) ([]Statement, error) {
	table, err := g.WrapTable(r.From)
	if err != nil {
		return nil, err
	}
	return []Statement{{SQL: "truncate " + table + " restart identity cascade"}}, nil
}

// ----------------------------------------------------------------------------
// Literals
// ----------------------------------------------------------------------------

func (postgresDialect) EscapeBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func (postgresDialect) EscapeBinary(v []byte) string {
	return "x'" + hex.EncodeToString(v) + "'::bytea"
}

// RestoreOperators turns the escaped ??, ??| and ??& jsonb operators back
// into their single question mark form.
func (postgresDialect) RestoreOperators(sql string) string {
	return strings.ReplaceAll(sql, "??", "?")
}

func (postgresDialect) PlaceholderStyle() PlaceholderStyle { return PlaceholderDollar }
