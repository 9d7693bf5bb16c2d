package dialect

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Lupennat/ludb-sub002/internal/validation"
)

// Grammar compiles registries for one dialect. It holds no per-query state
// and is safe for concurrent use.
type Grammar struct {
	d      Dialect
	prefix string
}

// New returns a Grammar compiling with d.
func New(d Dialect) *Grammar {
	return &Grammar{d: d}
}

// WithTablePrefix returns a copy of g that prefixes every table name.
func (g *Grammar) WithTablePrefix(prefix string) *Grammar {
	c := *g
	c.prefix = prefix
	return &c
}

// Name returns the dialect name.
func (g *Grammar) Name() string { return g.d.Name() }

// Dialect returns the capability set g compiles with.
func (g *Grammar) Dialect() Dialect { return g.d }

// TablePrefix returns the configured table prefix.
func (g *Grammar) TablePrefix() string { return g.prefix }

// DateFormat returns the Go layout used to render time bindings.
func (g *Grammar) DateFormat() string { return g.d.DateFormat() }

// Operators lists the comparison operators the dialect accepts.
func (g *Grammar) Operators() []string { return g.d.Operators() }

// IsOperator reports whether op is accepted by the dialect.
func (g *Grammar) IsOperator(op string) bool { return g.d.IsOperator(op) }

// ValidateOperator returns an *OperatorError when op is not accepted.
func (g *Grammar) ValidateOperator(op string) error { return g.d.ValidateOperator(op) }

// PlaceholderStyle returns the driver placeholder style.
func (g *Grammar) PlaceholderStyle() PlaceholderStyle { return g.d.PlaceholderStyle() }

// ----------------------------------------------------------------------------
// Wrapping
// ----------------------------------------------------------------------------

// Wrap quotes a column reference. It understands "table.column",
// "column as alias", JSON arrow paths and Expressions.
func (g *Grammar) Wrap(value any) (string, error) {
	return g.wrap(value, false)
}

func (g *Grammar) wrap(value any, prefixAlias bool) (string, error) {
	switch v := value.(type) {
	case Expression:
		return v.String(), nil
	case string:
		if name, alias, ok := validation.SplitAlias(v); ok {
			if prefixAlias {
				alias = g.prefix + alias
			}
			wrapped, err := g.wrap(name, false)
			if err != nil {
				return "", err
			}
			return wrapped + " as " + g.WrapValue(alias), nil
		}
		if validation.IsJSONSelector(v) {
			return g.d.WrapJSONSelector(g, v)
		}
		return g.wrapSegments(strings.Split(v, ".")), nil
	default:
		return "", fmt.Errorf("dialect: cannot wrap value of type %T", value)
	}
}

// WrapIdentifier quotes a dotted identifier without alias or JSON handling.
// Schema grammars use it for table and column names.
func (g *Grammar) WrapIdentifier(value string) string {
	return g.wrapPlain(value)
}

// wrapPlain wraps a dotted identifier without alias or JSON handling.
func (g *Grammar) wrapPlain(value string) string {
	return g.wrapSegments(strings.Split(value, "."))
}

func (g *Grammar) wrapSegments(segments []string) string {
	out := make([]string, len(segments))
	for i, segment := range segments {
		if i == 0 && len(segments) > 1 {
			out[i] = g.WrapValue(g.prefix + segment)
			continue
		}
		out[i] = g.WrapValue(segment)
	}
	return strings.Join(out, ".")
}

// WrapValue quotes a single segment. "*" is left alone.
func (g *Grammar) WrapValue(value string) string {
	if value == "*" {
		return value
	}
	return g.d.QuoteIdentifier(value)
}

// WrapTable quotes a table name and applies the table prefix.
func (g *Grammar) WrapTable(table any) (string, error) {
	switch t := table.(type) {
	case Expression:
		return t.String(), nil
	case string:
		return g.wrap(g.prefix+t, true)
	case nil:
		return "", ErrNoTable
	default:
		return "", fmt.Errorf("dialect: cannot wrap table of type %T", table)
	}
}

// Columnize wraps and joins a column list. RawClause and Subquery entries
// contribute their bindings in place.
func (g *Grammar) Columnize(columns []any) (string, []any, error) {
	parts := make([]string, 0, len(columns))
	var bindings []any
	for _, column := range columns {
		switch c := column.(type) {
		case RawClause:
			parts = append(parts, c.SQL)
			bindings = append(bindings, c.Bindings...)
		case Subquery:
			sql, args, err := g.CompileSelect(c.Query)
			if err != nil {
				return "", nil, err
			}
			part := "(" + sql + ")"
			if c.Alias != "" {
				part += " as " + g.WrapValue(c.Alias)
			}
			parts = append(parts, part)
			bindings = append(bindings, args...)
		default:
			wrapped, err := g.Wrap(column)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, wrapped)
		}
	}
	return strings.Join(parts, ", "), bindings, nil
}

// ColumnizeNames is Columnize for plain column names.
func (g *Grammar) ColumnizeNames(columns []string) (string, error) {
	parts := make([]string, len(columns))
	for i, c := range columns {
		wrapped, err := g.Wrap(c)
		if err != nil {
			return "", err
		}
		parts[i] = wrapped
	}
	return strings.Join(parts, ", "), nil
}

// Parameter returns the placeholder for value, or the raw text of an
// Expression.
func (g *Grammar) Parameter(value any) string {
	if e, ok := value.(Expression); ok {
		return e.String()
	}
	return "?"
}

// Parameterize returns the placeholder list for values and the bindings it
// introduced. Expressions are inlined and never bound.
func (g *Grammar) Parameterize(values []any) (string, []any) {
	parts := make([]string, len(values))
	bindings := make([]any, 0, len(values))
	for i, v := range values {
		parts[i] = g.Parameter(v)
		if !IsExpression(v) {
			bindings = append(bindings, v)
		}
	}
	return strings.Join(parts, ", "), bindings
}

// bind returns the binding list contributed by one parameter.
func bind(value any) []any {
	if IsExpression(value) {
		return nil
	}
	return []any{value}
}

// compileTableRef renders a from or join target.
func (g *Grammar) compileTableRef(table any) (string, []any, error) {
	switch t := table.(type) {
	case RawClause:
		return t.SQL, t.Bindings, nil
	case Subquery:
		sql, args, err := g.CompileSelect(t.Query)
		if err != nil {
			return "", nil, err
		}
		alias, err := g.WrapTable(t.Alias)
		if err != nil {
			return "", nil, err
		}
		return "(" + sql + ") as " + alias, args, nil
	default:
		wrapped, err := g.WrapTable(table)
		return wrapped, nil, err
	}
}

// fromName returns the textual from target used to derive aliases.
func fromName(from any) string {
	switch f := from.(type) {
	case string:
		return f
	case Expression:
		return f.String()
	}
	return ""
}

// ----------------------------------------------------------------------------
// JSON path helpers shared by MySQL, SQLite and SQL Server
// ----------------------------------------------------------------------------

var (
	jsonQuoteRe    = regexp.MustCompile(`(\\+)?'`)
	jsonArrayKeyRe = regexp.MustCompile(`(\[[^\]]+\])+$`)
	jsonIndexRe    = regexp.MustCompile(`\[([^\]]+)\]`)
	integerRe      = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)
)

// wrapJSONFieldAndPath splits "col->a->b" into `"col"` and `, '$."a"."b"'`.
func (g *Grammar) wrapJSONFieldAndPath(column string) (field, path string) {
	parts := strings.SplitN(column, "->", 2)
	field = g.wrapPlain(parts[0])
	if len(parts) > 1 {
		path = ", " + wrapJSONPath(parts[1], "->")
	}
	return field, path
}

func wrapJSONPath(value, delimiter string) string {
	value = jsonQuoteRe.ReplaceAllString(value, "''")
	segments := strings.Split(value, delimiter)
	for i, segment := range segments {
		segments[i] = wrapJSONPathSegment(segment)
	}
	joined := strings.Join(segments, ".")
	if strings.HasPrefix(joined, "[") {
		return "'$" + joined + "'"
	}
	return "'$." + joined + "'"
}

func wrapJSONPathSegment(segment string) string {
	if keys := jsonArrayKeyRe.FindString(segment); keys != "" {
		if key := strings.TrimSuffix(segment, keys); key != "" {
			return `"` + key + `"` + keys
		}
		return keys
	}
	return `"` + segment + `"`
}

// ----------------------------------------------------------------------------
// Insert helpers
// ----------------------------------------------------------------------------

// insertColumns returns the sorted column list of the first row and the
// values of every row in that order.
func insertColumns(rows []map[string]any) ([]string, [][]any, error) {
	if len(rows) == 0 {
		return nil, nil, ErrEmptyBatch
	}
	columns := sortedKeys(rows[0])
	values := make([][]any, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, nil, ErrInconsistentBatch
		}
		vals := make([]any, len(columns))
		for j, c := range columns {
			v, ok := row[c]
			if !ok {
				return nil, nil, ErrInconsistentBatch
			}
			vals[j] = v
		}
		values[i] = vals
	}
	return columns, values, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedAssignments turns an update map into assignments ordered by column.
func SortedAssignments(values map[string]any) []Assignment {
	out := make([]Assignment, 0, len(values))
	for _, k := range sortedKeys(values) {
		out = append(out, Assignment{Column: k, Value: values[k]})
	}
	return out
}
