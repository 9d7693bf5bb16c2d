package dialect

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Escape renders value as a SQL literal for the dialect. It is meant for
// logging and debugging; statements sent to a database use bindings.
func (g *Grammar) Escape(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "null", nil
	case Expression:
		return v.String(), nil
	case string:
		if strings.ContainsRune(v, 0) {
			return "", ErrNullByte
		}
		return g.d.EscapeString(v), nil
	case []byte:
		return g.d.EscapeBinary(v), nil
	case bool:
		return g.d.EscapeBool(v), nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case decimal.Decimal:
		return v.String(), nil
	case uuid.UUID:
		return g.d.EscapeString(v.String()), nil
	case time.Time:
		return g.d.EscapeString(v.Format(g.d.DateFormat())), nil
	case driver.Valuer:
		resolved, err := v.Value()
		if err != nil {
			return "", err
		}
		if _, again := resolved.(driver.Valuer); again {
			return "", fmt.Errorf("dialect: %T resolves to another driver.Valuer", value)
		}
		return g.Escape(resolved)
	case fmt.Stringer:
		return g.Escape(v.String())
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "null", nil
		}
		return g.Escape(rv.Elem().Interface())
	}
	return g.Escape(fmt.Sprint(value))
}

// SubstituteBindingsIntoRawSQL inlines bindings into sql for display. Question
// marks inside string literals and escaped ?? operators are left alone; a
// placeholder without a matching binding stays a question mark.
func (g *Grammar) SubstituteBindingsIntoRawSQL(sql string, bindings []any) (string, error) {
	escaped := make([]string, len(bindings))
	for i, b := range bindings {
		s, err := g.Escape(b)
		if err != nil {
			return "", err
		}
		escaped[i] = s
	}

	next := 0
	query := scanPlaceholders(sql,
		func() string {
			if next >= len(escaped) {
				return "?"
			}
			next++
			return escaped[next-1]
		},
		func(bool) string { return "??" },
	)
	return g.d.RestoreOperators(query), nil
}

// Rebind converts ? placeholders to the native style of the driver: $1 for
// pgx and @p1 for go-mssqldb. Escaped ?? operators become a single ?.
func (g *Grammar) Rebind(sql string) string {
	style := g.d.PlaceholderStyle()
	if style == PlaceholderQuestion {
		return sql
	}
	n := 0
	return scanPlaceholders(sql,
		func() string {
			n++
			if style == PlaceholderDollar {
				return "$" + strconv.Itoa(n)
			}
			return "@p" + strconv.Itoa(n)
		},
		func(inLiteral bool) string {
			if inLiteral {
				return "??"
			}
			return "?"
		},
	)
}

// scanPlaceholders walks sql once. The pairs \' and '' are copied verbatim, a
// lone quote toggles the string literal state, ?? is handed to escaped and a
// ? outside a literal is replaced by placeholder.
func scanPlaceholders(sql string, placeholder func() string, escaped func(inLiteral bool) string) string {
	var sb strings.Builder
	sb.Grow(len(sql))
	inLiteral := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if i+1 < len(sql) {
			pair := sql[i : i+2]
			switch pair {
			case `\'`, "''":
				sb.WriteString(pair)
				i++
				continue
			case "??":
				sb.WriteString(escaped(inLiteral))
				i++
				continue
			}
		}
		switch {
		case c == '\'':
			sb.WriteByte(c)
			inLiteral = !inLiteral
		case c == '?' && !inLiteral:
			sb.WriteString(placeholder())
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
