package dialect

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstituteBindingsIntoRawSQL(t *testing.T) {
	tests := []struct {
		name     string
		grammar  *Grammar
		sql      string
		bindings []any
		want     string
	}{
		{
			name:     "quotes are doubled",
			grammar:  MySQL(),
			sql:      "select * from `users` where `name` = ? and `age` > ?",
			bindings: []any{"O'Reilly", 30},
			want:     "select * from `users` where `name` = 'O''Reilly' and `age` > 30",
		},
		{
			name:     "question mark inside literal is kept",
			grammar:  MySQL(),
			sql:      "select * from `users` where `note` = '?' and `id` = ?",
			bindings: []any{1},
			want:     "select * from `users` where `note` = '?' and `id` = 1",
		},
		{
			name:     "escaped quote inside literal",
			grammar:  SQLite(),
			sql:      `select * from "t" where "a" = 'it''s ?' and "b" = ?`,
			bindings: []any{2},
			want:     `select * from "t" where "a" = 'it''s ?' and "b" = 2`,
		},
		{
			name:     "missing bindings leave placeholders",
			grammar:  SQLite(),
			sql:      "a = ? and b = ?",
			bindings: []any{1},
			want:     "a = 1 and b = ?",
		},
		{
			name:     "postgres restores jsonb operators",
			grammar:  Postgres(),
			sql:      `select * from "t" where "meta" ?? 'a' and "id" = ?`,
			bindings: []any{1},
			want:     `select * from "t" where "meta" ? 'a' and "id" = 1`,
		},
		{
			name:     "mysql keeps double question marks",
			grammar:  MySQL(),
			sql:      "select ?? from t where a = ?",
			bindings: []any{nil},
			want:     "select ?? from t where a = null",
		},
		{
			name:     "expressions are inlined",
			grammar:  MySQL(),
			sql:      "update t set a = ?",
			bindings: []any{Raw("a + 1")},
			want:     "update t set a = a + 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.grammar.SubstituteBindingsIntoRawSQL(tt.sql, tt.bindings)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubstituteRejectsNullBytes(t *testing.T) {
	_, err := MySQL().SubstituteBindingsIntoRawSQL("a = ?", []any{"a\x00b"})
	assert.ErrorIs(t, err, ErrNullByte)
}

func TestEscape(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	n := 5
	var missing *int

	tests := []struct {
		name    string
		grammar *Grammar
		value   any
		want    string
	}{
		{"nil", MySQL(), nil, "null"},
		{"mysql bool", MySQL(), true, "1"},
		{"postgres bool", Postgres(), false, "false"},
		{"mysql backslash", MySQL(), `a\b`, `'a\\b'`},
		{"postgres backslash", Postgres(), `a\b`, `'a\b'`},
		{"int", SQLite(), int64(-4), "-4"},
		{"uint", SQLite(), uint8(7), "7"},
		{"float", SQLite(), 1.25, "1.25"},
		{"decimal", MySQL(), decimal.RequireFromString("12.5"), "12.5"},
		{"uuid", Postgres(), id, "'6ba7b810-9dad-11d1-80b4-00c04fd430c8'"},
		{"time", MySQL(), at, "'2024-03-01 12:30:00'"},
		{"sqlserver time", SQLServer(), at, "'2024-03-01 12:30:00.000'"},
		{"mysql binary", MySQL(), []byte{1, 2}, "x'0102'"},
		{"postgres binary", Postgres(), []byte{1, 2}, "x'0102'::bytea"},
		{"sqlserver binary", SQLServer(), []byte{1, 2}, "0x0102"},
		{"pointer", MySQL(), &n, "5"},
		{"nil pointer", MySQL(), missing, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.grammar.Escape(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRebind(t *testing.T) {
	sql := "select * from t where a = ? and b = '?' and c ?? 'k' and d = ?"

	assert.Equal(t, "select * from t where a = $1 and b = '?' and c ? 'k' and d = $2", Postgres().Rebind(sql))
	assert.Equal(t, "select * from t where a = @p1 and b = '?' and c ? 'k' and d = @p2", SQLServer().Rebind(sql))
	assert.Equal(t, sql, MySQL().Rebind(sql))
	assert.Equal(t, sql, SQLite().Rebind(sql))
}
