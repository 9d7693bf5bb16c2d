package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDateParts(t *testing.T) {
	g := SQLite()
	tests := map[DatePart]string{
		PartDate:  `strftime('%Y-%m-%d', "created_at") = cast(? as text)`,
		PartTime:  `strftime('%H:%M:%S', "created_at") = cast(? as text)`,
		PartDay:   `strftime('%d', "created_at") = cast(? as text)`,
		PartMonth: `strftime('%m', "created_at") = cast(? as text)`,
		PartYear:  `strftime('%Y', "created_at") = cast(? as text)`,
	}
	for part, want := range tests {
		t.Run(string(part), func(t *testing.T) {
			r := &Registry{From: "users", Wheres: []Where{
				{Condition: WhereDatePart{Part: part, Column: "created_at", Operator: "=", Value: "x"}},
			}}
			sql, _, err := g.CompileSelect(r)
			require.NoError(t, err)
			assert.Equal(t, `select * from "users" where `+want, sql)
		})
	}
}

func TestSQLiteJSON(t *testing.T) {
	g := SQLite()

	wrapped, err := g.Wrap("meta->lang")
	require.NoError(t, err)
	assert.Equal(t, `json_extract("meta", '$."lang"')`, wrapped)

	sql, _, err := g.CompileSelect(&Registry{From: "users", Wheres: []Where{
		{Condition: WhereJsonContainsKey{Column: "meta->lang"}},
		{Condition: WhereJsonLength{Column: "meta->tags", Operator: "=", Value: 0}},
	}})
	require.NoError(t, err)
	assert.Equal(t, `select * from "users" where json_type("meta", '$."lang"') is not null and json_array_length("meta", '$."tags"') = ?`, sql)

	_, _, err = g.CompileSelect(&Registry{From: "users", Wheres: []Where{
		{Condition: WhereJsonContains{Column: "meta->tags", Value: "a"}},
	}})
	var unsupportedErr *UnsupportedError
	require.ErrorAs(t, err, &unsupportedErr)
	assert.Equal(t, "This database engine does not support JSON contains operations.", err.Error())
}

func TestSQLiteJSONPatchUpdate(t *testing.T) {
	sql, bindings, err := SQLite().CompileUpdate(&Registry{From: "users", Wheres: []Where{basic("id", "=", 1)}}, map[string]any{
		"options->a":    1,
		"options->b->c": "x",
		"name":          "n",
	})
	require.NoError(t, err)
	assert.Equal(t, `update "users" set "name" = ?, "options" = json_patch(ifnull("options", json('{}')), json(?)) where "id" = ?`, sql)
	assert.Equal(t, []any{"n", `{"a":1,"b":{"c":"x"}}`, 1}, bindings)
}

func TestSQLiteRowidEmulation(t *testing.T) {
	g := SQLite()
	r := &Registry{From: "users", Wheres: []Where{basic("id", ">", 1)}, Limit: intp(3)}

	sql, bindings, err := g.CompileDelete(r)
	require.NoError(t, err)
	assert.Equal(t, `delete from "users" where "rowid" in (select "users"."rowid" from "users" where "id" > ? limit 3)`, sql)
	assert.Equal(t, []any{1}, bindings)

	sql, bindings, err = g.CompileUpdate(r, map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, `update "users" set "name" = ? where "rowid" in (select "users"."rowid" from "users" where "id" > ? limit 3)`, sql)
	assert.Equal(t, []any{"x", 1}, bindings)
}

func TestSQLiteWrites(t *testing.T) {
	g := SQLite()
	rows := []map[string]any{{"email": "a"}}

	sql, _, err := g.CompileInsertOrIgnore(&Registry{From: "users"}, rows)
	require.NoError(t, err)
	assert.Equal(t, `insert or ignore into "users" ("email") values (?)`, sql)

	sql, _, err = g.CompileUpsert(&Registry{From: "users"}, rows, []string{"email"}, []any{"email"})
	require.NoError(t, err)
	assert.Equal(t, `insert into "users" ("email") values (?) on conflict ("email") do update set "email" = "excluded"."email"`, sql)

	statements, err := g.WithTablePrefix("app_").CompileTruncate(&Registry{From: "users"})
	require.NoError(t, err)
	assert.Equal(t, []Statement{
		{SQL: "delete from sqlite_sequence where name = ?", Bindings: []any{"app_users"}},
		{SQL: `delete from "app_users"`},
	}, statements)
}

func TestSQLiteIgnoresLocks(t *testing.T) {
	sql, _, err := SQLite().CompileSelect(&Registry{From: "users", Lock: LockForUpdate})
	require.NoError(t, err)
	assert.Equal(t, `select * from "users"`, sql)
}
