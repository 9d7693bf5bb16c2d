package dialect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresComparisons(t *testing.T) {
	g := Postgres()
	tests := []struct {
		name  string
		where Where
		want  string
	}{
		{"like casts to text", basic("name", "like", "a%"), `"name"::text like ?`},
		{"ilike casts to text", basic("name", "not ilike", "a%"), `"name"::text not ilike ?`},
		{"bitwise casts to bool", basic("flags", "&", 4), `("flags" & ?)::bool`},
		{"plain", basic("id", ">=", 4), `"id" >= ?`},
		{"question operator is escaped", basic("meta", "?", "k"), `"meta" ?? ?`},
		{"date", Where{Condition: WhereDatePart{Part: PartDate, Column: "created_at", Operator: "=", Value: "2024-01-01"}}, `"created_at"::date = ?`},
		{"time", Where{Condition: WhereDatePart{Part: PartTime, Column: "created_at", Operator: ">", Value: "10:00"}}, `"created_at"::time > ?`},
		{"day", Where{Condition: WhereDatePart{Part: PartDay, Column: "created_at", Operator: "=", Value: 1}}, `extract(day from "created_at") = ?`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, bindings, err := g.CompileSelect(&Registry{From: "users", Wheres: []Where{tt.where}})
			require.NoError(t, err)
			assert.Equal(t, `select * from "users" where `+tt.want, sql)
			assert.Len(t, bindings, 1)
		})
	}
}

func TestPostgresHavingQuestionOperators(t *testing.T) {
	g := Postgres()
	r := &Registry{
		From:   "t",
		Groups: []any{"data"},
		Havings: []Where{
			basic("data", "?", "k"),
			basic("data", "?|", "{a,b}"),
			basic("total", "like", "1%"),
		},
	}
	sql, bindings, err := g.CompileSelect(r)
	require.NoError(t, err)
	assert.Equal(t, `select * from "t" group by "data" having "data" ?? ? and "data" ??| ? and "total"::text like ?`, sql)
	assert.Equal(t, []any{"k", "{a,b}", "1%"}, bindings)

	rebound := g.Rebind(sql)
	assert.Equal(t, `select * from "t" group by "data" having "data" ? $1 and "data" ?| $2 and "total"::text like $3`, rebound)
	assert.Equal(t, len(bindings), strings.Count(rebound, "$"))
}

func TestPostgresJSON(t *testing.T) {
	g := Postgres()

	wrapped, err := g.Wrap("meta->a->b")
	require.NoError(t, err)
	assert.Equal(t, `"meta"->'a'->>'b'`, wrapped)

	wrapped, err = g.Wrap("meta->tags[0]")
	require.NoError(t, err)
	assert.Equal(t, `"meta"->'tags'->>0`, wrapped)

	tests := []struct {
		name  string
		where Where
		want  string
		args  []any
	}{
		{
			name:  "contains",
			where: Where{Condition: WhereJsonContains{Column: "meta->tags", Value: []string{"a"}}},
			want:  `("meta"->'tags')::jsonb @> ?`,
			args:  []any{`["a"]`},
		},
		{
			name:  "contains key",
			where: Where{Condition: WhereJsonContainsKey{Column: "meta->a"}},
			want:  `coalesce(("meta")::jsonb ?? 'a', false)`,
		},
		{
			name:  "contains array index",
			where: Where{Condition: WhereJsonContainsKey{Column: "meta->tags[1]"}},
			want:  `case when jsonb_typeof(("meta"->'tags')::jsonb) = 'array' then jsonb_array_length(("meta"->'tags')::jsonb) >= 2 else false end`,
		},
		{
			name:  "length",
			where: Where{Condition: WhereJsonLength{Column: "meta->tags", Operator: ">", Value: 2}},
			want:  `jsonb_array_length(("meta"->'tags')::jsonb) > ?`,
			args:  []any{2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, bindings, err := g.CompileSelect(&Registry{From: "users", Wheres: []Where{tt.where}})
			require.NoError(t, err)
			assert.Equal(t, `select * from "users" where `+tt.want, sql)
			assert.Equal(t, len(tt.args), len(bindings))
			if len(tt.args) > 0 {
				assert.Equal(t, tt.args, bindings)
			}
		})
	}
}

func TestPostgresJSONUpdate(t *testing.T) {
	sql, bindings, err := Postgres().CompileUpdate(&Registry{From: "users"}, map[string]any{
		"users.meta->a->b": "x",
		"users.name":       "n",
	})
	require.NoError(t, err)
	assert.Equal(t, `update "users" set "meta" = jsonb_set("meta"::jsonb, '{"a","b"}', ?), "name" = ?`, sql)
	assert.Equal(t, []any{`"x"`, "n"}, bindings)
}

func TestPostgresUpdateAndDeleteByCtid(t *testing.T) {
	g := Postgres()
	r := &Registry{From: "users", Wheres: []Where{basic("id", ">", 1)}, Limit: intp(3)}

	sql, bindings, err := g.CompileUpdate(r, map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, `update "users" set "name" = ? where "ctid" in (select "users"."ctid" from "users" where "id" > ? limit 3)`, sql)
	assert.Equal(t, []any{"x", 1}, bindings)

	sql, bindings, err = g.CompileDelete(r)
	require.NoError(t, err)
	assert.Equal(t, `delete from "users" where "ctid" in (select "users"."ctid" from "users" where "id" > ? limit 3)`, sql)
	assert.Equal(t, []any{1}, bindings)

	assert.Nil(t, r.Columns)
}

func TestPostgresFulltext(t *testing.T) {
	g := Postgres()
	r := &Registry{From: "posts", Wheres: []Where{
		{Condition: WhereFulltext{Columns: []string{"title", "body"}, Value: "cat", Options: FulltextOptions{Language: "klingon"}}},
	}}
	sql, bindings, err := g.CompileSelect(r)
	require.NoError(t, err)
	assert.Equal(t, `select * from "posts" where (to_tsvector('english', "title") || to_tsvector('english', "body")) @@ plainto_tsquery('english', ?)`, sql)
	assert.Equal(t, []any{"cat"}, bindings)

	r.Wheres[0].Condition = WhereFulltext{Columns: []string{"body"}, Value: "chat", Options: FulltextOptions{Language: "french", Mode: "websearch"}}
	sql, _, err = g.CompileSelect(r)
	require.NoError(t, err)
	assert.Equal(t, `select * from "posts" where (to_tsvector('french', "body")) @@ websearch_to_tsquery('french', ?)`, sql)
}

func TestPostgresWrites(t *testing.T) {
	g := Postgres()
	rows := []map[string]any{{"email": "a", "name": "A"}}

	sql, bindings, err := g.CompileUpsert(&Registry{From: "users"}, rows, []string{"email"}, []any{"name"})
	require.NoError(t, err)
	assert.Equal(t, `insert into "users" ("email", "name") values (?, ?) on conflict ("email") do update set "name" = "excluded"."name"`, sql)
	assert.Equal(t, []any{"a", "A"}, bindings)

	sql, _, err = g.CompileInsertOrIgnore(&Registry{From: "users"}, rows)
	require.NoError(t, err)
	assert.Equal(t, `insert into "users" ("email", "name") values (?, ?) on conflict do nothing`, sql)

	sql, _, err = g.CompileInsertGetID(&Registry{From: "users"}, map[string]any{"name": "A"}, "")
	require.NoError(t, err)
	assert.Equal(t, `insert into "users" ("name") values (?) returning "id"`, sql)

	statements, err := g.CompileTruncate(&Registry{From: "users"})
	require.NoError(t, err)
	assert.Equal(t, []Statement{{SQL: `truncate "users" restart identity cascade`}}, statements)
}

func TestPostgresDistinctOnAndLocks(t *testing.T) {
	g := Postgres()
	sql, _, err := g.CompileSelect(&Registry{From: "users", DistinctColumns: []string{"team_id"}})
	require.NoError(t, err)
	assert.Equal(t, `select distinct on ("team_id") * from "users"`, sql)

	sql, _, err = g.CompileSelect(&Registry{From: "users", Lock: LockShared})
	require.NoError(t, err)
	assert.Equal(t, `select * from "users" for share`, sql)

	sql, _, err = g.CompileSelect(&Registry{From: "users", Lock: LockCustom, LockRaw: "for no key update"})
	require.NoError(t, err)
	assert.Equal(t, `select * from "users" for no key update`, sql)
}
