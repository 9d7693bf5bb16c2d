package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLJSONSelectors(t *testing.T) {
	g := MySQL()
	tests := []struct {
		name  string
		where Where
		want  string
		args  []any
	}{
		{
			name:  "selector",
			where: basic("meta->lang", "=", "en"),
			want:  "json_unquote(json_extract(`meta`, '$.\"lang\"')) = ?",
			args:  []any{"en"},
		},
		{
			name:  "array index",
			where: basic("meta->tags[0]", "=", "go"),
			want:  "json_unquote(json_extract(`meta`, '$.\"tags\"[0]')) = ?",
			args:  []any{"go"},
		},
		{
			name:  "null check",
			where: Where{Condition: WhereNull{Column: "meta->lang"}},
			want:  "(json_extract(`meta`, '$.\"lang\"') is null OR json_type(json_extract(`meta`, '$.\"lang\"')) = 'NULL')",
		},
		{
			name:  "not null check",
			where: Where{Not: true, Condition: WhereNull{Column: "meta->lang"}},
			want:  "(json_extract(`meta`, '$.\"lang\"') is not null AND json_type(json_extract(`meta`, '$.\"lang\"')) != 'NULL')",
		},
		{
			name:  "contains",
			where: Where{Condition: WhereJsonContains{Column: "meta->tags", Value: []string{"go"}}},
			want:  "json_contains(`meta`, ?, '$.\"tags\"')",
			args:  []any{`["go"]`},
		},
		{
			name:  "contains key",
			where: Where{Condition: WhereJsonContainsKey{Column: "meta->lang"}},
			want:  "ifnull(json_contains_path(`meta`, 'one', '$.\"lang\"'), 0)",
		},
		{
			name:  "length",
			where: Where{Condition: WhereJsonLength{Column: "meta->tags", Operator: ">", Value: 1}},
			want:  "json_length(`meta`, '$.\"tags\"') > ?",
			args:  []any{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, bindings, err := g.CompileSelect(&Registry{From: "users", Wheres: []Where{tt.where}})
			require.NoError(t, err)
			assert.Equal(t, "select * from `users` where "+tt.want, sql)
			assert.Equal(t, len(tt.args), len(bindings))
			if len(tt.args) > 0 {
				assert.Equal(t, tt.args, bindings)
			}
		})
	}
}

func TestMySQLJSONUpdate(t *testing.T) {
	g := MySQL()
	sql, bindings, err := g.CompileUpdate(&Registry{From: "users"}, map[string]any{
		"meta->enabled": true,
		"meta->tags":    []string{"a"},
		"name":          "n",
	})
	require.NoError(t, err)
	assert.Equal(t, "update `users` set `meta` = json_set(`meta`, '$.\"enabled\"', true), "+
		"`meta` = json_set(`meta`, '$.\"tags\"', cast(? as json)), `name` = ?", sql)
	assert.Equal(t, []any{`["a"]`, "n"}, bindings)
}

func TestMySQLUpdateAndDeleteWithOrderAndLimit(t *testing.T) {
	g := MySQL()
	r := &Registry{
		From:   "users",
		Wheres: []Where{basic("id", ">", 1)},
		Orders: []Order{{Column: "id", Direction: OrderDesc}},
		Limit:  intp(1),
	}

	sql, bindings, err := g.CompileUpdate(r, map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "update `users` set `name` = ? where `id` > ? order by `id` desc limit 1", sql)
	assert.Equal(t, []any{"x", 1}, bindings)

	sql, bindings, err = g.CompileDelete(r)
	require.NoError(t, err)
	assert.Equal(t, "delete from `users` where `id` > ? order by `id` desc limit 1", sql)
	assert.Equal(t, []any{1}, bindings)
}

func TestMySQLDeleteWithJoin(t *testing.T) {
	r := &Registry{
		From: "users",
		Joins: []*Join{{Type: JoinInner, Table: "posts", Wheres: []Where{
			{Condition: WhereColumn{First: "users.id", Operator: "=", Second: "posts.user_id"}},
		}}},
		Wheres: []Where{basic("posts.id", "=", 1)},
	}
	sql, bindings, err := MySQL().CompileDelete(r)
	require.NoError(t, err)
	assert.Equal(t, "delete `users` from `users` inner join `posts` on `users`.`id` = `posts`.`user_id` where `posts`.`id` = ?", sql)
	assert.Equal(t, []any{1}, bindings)
}

func TestMySQLUpsertAndIgnore(t *testing.T) {
	g := MySQL()
	rows := []map[string]any{{"email": "a@b.c", "name": "A"}}

	sql, bindings, err := g.CompileUpsert(&Registry{From: "users"}, rows, []string{"email"},
		[]any{"name", Assignment{Column: "visits", Value: Raw("visits + 1")}})
	require.NoError(t, err)
	assert.Equal(t, "insert into `users` (`email`, `name`) values (?, ?) on duplicate key update "+
		"`name` = values(`name`), `visits` = visits + 1", sql)
	assert.Equal(t, []any{"a@b.c", "A"}, bindings)

	sql, _, err = g.CompileInsertOrIgnore(&Registry{From: "users"}, rows)
	require.NoError(t, err)
	assert.Equal(t, "insert ignore into `users` (`email`, `name`) values (?, ?)", sql)
}

func TestMySQLFulltextAndLocks(t *testing.T) {
	g := MySQL()
	r := &Registry{From: "posts", Wheres: []Where{
		{Condition: WhereFulltext{Columns: []string{"title", "body"}, Value: "go", Options: FulltextOptions{Expanded: true}}},
	}}
	sql, bindings, err := g.CompileSelect(r)
	require.NoError(t, err)
	assert.Equal(t, "select * from `posts` where match (`title`, `body`) against (? in natural language mode with query expansion)", sql)
	assert.Equal(t, []any{"go"}, bindings)

	r.Wheres[0].Condition = WhereFulltext{Columns: []string{"title"}, Value: "+go", Options: FulltextOptions{Mode: "boolean", Expanded: true}}
	sql, _, err = g.CompileSelect(r)
	require.NoError(t, err)
	assert.Equal(t, "select * from `posts` where match (`title`) against (? in boolean mode)", sql)

	sql, _, err = g.CompileSelect(&Registry{From: "posts", Lock: LockShared})
	require.NoError(t, err)
	assert.Equal(t, "select * from `posts` lock in share mode", sql)

	sql, _, err = g.CompileSelect(&Registry{From: "posts", Lock: LockForUpdate})
	require.NoError(t, err)
	assert.Equal(t, "select * from `posts` for update", sql)
}

func TestMySQLSoundsLikeOperator(t *testing.T) {
	assert.True(t, MySQL().IsOperator("sounds like"))
	assert.False(t, Postgres().IsOperator("sounds like"))
}
