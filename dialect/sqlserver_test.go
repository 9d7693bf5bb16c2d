package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLServerPagination(t *testing.T) {
	g := SQLServer()
	tests := []struct {
		name     string
		registry *Registry
		want     string
	}{
		{
			name:     "limit only uses top",
			registry: &Registry{From: "users", Limit: intp(10)},
			want:     "select top 10 * from [users]",
		},
		{
			name:     "distinct with top",
			registry: &Registry{From: "users", Distinct: true, Columns: []any{"email"}, Limit: intp(3)},
			want:     "select distinct top 3 [email] from [users]",
		},
		{
			name:     "offset without order",
			registry: &Registry{From: "users", Limit: intp(10), Offset: intp(5)},
			want:     "select * from [users] order by (SELECT 0) offset 5 rows fetch next 10 rows only",
		},
		{
			name:     "offset with order",
			registry: &Registry{From: "users", Orders: []Order{{Column: "id"}}, Offset: intp(5)},
			want:     "select * from [users] order by [id] asc offset 5 rows",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := len(tt.registry.Orders)
			sql, _, err := g.CompileSelect(tt.registry)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
			assert.Len(t, tt.registry.Orders, orders)
		})
	}
}

func TestSQLServerLocksAndExists(t *testing.T) {
	g := SQLServer()
	r := &Registry{From: "users", Wheres: []Where{basic("id", "=", 1)}, Lock: LockForUpdate}
	sql, _, err := g.CompileSelect(r)
	require.NoError(t, err)
	assert.Equal(t, "select * from [users] with(rowlock,updlock,holdlock) where [id] = ?", sql)

	r.Lock = LockShared
	sql, _, err = g.CompileSelect(r)
	require.NoError(t, err)
	assert.Equal(t, "select * from [users] with(rowlock,holdlock) where [id] = ?", sql)

	sql, bindings, err := g.CompileExists(&Registry{From: "users", Wheres: []Where{basic("id", "=", 1)}})
	require.NoError(t, err)
	assert.Equal(t, "select top 1 1 [exists] from [users] where [id] = ?", sql)
	assert.Equal(t, []any{1}, bindings)
}

func TestSQLServerWrites(t *testing.T) {
	g := SQLServer()

	sql, bindings, err := g.CompileDelete(&Registry{From: "users", Wheres: []Where{basic("id", ">", 1)}, Limit: intp(5)})
	require.NoError(t, err)
	assert.Equal(t, "delete top (5) from [users] where [id] > ?", sql)
	assert.Equal(t, []any{1}, bindings)

	sql, _, err = g.CompileInsertGetID(&Registry{From: "users"}, map[string]any{"name": "A"}, "")
	require.NoError(t, err)
	assert.Equal(t, "insert into [users] ([name]) output inserted.[id] values (?)", sql)

	rows := []map[string]any{{"email": "a", "name": "A"}}
	sql, bindings, err = g.CompileUpsert(&Registry{From: "users"}, rows, []string{"email"}, []any{"name"})
	require.NoError(t, err)
	assert.Equal(t, "merge [users] using (values (?, ?)) [ludb_source] ([email], [name]) "+
		"on [ludb_source].[email] = [users].[email] "+
		"when matched then update set [name] = [ludb_source].[name] "+
		"when not matched then insert ([email], [name]) values ([email], [name]);", sql)
	assert.Equal(t, []any{"a", "A"}, bindings)

	_, _, err = g.CompileInsertOrIgnore(&Registry{From: "users"}, rows)
	assert.EqualError(t, err, "This database engine does not support inserting while ignoring errors.")
}

func TestSQLServerUpdateWithJoin(t *testing.T) {
	r := &Registry{
		From: "users as u",
		Joins: []*Join{{Type: JoinInner, Table: "teams", Wheres: []Where{
			{Condition: WhereColumn{First: "teams.id", Operator: "=", Second: "u.team_id"}},
		}}},
		Wheres: []Where{basic("teams.kind", "=", "x")},
	}
	sql, bindings, err := SQLServer().CompileUpdate(r, map[string]any{"u.name": "n"})
	require.NoError(t, err)
	assert.Equal(t, "update [u] set [u].[name] = ? from [users] as [u] inner join [teams] on [teams].[id] = [u].[team_id] where [teams].[kind] = ?", sql)
	assert.Equal(t, []any{"n", "x"}, bindings)
}

func TestSQLServerJSONAndDates(t *testing.T) {
	g := SQLServer()
	r := &Registry{From: "users", Wheres: []Where{
		basic("meta->lang", "=", "en"),
		{Condition: WhereJsonContains{Column: "meta->tags", Value: true}},
		{Condition: WhereJsonContainsKey{Column: "meta->tags[2]"}},
		{Condition: WhereJsonLength{Column: "meta->tags", Operator: ">", Value: 1}},
		{Condition: WhereDatePart{Part: PartDate, Column: "created_at", Operator: "=", Value: "2024-01-01"}},
	}}
	sql, bindings, err := g.CompileSelect(r)
	require.NoError(t, err)
	assert.Equal(t, `select * from [users] where json_value([meta], '$."lang"') = ? `+
		`and ? in (select [value] from openjson([meta], '$."tags"')) `+
		`and 2 in (select [key] from openjson([meta], '$."tags"')) `+
		`and (select count(*) from openjson([meta], '$."tags"')) > ? `+
		`and cast([created_at] as date) = ?`, sql)
	assert.Equal(t, []any{"en", "true", 1, "2024-01-01"}, bindings)
}

func TestSQLServerStatements(t *testing.T) {
	g := SQLServer()
	assert.Equal(t, "SAVE TRANSACTION trans1", g.CompileSavepoint("trans1"))
	assert.Equal(t, "ROLLBACK TRANSACTION trans1", g.CompileSavepointRollBack("trans1"))
	assert.Equal(t, "NEWID()", g.CompileRandom(""))
	assert.Equal(t, "2006-01-02 15:04:05.000", g.DateFormat())
	assert.True(t, g.IsOperator("!<"))
}
