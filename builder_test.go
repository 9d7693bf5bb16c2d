package ludb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lupennat/ludb-sub002/dialect"
)

func mysqlBuilder() *Builder {
	return NewBuilder(dialect.MySQL())
}

func TestBuilderSelect(t *testing.T) {
	sql, bindings, err := mysqlBuilder().
		Table("users").
		Select("id", "name").
		Where("age", ">", 18).
		WhereNested(func(q *Builder) {
			q.Where("role", "=", "admin").OrWhere("role", "=", "owner")
		}).
		OrderBy("id", "DESC").
		Limit(10).
		Offset(5).
		ToSQL()

	require.NoError(t, err)
	assert.Equal(t, "select `id`, `name` from `users` where `age` > ? and (`role` = ? or `role` = ?) order by `id` desc limit 10 offset 5", sql)
	assert.Equal(t, []any{18, "admin", "owner"}, bindings)
}

func TestBuilderWhereVariants(t *testing.T) {
	tests := []struct {
		name     string
		build    func(q *Builder)
		want     string
		bindings []any
	}{
		{
			name:     "in",
			build:    func(q *Builder) { q.WhereIn("id", []any{1, 2, 3}) },
			want:     "select * from `users` where `id` in (?, ?, ?)",
			bindings: []any{1, 2, 3},
		},
		{
			name:  "empty in",
			build: func(q *Builder) { q.WhereIn("id", nil) },
			want:  "select * from `users` where 0 = 1",
		},
		{
			name:  "empty not in",
			build: func(q *Builder) { q.WhereNotIn("id", nil) },
			want:  "select * from `users` where 1 = 1",
		},
		{
			name:  "null",
			build: func(q *Builder) { q.WhereNull("deleted_at").OrWhereNotNull("email") },
			want:  "select * from `users` where `deleted_at` is null or `email` is not null",
		},
		{
			name:     "between",
			build:    func(q *Builder) { q.WhereBetween("age", 18, 30) },
			want:     "select * from `users` where `age` between ? and ?",
			bindings: []any{18, 30},
		},
		{
			name:  "column",
			build: func(q *Builder) { q.WhereColumn("updated_at", ">", "created_at") },
			want:  "select * from `users` where `updated_at` > `created_at`",
		},
		{
			name:     "raw",
			build:    func(q *Builder) { q.Where("id", "=", 1).OrWhereRaw("score > ?", 10) },
			want:     "select * from `users` where `id` = ? or score > ?",
			bindings: []any{1, 10},
		},
		{
			name:     "equals nil is a null check",
			build:    func(q *Builder) { q.Where("deleted_at", "=", nil) },
			want:     "select * from `users` where `deleted_at` is null",
			bindings: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mysqlBuilder().Table("users")
			tt.build(q)
			sql, bindings, err := q.ToSQL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
			assert.Len(t, bindings, len(tt.bindings))
			if len(tt.bindings) > 0 {
				assert.Equal(t, tt.bindings, bindings)
			}
		})
	}
}

func TestBuilderEmptyNestedGroupIsDropped(t *testing.T) {
	sql, _, err := mysqlBuilder().Table("users").
		Where("id", "=", 1).
		WhereNested(func(q *Builder) {}).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "select * from `users` where `id` = ?", sql)
}

func TestBuilderJoin(t *testing.T) {
	sql, bindings, err := mysqlBuilder().Table("users").
		Join("posts", "users.id", "=", "posts.user_id").
		Where("posts.published", "=", true).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "select * from `users` inner join `posts` on `users`.`id` = `posts`.`user_id` where `posts`.`published` = ?", sql)
	assert.Equal(t, []any{true}, bindings)
}

func TestBuilderJoinFuncBindingsPrecedeWheres(t *testing.T) {
	sql, bindings, err := mysqlBuilder().Table("users").
		JoinFunc("posts", func(j *JoinClause) {
			j.On("users.id", "=", "posts.user_id").Where("posts.published", "=", true)
		}).
		Where("users.age", ">", 18).
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "select * from `users` inner join `posts` on `users`.`id` = `posts`.`user_id` and `posts`.`published` = ? where `users`.`age` > ?", sql)
	assert.Equal(t, []any{true, 18}, bindings)
}

func TestBuilderUnion(t *testing.T) {
	q := mysqlBuilder().Table("users").Where("id", "=", 1).
		Union(mysqlBuilder().Table("users").Where("id", "=", 2))

	sql, bindings, err := q.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "(select * from `users` where `id` = ?) union (select * from `users` where `id` = ?)", sql)
	assert.Equal(t, []any{1, 2}, bindings)
}

func TestBuilderOrderAndLimitAfterUnionApplyToUnion(t *testing.T) {
	q := mysqlBuilder().Table("users").
		UnionAll(mysqlBuilder().Table("admins")).
		OrderBy("name", "asc").
		Limit(5)

	assert.Empty(t, q.Registry().Orders)
	assert.Nil(t, q.Registry().Limit)

	sql, _, err := q.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "(select * from `users`) union all (select * from `admins`) order by `name` asc limit 5", sql)
}

func TestBuilderErrorsAccumulate(t *testing.T) {
	q := mysqlBuilder().Table("users").
		Where("id", "===", 1).
		Where("age", ">", nil).
		OrderBy("id", "sideways")

	sql, bindings, err := q.ToSQL()
	require.Error(t, err)
	assert.Empty(t, sql)
	assert.Nil(t, bindings)

	var opErr *dialect.OperatorError
	assert.True(t, errors.As(err, &opErr))
	assert.Equal(t, "===", opErr.Operator)
	assert.ErrorIs(t, err, dialect.ErrIllegalOperator)
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestBuilderSubqueryErrorsPropagate(t *testing.T) {
	sub := mysqlBuilder().Table("posts").Where("id", "~~~", 1)
	_, _, err := mysqlBuilder().Table("users").WhereInSub("id", sub).ToSQL()

	var opErr *dialect.OperatorError
	require.True(t, errors.As(err, &opErr))
}

func TestBuilderTerminalWithoutExecutor(t *testing.T) {
	_, err := mysqlBuilder().Table("users").Get()
	assert.ErrorIs(t, err, ErrNoExecutor)
}

func TestBuilderToRawSQL(t *testing.T) {
	raw, err := mysqlBuilder().Table("users").
		Where("name", "=", "O'Reilly").
		Where("age", ">", 30).
		ToRawSQL()
	require.NoError(t, err)
	assert.Equal(t, "select * from `users` where `name` = 'O''Reilly' and `age` > 30", raw)
}

func TestBuilderCloneIsIndependent(t *testing.T) {
	base := mysqlBuilder().Table("users").Where("active", "=", true)
	clone := base.Clone().Where("id", "=", 1)

	sql, _, err := base.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "select * from `users` where `active` = ?", sql)

	sql, _, err = clone.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "select * from `users` where `active` = ? and `id` = ?", sql)
}

func TestBuilderWhenUnless(t *testing.T) {
	q := mysqlBuilder().Table("users").
		When(true, func(q *Builder) { q.Where("a", "=", 1) }).
		When(false, func(q *Builder) { q.Where("b", "=", 2) }).
		Unless(false, func(q *Builder) { q.Where("c", "=", 3) })

	sql, bindings, err := q.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "select * from `users` where `a` = ? and `c` = ?", sql)
	assert.Equal(t, []any{1, 3}, bindings)
}

func TestBuilderForPageAfterID(t *testing.T) {
	sql, bindings, err := mysqlBuilder().Table("users").
		OrderBy("id", "desc").
		ForPageAfterID(15, 100, "").
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "select * from `users` where `id` > ? order by `id` asc limit 15", sql)
	assert.Equal(t, []any{100}, bindings)
}

func TestBuilderDatePartPadsDayAndMonth(t *testing.T) {
	q := mysqlBuilder().Table("users").WhereMonth("created_at", "=", 3)
	_, bindings, err := q.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, []any{"03"}, bindings)
}

func TestBuilderPostgresQuoting(t *testing.T) {
	sql, bindings, err := NewBuilder(dialect.Postgres()).
		Table("users").
		Where("email", "like", "%@example.com").
		ToSQL()
	require.NoError(t, err)
	assert.Equal(t, `select * from "users" where "email"::text like ?`, sql)
	assert.Equal(t, []any{"%@example.com"}, bindings)
}
