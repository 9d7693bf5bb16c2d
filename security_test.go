package ludb

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lupennat/ludb-sub002/dialect"
	"github.com/Lupennat/ludb-sub002/internal/validation"
	"github.com/Lupennat/ludb-sub002/schema"
)

var injectionPayloads = []string{
	"'; DROP TABLE users;--",
	"1 OR 1=1",
	"x' OR '1'='1",
	"users UNION SELECT * FROM passwords",
	"admin'/*",
}

func TestInjectionValuesAreBound(t *testing.T) {
	for _, payload := range injectionPayloads {
		t.Run(payload, func(t *testing.T) {
			sql, bindings, err := mysqlBuilder().Table("users").
				Where("name", "=", payload).
				OrWhereIn("email", []any{payload}).
				ToSQL()
			require.NoError(t, err)
			assert.Equal(t, "select * from `users` where `name` = ? or `email` in (?)", sql)
			assert.Equal(t, []any{payload, payload}, bindings)
		})
	}
}

func TestInjectionIdentifiersAreQuoted(t *testing.T) {
	tests := []struct {
		name    string
		grammar *dialect.Grammar
		want    string
	}{
		{"mysql", dialect.MySQL(), "select * from `users` where `name``; DROP TABLE users;--` = ? order by `id``--` asc"},
		{"pgsql", dialect.Postgres(), `select * from "users" where "name""; DROP TABLE users;--" = $1 order by "id""--" asc`},
		{"sqlite", dialect.SQLite(), `select * from "users" where "name""; DROP TABLE users;--" = ? order by "id""--" asc`},
		{"sqlsrv", dialect.SQLServer(), "select * from [users] where [name]]; DROP TABLE users;--] = @p1 order by [id]]--] asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			column := map[string]string{
				"mysql":  "name`; DROP TABLE users;--",
				"pgsql":  `name"; DROP TABLE users;--`,
				"sqlite": `name"; DROP TABLE users;--`,
				"sqlsrv": "name]; DROP TABLE users;--",
			}[tt.name]
			order := map[string]string{
				"mysql":  "id`--",
				"pgsql":  `id"--`,
				"sqlite": `id"--`,
				"sqlsrv": "id]--",
			}[tt.name]

			sql, _, err := NewBuilder(tt.grammar).Table("users").
				Where(column, "=", 1).
				OrderBy(order, "asc").
				ToSQL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.grammar.Rebind(sql))
		})
	}
}

func TestInjectionInsertColumnsAreQuoted(t *testing.T) {
	db, mock := newMockDB(t, "mysql")

	mock.ExpectExec("insert into `users` (`name``) values (1); --`) values (?)").
		WithArgs("x").
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, err := db.Table("users").Insert(map[string]any{"name`) values (1); --": "x"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInjectionOperatorsAreRejected(t *testing.T) {
	for _, op := range []string{"= 1 OR 1=1", ";", "--", "UNION", "DROP"} {
		t.Run(op, func(t *testing.T) {
			_, _, err := mysqlBuilder().Table("users").Where("id", op, 1).ToSQL()

			var opErr *dialect.OperatorError
			assert.True(t, errors.As(err, &opErr))
		})
	}
}

func TestInjectionRawSQLIsEscaped(t *testing.T) {
	raw, err := mysqlBuilder().Table("users").Where("name", "=", `x' OR '1'='1`).Where("path", "=", `C:\`).ToRawSQL()
	require.NoError(t, err)
	assert.Equal(t, "select * from `users` where `name` = 'x'' OR ''1''=''1' and `path` = 'C:\\\\'", raw)

	_, err = mysqlBuilder().Table("users").Where("name", "=", "a\x00b").ToRawSQL()
	assert.ErrorIs(t, err, dialect.ErrNullByte)
}

func TestInjectionSchemaNamesAreValidated(t *testing.T) {
	for _, name := range []string{"users; DROP TABLE users;--", "users--", "users OR 1=1", "a.b.c", ""} {
		t.Run(name, func(t *testing.T) {
			_, err := schema.NewBlueprint(name)

			var idErr *validation.IdentifierError
			assert.ErrorAs(t, err, &idErr)
		})
	}
}
