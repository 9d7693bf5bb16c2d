package ludb

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lupennat/ludb-sub002/schema"
)

func TestSchemaCreate(t *testing.T) {
	db, mock := newMockDB(t, "sqlite")

	mock.ExpectExec(`create table "users" ("id" integer not null primary key autoincrement, "email" varchar not null, "active" tinyint(1) not null default '1', "meta" text)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := db.Schema().Create(context.Background(), "users", func(t *schema.Blueprint) {
		t.ID()
		t.String("email")
		t.Boolean("active").Default(true)
		t.JSON("meta").Nullable()
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaTableCommands(t *testing.T) {
	db, mock := newMockDB(t, "sqlite", WithTablePrefix("app_"))
	ctx := context.Background()

	mock.ExpectExec(`alter table "app_users" drop column "a"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`alter table "app_users" rename to "app_people"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`drop table if exists "app_people"`).WillReturnResult(sqlmock.NewResult(0, 0))

	sb := db.Schema()
	require.NoError(t, sb.DropColumns(ctx, "users", "a"))
	require.NoError(t, sb.Rename(ctx, "users", "people"))
	require.NoError(t, sb.DropIfExists(ctx, "people"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaHasTable(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		db, mock := newMockDB(t, "sqlite", WithTablePrefix("app_"))
		mock.ExpectQuery("select * from sqlite_master where type = 'table' and name = ?").
			WithArgs("app_users").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("app_users"))

		ok, err := db.Schema().HasTable(context.Background(), "users")
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mysql", func(t *testing.T) {
		db, mock := newMockDB(t, "mysql", WithDatabaseName("app"))
		mock.ExpectQuery("select * from information_schema.tables where table_schema = ? and table_name = ? and table_type = 'BASE TABLE'").
			WithArgs("app", "users").
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}))

		ok, err := db.Schema().HasTable(context.Background(), "users")
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pgsql search path", func(t *testing.T) {
		db, mock := newMockDB(t, "pgx",
			WithDatabaseName("app"),
			WithSettings(map[string]string{"schema": `"$user", public`, "username": "forge"}))
		mock.ExpectQuery("select * from information_schema.tables where table_catalog = $1 and table_schema = $2 and table_name = $3 and table_type = 'BASE TABLE'").
			WithArgs("app", "forge", "users").
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("users"))
		mock.ExpectQuery("select * from information_schema.tables where table_catalog = $1 and table_schema = $2 and table_name = $3 and table_type = 'BASE TABLE'").
			WithArgs("app", "audit", "logs").
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("logs"))

		sb := db.Schema()
		ok, err := sb.HasTable(context.Background(), "users")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = sb.HasTable(context.Background(), "audit.logs")
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSchemaColumns(t *testing.T) {
	db, mock := newMockDB(t, "mysql", WithDatabaseName("app"))
	listing := "select column_name as `column_name` from information_schema.columns where table_schema = ? and table_name = ?"

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(listing).
			WithArgs("app", "users").
			WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id").AddRow("Email"))
	}

	sb := db.Schema()
	ok, err := sb.HasColumns(context.Background(), "users", "ID", "email")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sb.HasColumn(context.Background(), "users", "name")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaDropAllTablesMySQL(t *testing.T) {
	db, mock := newMockDB(t, "mysql")

	mock.ExpectQuery("SHOW FULL TABLES WHERE table_type = 'BASE TABLE'").
		WillReturnRows(sqlmock.NewRows([]string{"Tables_in_app", "Table_type"}).
			AddRow("users", "BASE TABLE").
			AddRow("posts", "BASE TABLE"))
	mock.ExpectExec("SET FOREIGN_KEY_CHECKS=0;").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("drop table `users`,`posts`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SET FOREIGN_KEY_CHECKS=1;").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, db.Schema().DropAllTables(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaDropAllTablesSQLite(t *testing.T) {
	db, mock := newMockDB(t, "sqlite")

	mock.ExpectExec("PRAGMA writable_schema = 1;").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("delete from sqlite_master where type in ('table', 'index', 'trigger')").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("PRAGMA writable_schema = 0;").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("vacuum").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, db.Schema().DropAllTables(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaWithoutForeignKeyConstraintsReenablesOnError(t *testing.T) {
	db, mock := newMockDB(t, "sqlite")

	mock.ExpectExec("PRAGMA foreign_keys = OFF;").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("PRAGMA foreign_keys = ON;").WillReturnResult(sqlmock.NewResult(0, 0))

	failure := assert.AnError
	err := db.Schema().WithoutForeignKeyConstraints(context.Background(), func() error {
		return failure
	})
	assert.ErrorIs(t, err, failure)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaCreateDatabase(t *testing.T) {
	db, mock := newMockDB(t, "mysql", WithSettings(map[string]string{"charset": "utf8mb4", "collation": "utf8mb4_unicode_ci"}))

	mock.ExpectExec("create database `shop` default character set `utf8mb4` default collate `utf8mb4_unicode_ci`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("drop database if exists `shop`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	sb := db.Schema()
	require.NoError(t, sb.CreateDatabase(context.Background(), "shop"))
	require.NoError(t, sb.DropDatabaseIfExists(context.Background(), "shop"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTableNames(t *testing.T) {
	rows := []map[string]any{
		{"tablename": "a"},
		{"name": []byte("b")},
		{"Tables_in_app": "c"},
		{"other": "d"},
	}
	assert.Equal(t, []string{"a", "b", "c"}, tableNames(rows))
}
