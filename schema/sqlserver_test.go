package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLServerCreateTable(t *testing.T) {
	bp := newBlueprint(t, "users")
	bp.Create()
	bp.ID()
	bp.String("email").Unique()
	bp.Boolean("active").Default(true)
	bp.DateTime("seen_at", 3).Nullable()

	assert.Equal(t, []string{
		"create table [users] ([id] bigint not null identity primary key, [email] nvarchar(255) not null, " +
			"[active] bit not null default '1', [seen_at] datetime2(3) null)",
		"create unique index [users_email_unique] on [users] ([email])",
	}, compile(t, SQLServer(), bp))
}

func TestSQLServerTemporaryTable(t *testing.T) {
	bp := newBlueprint(t, "users", WithPrefix("app_"))
	bp.Temporary().Create()
	bp.Integer("id")

	assert.Equal(t, []string{"create table [#users] ([id] int not null)"}, compile(t, SQLServer(), bp))
}

func TestSQLServerComputedColumn(t *testing.T) {
	bp := newBlueprint(t, "products")
	bp.Integer("price")
	bp.Computed("double_price", "price * 2").Persisted()

	assert.Equal(t, []string{
		"alter table [products] add [price] int not null, [double_price] as (price * 2) persisted",
	}, compile(t, SQLServer(), bp))
}

func TestSQLServerChangeColumn(t *testing.T) {
	bp := newBlueprint(t, "users")
	bp.String("name", 50).Default("x").Change()

	assert.Equal(t, []string{
		"DECLARE @sql NVARCHAR(MAX) = '';" +
			"SELECT @sql += 'ALTER TABLE [users] DROP CONSTRAINT ' + OBJECT_NAME([default_object_id]) + ';' " +
			"FROM sys.columns " +
			"WHERE [object_id] = OBJECT_ID('[users]') AND [name] in ('name') AND [default_object_id] <> 0;" +
			"EXEC(@sql)",
		"alter table [users] alter column [name] nvarchar(50) not null",
		"alter table [users] add default 'x' for [name]",
	}, compile(t, SQLServer(), bp))
}

func TestSQLServerDropColumn(t *testing.T) {
	bp := newBlueprint(t, "users")
	bp.DropColumn("a", "b")

	assert.Equal(t, []string{
		"DECLARE @sql NVARCHAR(MAX) = '';" +
			"SELECT @sql += 'ALTER TABLE [users] DROP CONSTRAINT ' + OBJECT_NAME([default_object_id]) + ';' " +
			"FROM sys.columns " +
			"WHERE [object_id] = OBJECT_ID('[users]') AND [name] in ('a', 'b') AND [default_object_id] <> 0;" +
			"EXEC(@sql);alter table [users] drop column [a], [b]",
	}, compile(t, SQLServer(), bp))
}

func TestSQLServerDropDefaultConstraintSchema(t *testing.T) {
	bp := newBlueprint(t, "sales.orders")
	bp.DropColumn("total")

	stmts := compile(t, SQLServer(), bp)
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], "'ALTER TABLE [sales].[orders] DROP CONSTRAINT '")
	assert.Contains(t, stmts[0], "OBJECT_ID('[sales].[orders]')")
	assert.NotContains(t, stmts[0], "[dbo]")
	assert.True(t, strings.HasSuffix(stmts[0], ";alter table [sales].[orders] drop column [total]"))
}

func TestSQLServerTableCommands(t *testing.T) {
	tests := []struct {
		name  string
		build func(bp *Blueprint)
		want  string
	}{
		{"rename", func(bp *Blueprint) { bp.Rename("people") }, "sp_rename N'[users]', [people]"},
		{"rename column", func(bp *Blueprint) { bp.RenameColumn("name", "full_name") }, "sp_rename N'[users].[name]', [full_name], N'COLUMN'"},
		{"rename index", func(bp *Blueprint) { bp.RenameIndex("a", "b") }, "sp_rename N'[users].[a]', [b], N'INDEX'"},
		{"drop if exists", func(bp *Blueprint) { bp.DropIfExists() }, "if exists (select * from sys.sysobjects where id = object_id('users', 'U')) drop table [users]"},
		{"primary", func(bp *Blueprint) { bp.Primary([]string{"id"}) }, "alter table [users] add constraint [users_id_primary] primary key ([id])"},
		{"spatial", func(bp *Blueprint) { bp.SpatialIndex([]string{"geo"}) }, "create spatial index [users_geo_spatialindex] on [users] ([geo])"},
		{"drop primary", func(bp *Blueprint) { bp.DropPrimary("users_id_primary") }, "alter table [users] drop constraint [users_id_primary]"},
		{"drop unique", func(bp *Blueprint) { bp.DropUnique("users_email_unique") }, "drop index [users_email_unique] on [users]"},
		{"drop spatial", func(bp *Blueprint) { bp.DropSpatialIndex("geo") }, "drop index [geo] on [users]"},
		{"drop foreign", func(bp *Blueprint) { bp.DropForeign("users_team_id_foreign") }, "alter table [users] drop constraint [users_team_id_foreign]"},
		{
			"foreign",
			func(bp *Blueprint) { bp.Foreign([]string{"team_id"}).References("id").On("teams").NullOnDelete() },
			"alter table [users] add constraint [users_team_id_foreign] foreign key ([team_id]) references [teams] ([id]) on delete set null",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := newBlueprint(t, "users")
			tt.build(bp)
			assert.Equal(t, []string{tt.want}, compile(t, SQLServer(), bp))
		})
	}
}

func TestSQLServerColumnTypes(t *testing.T) {
	tests := []struct {
		name   string
		column func(bp *Blueprint)
		want   string
	}{
		{"text", func(bp *Blueprint) { bp.Text("body") }, "[body] nvarchar(max) not null"},
		{"uuid", func(bp *Blueprint) { bp.UUID("id") }, "[id] uniqueidentifier not null"},
		{"ulid", func(bp *Blueprint) { bp.ULID("id") }, "[id] nchar(26) not null"},
		{"datetimeoffset", func(bp *Blueprint) { bp.TimestampTz("at") }, "[at] datetimeoffset not null"},
		{"time", func(bp *Blueprint) { bp.Time("at", 4) }, "[at] time(4) not null"},
		{"timestamp", func(bp *Blueprint) { bp.Timestamp("at") }, "[at] datetime not null"},
		{"geography", func(bp *Blueprint) { bp.Point("at") }, "[at] geography not null"},
		{"binary", func(bp *Blueprint) { bp.Binary("data") }, "[data] varbinary(max) not null"},
		{"enum", func(bp *Blueprint) { bp.Enum("role", []string{"a"}) }, "[role] nvarchar(255) check ([role] in ('a')) not null"},
		{"collation", func(bp *Blueprint) { bp.String("name").Collation("Latin1_General_CI_AS") }, "[name] nvarchar(255) collate Latin1_General_CI_AS not null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := newBlueprint(t, "t")
			tt.column(bp)
			assert.Equal(t, []string{"alter table [t] add " + tt.want}, compile(t, SQLServer(), bp))
		})
	}
}

func TestSQLServerFulltextUnsupported(t *testing.T) {
	bp := newBlueprint(t, "users")
	bp.Fulltext([]string{"bio"})

	_, err := bp.ToSQL(nil, SQLServer())
	assert.EqualError(t, err, "This database driver does not support fulltext index creation.")
}

func TestSQLServerBuilderStatements(t *testing.T) {
	g := SQLServer()

	sql, err := g.CompileCreateDatabase("app", nil)
	require.NoError(t, err)
	assert.Equal(t, "create database [app]", sql)

	sql, err = g.CompileColumnListing("users")
	require.NoError(t, err)
	assert.Equal(t, "select name from sys.columns where object_id = object_id('users')", sql)

	sql, err = g.CompileTableExists()
	require.NoError(t, err)
	assert.Equal(t, "select * from sys.sysobjects where id = object_id(?) and xtype in ('U', 'V')", sql)

	statements, err := g.CompileDropAllTables(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"EXEC sp_msforeachtable 'DROP TABLE ?'"}, statements)

	sql, err = g.CompileDisableForeignKeyConstraints()
	require.NoError(t, err)
	assert.Equal(t, `EXEC sp_msforeachtable "ALTER TABLE ? NOCHECK CONSTRAINT all";`, sql)
}
