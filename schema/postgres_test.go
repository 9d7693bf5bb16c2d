package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCreateTable(t *testing.T) {
	bp := newBlueprint(t, "users")
	bp.Create()
	bp.ID()
	bp.String("email").Unique()
	bp.Enum("role", []string{"admin", "user"}).Default("user")
	bp.Timestamps()

	assert.Equal(t, []string{
		`create table "users" ("id" bigserial not null primary key, ` +
			`"email" varchar(255) not null, ` +
			`"role" varchar(255) check ("role" in ('admin', 'user')) not null default 'user', ` +
			`"created_at" timestamp(0) without time zone null, ` +
			`"updated_at" timestamp(0) without time zone null)`,
		`alter table "users" add constraint "users_email_unique" unique ("email")`,
	}, compile(t, Postgres(), bp))
}

func TestPostgresFluentCommands(t *testing.T) {
	bp := newBlueprint(t, "users")
	bp.Create()
	bp.Increments("id").From(100)
	bp.String("name").Comment("full name")

	assert.Equal(t, []string{
		`create table "users" ("id" serial not null primary key, "name" varchar(255) not null)`,
		`alter sequence users_id_seq restart with 100`,
		`comment on column "users"."name" is 'full name'`,
	}, compile(t, Postgres(), bp))
}

func TestPostgresChangeColumn(t *testing.T) {
	bp := newBlueprint(t, "users")
	bp.String("name", 50).Nullable().Default("x").Change()

	assert.Equal(t, []string{
		`alter table "users" alter column "name" type varchar(50), alter column "name" drop not null, alter column "name" set default 'x'`,
		`comment on column "users"."name" is NULL`,
	}, compile(t, Postgres(), bp))
}

func TestPostgresIdentityColumn(t *testing.T) {
	bp := newBlueprint(t, "users")
	bp.Create()
	bp.Integer("id").GeneratedAs("start with 10").Always().AutoIncrement()

	assert.Equal(t, []string{
		`create table "users" ("id" integer not null generated always as identity (start with 10) primary key)`,
	}, compile(t, Postgres(), bp))
}

func TestPostgresGeneratedAndCollatedColumns(t *testing.T) {
	bp := newBlueprint(t, "users")
	bp.String("name").Collation("en_US.utf8")
	bp.Integer("double_votes").StoredAs("votes * 2")

	assert.Equal(t, []string{
		`alter table "users" add column "name" varchar(255) collate "en_US.utf8" not null, ` +
			`add column "double_votes" integer not null generated always as (votes * 2) stored`,
	}, compile(t, Postgres(), bp))
}

func TestPostgresIndexes(t *testing.T) {
	tests := []struct {
		name  string
		build func(bp *Blueprint)
		want  string
	}{
		{
			name:  "fulltext",
			build: func(bp *Blueprint) { bp.Fulltext([]string{"title", "body"}) },
			want:  `create index "posts_title_body_fulltext" on "posts" using gin ((to_tsvector('english', "title") || to_tsvector('english', "body")))`,
		},
		{
			name:  "fulltext language",
			build: func(bp *Blueprint) { bp.Fulltext([]string{"title"}).Language("french") },
			want:  `create index "posts_title_fulltext" on "posts" using gin ((to_tsvector('french', "title")))`,
		},
		{
			name:  "spatial",
			build: func(bp *Blueprint) { bp.SpatialIndex([]string{"geo"}) },
			want:  `create index "posts_geo_spatialindex" on "posts" using gist ("geo")`,
		},
		{
			name:  "index algorithm",
			build: func(bp *Blueprint) { bp.Index([]string{"slug"}).Algorithm("hash") },
			want:  `create index "posts_slug_index" on "posts" using hash ("slug")`,
		},
		{
			name:  "deferrable unique",
			build: func(bp *Blueprint) { bp.Unique([]string{"slug"}).Deferrable().InitiallyImmediate() },
			want:  `alter table "posts" add constraint "posts_slug_unique" unique ("slug") deferrable initially immediate`,
		},
		{
			name: "foreign",
			build: func(bp *Blueprint) {
				bp.Foreign([]string{"user_id"}).References("id").On("users").Deferrable().InitiallyImmediate(false).NotValid()
			},
			want: `alter table "posts" add constraint "posts_user_id_foreign" foreign key ("user_id") references "users" ("id") deferrable initially deferred not valid`,
		},
		{
			name:  "drop fulltext",
			build: func(bp *Blueprint) { bp.DropFulltext("posts_title_fulltext") },
			want:  `drop index "posts_title_fulltext"`,
		},
		{
			name:  "drop unique",
			build: func(bp *Blueprint) { bp.DropUnique("posts_slug_unique") },
			want:  `alter table "posts" drop constraint "posts_slug_unique"`,
		},
		{
			name:  "rename index",
			build: func(bp *Blueprint) { bp.RenameIndex("a", "b") },
			want:  `alter index "a" rename to "b"`,
		},
		{
			name:  "table comment",
			build: func(bp *Blueprint) { bp.Comment("blog posts") },
			want:  `comment on table "posts" is 'blog posts'`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := newBlueprint(t, "posts")
			tt.build(bp)
			assert.Equal(t, []string{tt.want}, compile(t, Postgres(), bp))
		})
	}
}

func TestPostgresDropPrimaryUsesPrefix(t *testing.T) {
	bp := newBlueprint(t, "users", WithPrefix("ld_"))
	bp.DropPrimary()

	assert.Equal(t, []string{`alter table "ld_users" drop constraint "ld_users_pkey"`}, compile(t, Postgres(), bp))
}

func TestPostgresColumnTypes(t *testing.T) {
	tests := []struct {
		name   string
		column func(bp *Blueprint)
		want   string
	}{
		{"point", func(bp *Blueprint) { bp.Point("location") }, `"location" geography(point, 4326) not null`},
		{"geometry", func(bp *Blueprint) { bp.Point("location").IsGeometry().Projection(3857) }, `"location" geometry(point, 3857) not null`},
		{"plain geometry", func(bp *Blueprint) { bp.Polygon("area").IsGeometry() }, `"area" geometry(polygon) not null`},
		{"timestamptz", func(bp *Blueprint) { bp.TimestampTz("at", 6) }, `"at" timestamp(6) with time zone not null`},
		{"time", func(bp *Blueprint) { bp.Time("at") }, `"at" time(0) without time zone not null`},
		{"uuid", func(bp *Blueprint) { bp.UUID("id") }, `"id" uuid not null`},
		{"binary", func(bp *Blueprint) { bp.Binary("data") }, `"data" bytea not null`},
		{"small increments", func(bp *Blueprint) { bp.SmallIncrements("id") }, `"id" smallserial not null primary key`},
		{"double", func(bp *Blueprint) { bp.Double("ratio") }, `"ratio" double precision not null`},
		{"jsonb", func(bp *Blueprint) { bp.JSONB("meta") }, `"meta" jsonb not null`},
		{"boolean default", func(bp *Blueprint) { bp.Boolean("active").Default(false) }, `"active" boolean not null default '0'`},
		{"ip", func(bp *Blueprint) { bp.IPAddress("ip") }, `"ip" inet not null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := newBlueprint(t, "t")
			tt.column(bp)
			assert.Equal(t, []string{`alter table "t" add column ` + tt.want}, compile(t, Postgres(), bp))
		})
	}
}

func TestPostgresUnsupportedSet(t *testing.T) {
	bp := newBlueprint(t, "t")
	bp.Set("flags", []string{"a"})

	_, err := bp.ToSQL(nil, Postgres())
	assert.EqualError(t, err, "This database driver does not support the set type.")
}

func TestPostgresBuilderStatements(t *testing.T) {
	g := Postgres()
	conn := StaticConnection{Settings: map[string]string{"charset": "utf8", "schema": `public, "audit"`}}

	sql, err := g.CompileCreateDatabase("app", conn)
	require.NoError(t, err)
	assert.Equal(t, `create database "app" encoding "utf8"`, sql)

	sql, err = g.CompileGetAllTables(conn)
	require.NoError(t, err)
	assert.Equal(t, `select tablename, concat('"', schemaname, '"."', tablename, '"') as qualifiedname from pg_catalog.pg_tables where schemaname in ('public', 'audit')`, sql)

	sql, err = g.CompileGetAllTables(nil)
	require.NoError(t, err)
	assert.Contains(t, sql, "schemaname in ('public')")

	statements, err := g.CompileDropAllTables([]string{"users", "posts"})
	require.NoError(t, err)
	assert.Equal(t, []string{`drop table "users","posts" cascade`}, statements)

	sql, err = g.CompileEnableForeignKeyConstraints()
	require.NoError(t, err)
	assert.Equal(t, "SET CONSTRAINTS ALL IMMEDIATE;", sql)
}
