package tabledef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lupennat/ludb-sub002/schema"
)

const definitions = `
tables:
  - name: users
    columns:
      - {name: id, type: id}
      - {name: email, type: string, unique: true}
      - {name: active, type: boolean, default: true}
  - name: posts
    columns:
      - {name: id, type: id}
      - {name: user_id, type: foreignId, constrained: true, on_delete: cascade}
      - {name: title, type: string}
  - name: sessions
    action: drop_if_exists
`

func compile(t *testing.T, bp *schema.Blueprint, g *schema.Grammar) []string {
	t.Helper()
	statements, err := bp.ToSQL(nil, g)
	require.NoError(t, err)
	return statements
}

func TestBlueprints(t *testing.T) {
	f, err := Parse([]byte(definitions))
	require.NoError(t, err)
	require.Len(t, f.Tables, 3)

	bps, err := f.Blueprints()
	require.NoError(t, err)
	require.Len(t, bps, 3)

	assert.Equal(t, []string{
		`create table "users" ("id" integer not null primary key autoincrement, "email" varchar not null, "active" tinyint(1) not null default '1')`,
		`create unique index "users_email_unique" on "users" ("email")`,
	}, compile(t, bps[0], schema.SQLite()))

	assert.Equal(t, []string{
		`create table "posts" ("id" integer not null primary key autoincrement, "user_id" integer not null, "title" varchar not null, ` +
			`foreign key("user_id") references "users"("id") on delete cascade)`,
	}, compile(t, bps[1], schema.SQLite()))

	assert.Equal(t, []string{`drop table if exists "sessions"`}, compile(t, bps[2], schema.SQLite()))
}

func TestBlueprintsWithPrefix(t *testing.T) {
	f, err := Parse([]byte(definitions))
	require.NoError(t, err)

	bps, err := f.Blueprints(schema.WithPrefix("app_"))
	require.NoError(t, err)
	assert.Equal(t, []string{`drop table if exists "app_sessions"`}, compile(t, bps[2], schema.SQLite()))
}

func TestAlterTable(t *testing.T) {
	f, err := Parse([]byte(`
tables:
  - name: users
    action: alter
    columns:
      - {name: nickname, type: string, length: 50, nullable: true}
    drop_columns: [legacy]
`))
	require.NoError(t, err)

	bp, err := f.Tables[0].Blueprint()
	require.NoError(t, err)
	assert.Equal(t, []string{
		`alter table "users" add column "nickname" varchar`,
		`alter table "users" drop column "legacy"`,
	}, compile(t, bp, schema.SQLite()))
}

func TestTableIndexesAndForeignKeys(t *testing.T) {
	f, err := Parse([]byte(`
tables:
  - name: memberships
    columns:
      - {name: team_id, type: integer}
      - {name: user_id, type: integer}
    indexes:
      - {type: primary, columns: [team_id, user_id]}
    foreign_keys:
      - {columns: [team_id], references: [id], on: teams, on_delete: cascade}
`))
	require.NoError(t, err)

	bp, err := f.Tables[0].Blueprint()
	require.NoError(t, err)
	assert.Equal(t, []string{
		`create table "memberships" ("team_id" integer not null, "user_id" integer not null, ` +
			`foreign key("team_id") references "teams"("id") on delete cascade, primary key ("team_id", "user_id"))`,
	}, compile(t, bp, schema.SQLite()))
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"unknown type", "tables:\n  - name: t\n    columns:\n      - {name: a, type: blob}\n", ErrUnknownType},
		{"unknown action", "tables:\n  - name: t\n    action: truncate\n", ErrUnknownAction},
		{"enum without values", "tables:\n  - name: t\n    columns:\n      - {name: a, type: enum}\n", ErrMissingValues},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = f.Blueprints()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("tables:\n  - name: t\n    colums: []\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(definitions), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "users", f.Tables[0].Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
