package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		wantErr    bool
	}{
		{"simple name", "users", false},
		{"with underscore", "user_name", false},
		{"with numbers", "user123", false},
		{"starts with underscore", "_private", false},
		{"mixed case", "UserName", false},
		{"single char", "a", false},

		{"empty string", "", true},
		{"starts with number", "123users", true},
		{"contains space", "user name", true},
		{"contains dash", "user-name", true},
		{"contains semicolon", "users;", true},
		{"contains quote", "users'", true},
		{"dotted", "users.id", true},
		{"sql injection attempt", "users; DROP TABLE users;--", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.identifier)
			if tt.wantErr {
				var idErr *IdentifierError
				assert.ErrorAs(t, err, &idErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{"simple", "users", false},
		{"schema qualified", "public.users", false},
		{"dollar", "tbl$1", false},
		{"max length", strings.Repeat("t", 128), false},

		{"empty", "", true},
		{"multiple dots", "a.b.c", true},
		{"starts with dot", ".users", true},
		{"ends with dot", "users.", true},
		{"comment", "users--", true},
		{"or injection", "users OR 1=1", true},
		{"too long", strings.Repeat("t", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTableName(tt.table)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSplitAlias(t *testing.T) {
	tests := []struct {
		value     string
		wantName  string
		wantAlias string
		wantOK    bool
	}{
		{"users as u", "users", "u", true},
		{"users AS u", "users", "u", true},
		{"users  as  u", "users", "u", true},
		{"(select 1) as sub", "(select 1)", "sub", true},
		{"users", "users", "", false},
		{"aliased_as_column", "aliased_as_column", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			name, alias, ok := SplitAlias(tt.value)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantAlias, alias)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestLastAlias(t *testing.T) {
	assert.Equal(t, "c", LastAlias("a.b as c"))
	assert.Equal(t, "users.id", LastAlias("users.id"))
}

func TestIsJSONSelector(t *testing.T) {
	assert.True(t, IsJSONSelector("meta->name"))
	assert.True(t, IsJSONSelector("meta->>name"))
	assert.False(t, IsJSONSelector("meta"))
}

func TestIdentifierError(t *testing.T) {
	err := &IdentifierError{Identifier: "bad;name", Reason: "contains invalid characters"}
	assert.Equal(t, "ludb: invalid identifier 'bad;name': contains invalid characters", err.Error())

	err = &IdentifierError{Reason: "cannot be empty"}
	assert.Equal(t, "ludb: invalid identifier: cannot be empty", err.Error())
}

func BenchmarkValidateIdentifier(b *testing.B) {
	identifiers := []string{"users", "user_accounts", "a", "very_long_identifier_name"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, id := range identifiers {
			_ = ValidateIdentifier(id)
		}
	}
}
