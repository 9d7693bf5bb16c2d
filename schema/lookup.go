package schema

import (
	"fmt"
	"sort"
	"strings"
)

var constructors = map[string]func() *Grammar{
	"mysql":     MySQL,
	"mariadb":   MySQL,
	"pgsql":     Postgres,
	"postgres":  Postgres,
	"pgx":       Postgres,
	"sqlite":    SQLite,
	"sqlite3":   SQLite,
	"sqlsrv":    SQLServer,
	"sqlserver": SQLServer,
	"mssql":     SQLServer,
}

// LookupGrammar returns the schema grammar for a driver name. It accepts the
// same names as dialect.Lookup.
func LookupGrammar(driver string) (*Grammar, error) {
	if ctor, ok := constructors[strings.ToLower(driver)]; ok {
		return ctor(), nil
	}
	return nil, fmt.Errorf("schema: unsupported driver %q", driver)
}

// Names lists the accepted driver names.
func Names() []string {
	out := make([]string, 0, len(constructors))
	for name := range constructors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
