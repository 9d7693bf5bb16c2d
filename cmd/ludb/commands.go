package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Lupennat/ludb-sub002"
	"github.com/Lupennat/ludb-sub002/dialect"
	"github.com/Lupennat/ludb-sub002/internal/tabledef"
	"github.com/Lupennat/ludb-sub002/schema"
)

var ErrNoConfig = errors.New("either --config or --env is required")

// DDLCmd compiles table definitions without touching a database.
type DDLCmd struct {
	File    string `arg:"" type:"existingfile" help:"YAML table definitions"`
	Dialect string `short:"d" help:"Target dialect (default: the config driver, or mysql)"`
	Prefix  string `short:"p" help:"Table prefix (overrides the config prefix)"`
	Config  string `short:"c" type:"path" help:"Database config supplying prefix, charset, collation and column defaults"`
}

func (cmd *DDLCmd) Run(ctx *Context) error {
	cfg := ludb.DefaultConfig()
	if cmd.Config != "" {
		loaded, err := ludb.LoadConfig(cmd.Config)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	name := cmd.Dialect
	if name == "" {
		name = cfg.Driver
	}
	g, err := schema.LookupGrammar(name)
	if err != nil {
		return err
	}

	prefix := cfg.Prefix
	if cmd.Prefix != "" {
		prefix = cmd.Prefix
	}

	file, err := tabledef.Load(cmd.File)
	if err != nil {
		return err
	}
	blueprints, err := file.Blueprints(schema.WithPrefix(prefix), schema.WithConfig(cfg.SchemaConfig()))
	if err != nil {
		return err
	}

	conn := schema.StaticConnection{Prefix: prefix, Database: cfg.Database, Settings: cfg.Settings()}
	log := ctx.logger()
	for _, bp := range blueprints {
		statements, err := bp.ToSQL(conn, g)
		if err != nil {
			return fmt.Errorf("table %s: %w", bp.Table(), err)
		}
		log.Debug("compiled blueprint", "table", bp.Table(), "statements", len(statements))
		for _, s := range statements {
			if _, err := fmt.Fprintf(ctx.Out, "%s;\n", s); err != nil {
				return err
			}
		}
	}
	return nil
}

// DialectsCmd lists the driver names each grammar answers to.
type DialectsCmd struct{}

func (cmd *DialectsCmd) Run(ctx *Context) error {
	aliases := map[string][]string{}
	var order []string
	for _, name := range dialect.Names() {
		g, err := dialect.Lookup(name)
		if err != nil {
			return err
		}
		if _, seen := aliases[g.Name()]; !seen {
			order = append(order, g.Name())
		}
		aliases[g.Name()] = append(aliases[g.Name()], name)
	}
	sort.Strings(order)
	for _, canonical := range order {
		if _, err := fmt.Fprintf(ctx.Out, "%-8s %s\n", canonical, strings.Join(aliases[canonical], ", ")); err != nil {
			return err
		}
	}
	return nil
}

// InterpolateCmd inlines literal arguments into a statement for reading.
type InterpolateCmd struct {
	Dialect string   `short:"d" default:"mysql" help:"Dialect whose quoting rules apply"`
	SQL     string   `arg:"" help:"Statement with ? placeholders"`
	Args    []string `arg:"" optional:"" help:"Bindings; null, true, false and numbers are typed, the rest are strings"`
}

func (cmd *InterpolateCmd) Run(ctx *Context) error {
	g, err := dialect.Lookup(cmd.Dialect)
	if err != nil {
		return err
	}
	bindings := make([]any, len(cmd.Args))
	for i, a := range cmd.Args {
		bindings[i] = parseBinding(a)
	}
	out, err := g.SubstituteBindingsIntoRawSQL(cmd.SQL, bindings)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.Out, out)
	return err
}

func parseBinding(s string) any {
	switch s {
	case "null", "NULL":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// TablesCmd connects and prints the table names.
type TablesCmd struct {
	Config string   `short:"c" type:"existingfile" help:"YAML database config"`
	Env    []string `short:"e" help:"Dotenv files read for DB_* settings"`
}

func (cmd *TablesCmd) Run(ctx *Context) error {
	var (
		cfg *ludb.Config
		err error
	)
	switch {
	case cmd.Config != "":
		cfg, err = ludb.LoadConfig(cmd.Config)
	case len(cmd.Env) > 0:
		cfg, err = ludb.LoadEnvConfig(cmd.Env...)
	default:
		return ErrNoConfig
	}
	if err != nil {
		return err
	}

	db, err := ludb.ConnectWithConfig(cfg, ludb.WithLogger(ctx.logger()))
	if err != nil {
		return err
	}
	defer db.Close()

	names, err := db.Schema().GetTableNames(context.Background())
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(ctx.Out, name); err != nil {
			return err
		}
	}
	return nil
}
