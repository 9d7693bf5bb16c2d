package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/Lupennat/ludb-sub002"
)

// Context is handed to every command.
type Context struct {
	Out     io.Writer
	Verbose bool
}

// logger returns a text logger on stderr, at debug level when verbose.
func (c *Context) logger() *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// CLI is the command line interface.
var CLI struct {
	Verbose bool `help:"Log every statement" short:"v"`

	DDL         DDLCmd         `cmd:"" name:"ddl" help:"Compile YAML table definitions into DDL"`
	Dialects    DialectsCmd    `cmd:"" help:"List the supported dialects and their driver names"`
	Interpolate InterpolateCmd `cmd:"" help:"Inline bindings into a SQL statement"`
	Tables      TablesCmd      `cmd:"" help:"List the tables of a database"`
	Version     VersionCmd     `cmd:"" help:"Show version information"`
}

type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Out, "ludb v%s\n", ludb.Version)
	return err
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("ludb"),
		kong.Description("Multi-dialect SQL query and schema compiler."),
		kong.UsageOnError(),
	)

	err := kctx.Run(&Context{Out: os.Stdout, Verbose: CLI.Verbose})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
