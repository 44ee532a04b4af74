// Command sqlmap generates mapper interfaces, model structs and statement
// documents from table metadata.
//
//	sqlmap generate -c sqlmap.yaml
//	sqlmap inspect --dialect postgres --dsn "$DSN" --snapshot schema.msgpack
//	sqlmap watch -c sqlmap.yaml
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/syssam/sqlmap/compiler"
	"github.com/syssam/sqlmap/compiler/config"
	"github.com/syssam/sqlmap/compiler/gen"
	"github.com/syssam/sqlmap/compiler/load"
	"github.com/syssam/sqlmap/compiler/plugin"
)

const version = "0.4.0"

// CLI defines the command-line interface.
type CLI struct {
	LogLevel string `name:"log-level" default:"" help:"Override the configured log level (debug, info, warn, error)"`

	Generate GenerateCmd `cmd:"" default:"1" help:"Generate the mapper package"`
	Inspect  InspectCmd  `cmd:"" help:"Read table metadata from a database"`
	Plugins  PluginsCmd  `cmd:"" help:"List the available plugin types"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate whenever the configuration or schema files change"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// Globals carries state shared by the commands.
type Globals struct {
	LogLevel string
	Stdout   io.Writer
	Stderr   io.Writer
}

// session reads the configuration file and builds a generation session.
func (g *Globals) session(path string) (*compiler.Session, *logrus.Logger, error) {
	f, err := config.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		f.Log.Level = g.LogLevel
	}
	logger, err := f.Logger(g.Stderr)
	if err != nil {
		return nil, nil, err
	}
	s, err := compiler.NewSession(f, gen.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return s, logger, nil
}

// GenerateCmd runs the pipeline once.
type GenerateCmd struct {
	Config string `short:"c" default:"sqlmap.yaml" type:"path" help:"Configuration file"`
	DryRun bool   `name:"dry-run" help:"Print the files that would be written instead of writing them"`
}

// Run executes the generate command.
func (c *GenerateCmd) Run(ctx context.Context, g *Globals) error {
	s, _, err := g.session(c.Config)
	if err != nil {
		return err
	}
	if c.DryRun {
		_, files, err := s.Render(ctx)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(g.Stdout, "%s\t%d bytes\n", f.Name, len(f.Data))
		}
		return nil
	}
	_, err = s.Write(ctx)
	return err
}

// InspectCmd dumps the tables of a live database.
type InspectCmd struct {
	Dialect  string   `required:"" enum:"sqlite,mysql,postgres" help:"Database dialect"`
	DSN      string   `name:"dsn" required:"" env:"SQLMAP_DSN" help:"Data source name"`
	Mode     string   `default:"atlas" enum:"atlas,information_schema" help:"Inspection mode"`
	Schema   string   `help:"Schema to inspect (default: the connection's current schema)"`
	Tables   []string `help:"Tables to include, in order"`
	Snapshot string   `type:"path" help:"Write a msgpack snapshot to this file instead of printing YAML"`
}

// Run executes the inspect command.
func (c *InspectCmd) Run(ctx context.Context, g *Globals) error {
	src := &load.Config{
		Dialect: c.Dialect,
		DSN:     c.DSN,
		Mode:    c.Mode,
		Schema:  c.Schema,
		Tables:  c.Tables,
	}
	tables, err := src.Load(ctx)
	if err != nil {
		return err
	}
	if c.Snapshot != "" {
		if err := load.WriteSnapshot(c.Snapshot, load.Dialect(c.Dialect), tables); err != nil {
			return err
		}
		fmt.Fprintf(g.Stdout, "wrote %d tables to %s\n", len(tables), c.Snapshot)
		return nil
	}
	return load.Encode(g.Stdout, tables)
}

// PluginsCmd lists plugin types.
type PluginsCmd struct{}

// Run executes the plugins command.
func (c *PluginsCmd) Run(g *Globals) error {
	for _, name := range plugin.Names() {
		fmt.Fprintln(g.Stdout, name)
	}
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

// Run executes the version command.
func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintf(g.Stdout, "sqlmap version %s\n", version)
	return nil
}

// newParser builds the kong parser writing to the given streams.
func newParser(cli *CLI, stdout, stderr io.Writer) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("sqlmap"),
		kong.Description("Table-driven generator for mapper interfaces and statement documents"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
}

// run parses args and executes the selected command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := newParser(&cli, stdout, stderr)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	kctx.BindTo(ctx, (*context.Context)(nil))
	return kctx.Run(&Globals{LogLevel: cli.LogLevel, Stdout: stdout, Stderr: stderr})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "sqlmap: %v\n", err)
		os.Exit(1)
	}
}
