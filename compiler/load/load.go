// Package load reads table metadata for the generator.
//
// Tables come from one of three sources: YAML schema files, a msgpack
// snapshot written by a previous inspection, or a live database. Live
// databases are inspected with atlas (sqlite, mysql, postgres) or, in
// information_schema mode, with plain catalog queries.
package load

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/sqlmap/compiler/gen"
	"github.com/syssam/sqlmap/schema"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names. They double as database/sql driver names.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Inspection modes for live databases.
const (
	ModeAtlas             = "atlas"
	ModeInformationSchema = "information_schema"
)

// ErrNoSource is returned when a Config names neither files, a snapshot
// nor a database.
var ErrNoSource = errors.New("load: no table source configured")

// Config describes where table metadata is read from.
type Config struct {
	// Files are YAML schema files, read in order.
	Files []string `yaml:"files,omitempty"`
	// Snapshot is a msgpack snapshot file.
	Snapshot string `yaml:"snapshot,omitempty"`
	// Dialect and DSN select a live database.
	Dialect string `yaml:"dialect,omitempty"`
	DSN     string `yaml:"dsn,omitempty"`
	// Mode is ModeAtlas (default) or ModeInformationSchema.
	Mode string `yaml:"mode,omitempty"`
	// Schema is the database schema to inspect. Empty means the
	// connection's current schema.
	Schema string `yaml:"schema,omitempty"`
	// Tables restricts and orders the result. Empty keeps every table.
	Tables []string `yaml:"tables,omitempty"`
}

// Dialect returns the dialect name of a driver name, e.g. "sqlite3" and
// "sqlite" both resolve to SQLite.
func Dialect(name string) string {
	for _, d := range []string{MySQL, SQLite, Postgres} {
		if strings.HasPrefix(name, d) {
			return d
		}
	}
	if name == "pgx" || name == "postgresql" {
		return Postgres
	}
	return name
}

// Load reads, filters and normalizes the configured tables.
func (c *Config) Load(ctx context.Context) ([]*schema.Table, error) {
	var (
		tables []*schema.Table
		err    error
	)
	switch {
	case len(c.Files) > 0:
		tables, err = ReadFiles(c.Files...)
	case c.Snapshot != "":
		tables, err = ReadSnapshot(c.Snapshot)
	case c.DSN != "":
		tables, err = c.inspect(ctx)
	default:
		return nil, ErrNoSource
	}
	if err != nil {
		return nil, err
	}
	if tables, err = Select(tables, c.Tables); err != nil {
		return nil, err
	}
	for _, t := range tables {
		if err := t.Normalize(); err != nil {
			return nil, gen.NewSchemaError(t.QualifiedName(), "", "invalid table", err)
		}
	}
	return tables, nil
}

func (c *Config) inspect(ctx context.Context) ([]*schema.Table, error) {
	dialect := Dialect(c.Dialect)
	db, err := sql.Open(dialect, c.DSN)
	if err != nil {
		return nil, fmt.Errorf("load: open %s: %w", dialect, err)
	}
	defer db.Close()
	if dialect == SQLite {
		// in-memory databases live on a single connection.
		db.SetMaxOpenConns(1)
	}
	switch c.Mode {
	case "", ModeAtlas:
		return Inspect(ctx, db, dialect, c.Schema, c.Tables...)
	case ModeInformationSchema:
		return NewCatalog(db, dialect).Tables(ctx, c.Schema)
	default:
		return nil, gen.NewConfigError("mode", c.Mode, "unknown inspection mode")
	}
}

// Select returns the tables named in names, in that order. Names match
// the table name or its qualified name. An empty list keeps all tables.
func Select(tables []*schema.Table, names []string) ([]*schema.Table, error) {
	if len(names) == 0 {
		return tables, nil
	}
	selected := make([]*schema.Table, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(tables, func(t *schema.Table) bool {
			return t.Name == name || t.QualifiedName() == name
		})
		if i < 0 {
			return nil, gen.NewSchemaError(name, "", "table not found", nil)
		}
		selected = append(selected, tables[i])
	}
	return selected, nil
}
