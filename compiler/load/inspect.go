package load

import (
	"context"
	"database/sql"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/sqlmap/compiler/gen"
	"github.com/syssam/sqlmap/schema"
)

// Inspect reads the tables of a schema through the atlas driver of the
// dialect. names limits the inspection to the given tables.
func Inspect(ctx context.Context, db *sql.DB, dialect, schemaName string, names ...string) ([]*schema.Table, error) {
	drv, err := driver(db, dialect)
	if err != nil {
		return nil, err
	}
	name := schemaName
	if name == "" && Dialect(dialect) == SQLite {
		name = "main"
	}
	s, err := drv.InspectSchema(ctx, name, &atlas.InspectOptions{Tables: names})
	if err != nil {
		return nil, fmt.Errorf("load: inspect %s schema %q: %w", dialect, schemaName, err)
	}
	tables := make([]*schema.Table, 0, len(s.Tables))
	for _, t := range s.Tables {
		tables = append(tables, convert(schemaName, t))
	}
	return tables, nil
}

func driver(db *sql.DB, dialect string) (migrate.Driver, error) {
	switch Dialect(dialect) {
	case SQLite:
		return sqlite.Open(db)
	case MySQL:
		return mysql.Open(db)
	case Postgres:
		return postgres.Open(db)
	default:
		return nil, gen.NewConfigError("dialect", dialect, "unsupported dialect")
	}
}

func convert(schemaName string, t *atlas.Table) *schema.Table {
	out := &schema.Table{
		Schema:  schemaName,
		Name:    t.Name,
		Comment: comment(t.Attrs),
		Columns: make([]*schema.Column, 0, len(t.Columns)),
	}
	for _, c := range t.Columns {
		col := &schema.Column{
			Name:    c.Name,
			Type:    jdbcType(c.Type),
			Comment: comment(c.Attrs),
		}
		if c.Type != nil {
			col.Nullable = c.Type.Null
			if s, ok := c.Type.Type.(*atlas.StringType); ok {
				col.Size = s.Size
			}
		}
		out.Columns = append(out.Columns, col)
	}
	if t.PrimaryKey != nil {
		for _, p := range t.PrimaryKey.Parts {
			if p.C != nil {
				out.PrimaryKey = append(out.PrimaryKey, p.C.Name)
			}
		}
	}
	return out
}

// jdbcType prefers the raw declared type and falls back to the atlas
// type family.
func jdbcType(ct *atlas.ColumnType) schema.JDBCType {
	if ct == nil {
		return schema.TypeOther
	}
	if ct.Raw != "" {
		if t := schema.ParseJDBCType(ct.Raw); t != schema.TypeOther {
			return t
		}
	}
	switch t := ct.Type.(type) {
	case *atlas.IntegerType:
		if jt := schema.ParseJDBCType(t.T); jt != schema.TypeOther {
			return jt
		}
		return schema.TypeBigInt
	case *atlas.BoolType:
		return schema.TypeBoolean
	case *atlas.StringType:
		return schema.TypeVarchar
	case *atlas.TimeType:
		if jt := schema.ParseJDBCType(t.T); jt != schema.TypeOther {
			return jt
		}
		return schema.TypeTimestamp
	case *atlas.DecimalType:
		return schema.TypeDecimal
	case *atlas.FloatType:
		return schema.TypeDouble
	case *atlas.BinaryType:
		return schema.TypeVarbinary
	case *atlas.JSONType:
		return schema.TypeLongVarchar
	case *atlas.UUIDType:
		return schema.TypeVarchar
	}
	return schema.TypeOther
}

func comment(attrs []atlas.Attr) string {
	for _, a := range attrs {
		if c, ok := a.(*atlas.Comment); ok {
			return c.Text
		}
	}
	return ""
}
