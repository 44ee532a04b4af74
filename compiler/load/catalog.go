package load

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/syssam/sqlmap/schema"
)

// Catalog reads tables from information_schema. It serves databases
// whose catalog views atlas does not cover, and works with any
// database/sql connection.
type Catalog struct {
	db      *sql.DB
	dialect string
}

// NewCatalog returns a catalog reader. The dialect selects the
// placeholder syntax of the queries.
func NewCatalog(db *sql.DB, dialect string) *Catalog {
	return &Catalog{db: db, dialect: Dialect(dialect)}
}

const (
	columnsQuery = `SELECT table_name, column_name, data_type, is_nullable, COALESCE(character_maximum_length, 0)
FROM information_schema.columns
WHERE table_schema = %s
ORDER BY table_name, ordinal_position`

	keysQuery = `SELECT kcu.table_name, kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name
 AND tc.table_schema = kcu.table_schema
 AND tc.table_name = kcu.table_name
WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = %s
ORDER BY kcu.table_name, kcu.ordinal_position`

	currentSchemaQuery = "SELECT current_schema()"
	currentDBQuery     = "SELECT DATABASE()"
)

func (c *Catalog) bind(q string) string {
	if c.dialect == Postgres {
		return fmt.Sprintf(q, "$1")
	}
	return fmt.Sprintf(q, "?")
}

// Tables returns the tables of schemaName in name order with columns in
// ordinal order. An empty schemaName uses the connection's current
// schema.
func (c *Catalog) Tables(ctx context.Context, schemaName string) ([]*schema.Table, error) {
	if schemaName == "" {
		var err error
		if schemaName, err = c.current(ctx); err != nil {
			return nil, err
		}
	}
	var (
		tables []*schema.Table
		byName = make(map[string]*schema.Table)
	)
	rows, err := c.db.QueryContext(ctx, c.bind(columnsQuery), schemaName)
	if err != nil {
		return nil, fmt.Errorf("load: query columns: %w", err)
	}
	for rows.Next() {
		var (
			table, name, typ, nullable string
			size                       int64
		)
		if err := rows.Scan(&table, &name, &typ, &nullable, &size); err != nil {
			rows.Close()
			return nil, fmt.Errorf("load: scan column: %w", err)
		}
		t, ok := byName[table]
		if !ok {
			t = &schema.Table{Schema: schemaName, Name: table}
			byName[table] = t
			tables = append(tables, t)
		}
		t.Columns = append(t.Columns, &schema.Column{
			Name:     name,
			Type:     schema.ParseJDBCType(typ),
			Nullable: strings.EqualFold(nullable, "YES"),
			Size:     int(size),
		})
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows, err = c.db.QueryContext(ctx, c.bind(keysQuery), schemaName)
	if err != nil {
		return nil, fmt.Errorf("load: query primary keys: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("load: scan primary key: %w", err)
		}
		if t, ok := byName[table]; ok {
			t.PrimaryKey = append(t.PrimaryKey, column)
		}
	}
	return tables, rows.Err()
}

func (c *Catalog) current(ctx context.Context) (string, error) {
	q := currentDBQuery
	if c.dialect == Postgres {
		q = currentSchemaQuery
	}
	var name sql.NullString
	if err := c.db.QueryRowContext(ctx, q).Scan(&name); err != nil {
		return "", fmt.Errorf("load: current schema: %w", err)
	}
	if !name.Valid || name.String == "" {
		return "", fmt.Errorf("load: connection has no current schema")
	}
	return name.String, nil
}
