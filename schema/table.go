package schema

import (
	"fmt"
	"slices"
)

// Column is one column of a table.
type Column struct {
	// Name is the actual column name as declared in the database.
	Name string `yaml:"name" msgpack:"name"`
	// Type is the JDBC type tag.
	Type JDBCType `yaml:"type" msgpack:"type"`
	// Nullable columns map to pointer fields.
	Nullable bool   `yaml:"nullable,omitempty" msgpack:"nullable"`
	Size     int    `yaml:"size,omitempty" msgpack:"size"`
	Comment  string `yaml:"comment,omitempty" msgpack:"comment"`
	// Property is the Go field name. Derived from Name by Normalize when
	// left empty.
	Property string `yaml:"property,omitempty" msgpack:"property"`
}

// Placeholder returns the statement placeholder bound to the column
// property.
func (c *Column) Placeholder() string {
	return Placeholder(c.Property, c.Type)
}

// Table is the introspected description of a table.
type Table struct {
	Catalog string    `yaml:"catalog,omitempty" msgpack:"catalog"`
	Schema  string    `yaml:"schema,omitempty" msgpack:"schema"`
	Name    string    `yaml:"name" msgpack:"name"`
	Comment string    `yaml:"comment,omitempty" msgpack:"comment"`
	Columns []*Column `yaml:"columns" msgpack:"columns"`
	// PrimaryKey lists key column names in key declaration order.
	PrimaryKey []string `yaml:"primary_key,omitempty" msgpack:"primary_key"`
}

// QualifiedName returns schema.name, or name for tables without a schema.
func (t *Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Column returns the column with the given actual name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// IsPrimaryKey reports whether name is one of the key columns.
func (t *Table) IsPrimaryKey(name string) bool {
	return slices.Contains(t.PrimaryKey, name)
}

// HasPrimaryKey reports whether the table declares a primary key.
func (t *Table) HasPrimaryKey() bool {
	return len(t.PrimaryKey) > 0
}

// HasCompositeKey reports whether the primary key spans several columns.
func (t *Table) HasCompositeKey() bool {
	return len(t.PrimaryKey) > 1
}

// PrimaryKeyColumns returns the key columns in key declaration order.
func (t *Table) PrimaryKeyColumns() []*Column {
	cols := make([]*Column, 0, len(t.PrimaryKey))
	for _, name := range t.PrimaryKey {
		if c := t.Column(name); c != nil {
			cols = append(cols, c)
		}
	}
	return cols
}

// BaseColumns returns the non-key columns in declaration order.
func (t *Table) BaseColumns() []*Column {
	cols := make([]*Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !t.IsPrimaryKey(c.Name) {
			cols = append(cols, c)
		}
	}
	return cols
}

// Normalize validates the table and derives missing properties.
func (t *Table) Normalize() error {
	if t.Name == "" {
		return fmt.Errorf("schema: table without name")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("schema: table %s has no columns", t.QualifiedName())
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("schema: table %s has a column without name", t.QualifiedName())
		}
		if seen[c.Name] {
			return fmt.Errorf("schema: table %s declares column %s twice", t.QualifiedName(), c.Name)
		}
		seen[c.Name] = true
		if c.Type == "" {
			c.Type = TypeOther
		}
		if c.Property == "" {
			c.Property = Pascal(c.Name)
		}
	}
	for _, k := range t.PrimaryKey {
		if !seen[k] {
			return fmt.Errorf("schema: table %s: primary key column %s does not exist", t.QualifiedName(), k)
		}
	}
	return nil
}
