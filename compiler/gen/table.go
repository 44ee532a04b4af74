package gen

import (
	"github.com/syssam/sqlmap/schema"
)

// TableConfig tunes generation for one table.
type TableConfig struct {
	// Name matches schema.Table.Name or its qualified name.
	Name string
	// Model overrides the record type name.
	Model string
	// Mapper overrides the interface name.
	Mapper string
	// Disable suppresses standard operations.
	Disable []Op
	// Ignore skips the table altogether.
	Ignore bool
}

// Table is the per-run view of a schema table: the schema facts plus the
// names the generator uses for it. Handlers of EventTableInitialized may
// rewrite the names.
type Table struct {
	*schema.Table

	// RuntimeName is the table name written into statements.
	RuntimeName  string
	ModelName    string
	KeyName      string
	ExampleName  string
	MapperName   string
	DocumentName string

	disabled map[Op]bool
}

// NewTable derives the default names of t and applies cfg, which may be nil.
func NewTable(t *schema.Table, cfg *TableConfig) *Table {
	model := schema.Pascal(schema.Singular(t.Name))
	tbl := &Table{
		Table:       t,
		RuntimeName: t.QualifiedName(),
		disabled:    make(map[Op]bool),
	}
	var mapper string
	if cfg != nil {
		if cfg.Model != "" {
			model = cfg.Model
		}
		mapper = cfg.Mapper
		for _, op := range cfg.Disable {
			tbl.disabled[op] = true
		}
	}
	if mapper == "" {
		mapper = model + "Mapper"
	}
	tbl.ModelName = model
	tbl.KeyName = model + "Key"
	tbl.ExampleName = model + "Example"
	tbl.MapperName = mapper
	tbl.DocumentName = mapper
	return tbl
}

// Enabled reports whether the standard operation op is generated.
func (t *Table) Enabled(op Op) bool {
	if t.disabled[op] {
		return false
	}
	switch {
	case op.ByPrimaryKey() && !t.HasPrimaryKey():
		return false
	case (op == OpUpdateByPrimaryKey || op == OpUpdateByPrimaryKeySelective) && len(t.BaseColumns()) == 0:
		return false
	case op.ByExample() || op == OpExampleWhereClause:
		return t.HasExample()
	case op == OpUpdateByExampleWhereClause:
		return t.Enabled(OpUpdateByExample) || t.Enabled(OpUpdateByExampleSelective)
	}
	return true
}

// Disable suppresses op for the table.
func (t *Table) Disable(op Op) {
	t.disabled[op] = true
}

// HasExample reports whether at least one example based operation is
// enabled, in which case the example class is generated.
func (t *Table) HasExample() bool {
	for _, op := range []Op{OpCountByExample, OpDeleteByExample, OpSelectByExample, OpUpdateByExampleSelective, OpUpdateByExample} {
		if !t.disabled[op] {
			return true
		}
	}
	return false
}

// HasKeyClass reports whether a separate key struct is generated.
func (t *Table) HasKeyClass() bool {
	return t.HasCompositeKey()
}

// HasRecordClass reports whether a record struct is generated. Tables
// made only of a composite key use the key struct as record.
func (t *Table) HasRecordClass() bool {
	return !t.HasCompositeKey() || len(t.BaseColumns()) > 0
}

// RecordName returns the name of the type holding a full row.
func (t *Table) RecordName() string {
	if t.HasRecordClass() {
		return t.ModelName
	}
	return t.KeyName
}

// RecordType returns the local type of a full row.
func (t *Table) RecordType() *Type {
	return Named("", t.RecordName())
}

// ExampleType returns the local example type.
func (t *Table) ExampleType() *Type {
	return Named("", t.ExampleName)
}

// KeyType returns the type of the primary key argument, or nil for tables
// without a key.
func (t *Table) KeyType() *Type {
	switch {
	case t.HasCompositeKey():
		return Named("", t.KeyName)
	case t.HasPrimaryKey():
		c := t.PrimaryKeyColumns()[0]
		return ColumnType(&schema.Column{Name: c.Name, Type: c.Type})
	}
	return nil
}

// RecordColumns returns the columns held directly by the record struct.
func (t *Table) RecordColumns() []*schema.Column {
	if t.HasCompositeKey() {
		return t.BaseColumns()
	}
	return t.Columns
}
