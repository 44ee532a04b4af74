package plugin

import (
	"slices"

	"github.com/syssam/sqlmap/compiler/binding"
	"github.com/syssam/sqlmap/compiler/gen"
	"github.com/syssam/sqlmap/compiler/policy"
	"github.com/syssam/sqlmap/schema"
)

// Plugin type names of the model plugins.
const (
	ColumnInterfaceName  = "column-interface"
	ExampleInterfaceName = "example-interface"
	TimeFormatName       = "time-format"
	HashExcludeName      = "hash-exclude"
)

// ColumnInterface makes the records of tables having a given column
// implement an interface.
//
// Properties:
//
//	statusInterface  the interface (required)
//	targetColumn     comma separated column names, any of which selects the table (required)
type ColumnInterface struct {
	named
	iface   *gen.Type
	columns []string
}

// NewColumnInterface returns an unconfigured column-interface plugin.
func NewColumnInterface() *ColumnInterface {
	return &ColumnInterface{named: ColumnInterfaceName}
}

// Configure implements gen.Plugin.
func (p *ColumnInterface) Configure(props gen.Properties) error {
	if err := props.Require(p.Name(), "statusInterface", "targetColumn"); err != nil {
		return err
	}
	p.iface = binding.ParseType(props.Get("statusInterface"))
	p.columns = props.List("targetColumn")
	return nil
}

// Hooks implements gen.Plugin.
func (p *ColumnInterface) Hooks() gen.Hooks {
	return gen.Hooks{gen.EventClassGenerated: func(_ *gen.Run, e *gen.Event) (bool, error) {
		c := e.Payload.(*gen.ClassGenerated).Class
		if c.Kind == gen.ClassRecord && policy.Resolve(e.Table.Table, p.columns, policy.BaseOnly, nil) != nil {
			c.AddImplements(p.iface)
		}
		return true, nil
	}}
}

// ExampleInterface makes every example struct implement an interface.
//
// Properties:
//
//	interfaceName  the interface (required)
type ExampleInterface struct {
	named
	iface *gen.Type
}

// NewExampleInterface returns an unconfigured example-interface plugin.
func NewExampleInterface() *ExampleInterface {
	return &ExampleInterface{named: ExampleInterfaceName}
}

// Configure implements gen.Plugin.
func (p *ExampleInterface) Configure(props gen.Properties) error {
	if err := props.Require(p.Name(), "interfaceName"); err != nil {
		return err
	}
	p.iface = binding.ParseType(props.Get("interfaceName"))
	return nil
}

// Hooks implements gen.Plugin.
func (p *ExampleInterface) Hooks() gen.Hooks {
	return gen.Hooks{gen.EventClassGenerated: func(_ *gen.Run, e *gen.Event) (bool, error) {
		if c := e.Payload.(*gen.ClassGenerated).Class; c.Kind == gen.ClassExample {
			c.AddImplements(p.iface)
		}
		return true, nil
	}}
}

// Time layouts written into format tags.
const (
	DateLayout      = "2006/01/02"
	TimestampLayout = "2006/01/02 15:04:05"
)

// TimeFormat adds a format tag with the layout of DATE and TIMESTAMP
// fields.
type TimeFormat struct {
	named
}

// NewTimeFormat returns the time-format plugin.
func NewTimeFormat() *TimeFormat {
	return &TimeFormat{named: TimeFormatName}
}

// Configure implements gen.Plugin.
func (p *TimeFormat) Configure(gen.Properties) error { return nil }

// Hooks implements gen.Plugin.
func (p *TimeFormat) Hooks() gen.Hooks {
	return gen.Hooks{gen.EventFieldGenerated: func(_ *gen.Run, e *gen.Event) (bool, error) {
		ev := e.Payload.(*gen.FieldGenerated)
		switch ev.Column.Type {
		case schema.TypeDate:
			ev.Field.SetTag("format", DateLayout)
		case schema.TypeTimestamp:
			ev.Field.SetTag("format", TimestampLayout)
		}
		return true, nil
	}}
}

// HashExclude tags fields to be skipped by struct hashing.
//
// Properties:
//
//	excludeField  comma separated field or column names
type HashExclude struct {
	named
	fields []string
}

// NewHashExclude returns an unconfigured hash-exclude plugin.
func NewHashExclude() *HashExclude {
	return &HashExclude{named: HashExcludeName}
}

// Configure implements gen.Plugin.
func (p *HashExclude) Configure(props gen.Properties) error {
	p.fields = props.List("excludeField")
	return nil
}

// Hooks implements gen.Plugin.
func (p *HashExclude) Hooks() gen.Hooks {
	return gen.Hooks{gen.EventFieldGenerated: func(_ *gen.Run, e *gen.Event) (bool, error) {
		ev := e.Payload.(*gen.FieldGenerated)
		if slices.Contains(p.fields, ev.Field.Name) || slices.Contains(p.fields, ev.Column.Name) {
			ev.Field.SetTag("hash", "ignore")
		}
		return true, nil
	}}
}
