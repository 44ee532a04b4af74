package plugin

import "github.com/syssam/sqlmap/compiler/gen"

// TruncateName is the type name of the truncate plugin.
const TruncateName = "truncate"

// Truncate adds a Truncate method and its statement to every mapper.
type Truncate struct {
	named
}

// NewTruncate returns the truncate plugin.
func NewTruncate() *Truncate {
	return &Truncate{named: TruncateName}
}

// Configure implements gen.Plugin.
func (p *Truncate) Configure(gen.Properties) error { return nil }

// Hooks implements gen.Plugin.
func (p *Truncate) Hooks() gen.Hooks {
	return gen.Hooks{
		gen.EventInterfaceGenerated: func(_ *gen.Run, e *gen.Event) (bool, error) {
			e.Payload.(*gen.InterfaceGenerated).Interface.AddMethod(&gen.Method{
				Name:    "Truncate",
				Doc:     []string{"Truncate deletes every row of the table."},
				Context: true,
				Results: []*gen.Type{gen.ErrorType},
			})
			return true, nil
		},
		gen.EventDocumentGenerated: func(_ *gen.Run, e *gen.Event) (bool, error) {
			doc := e.Payload.(*gen.DocumentGenerated).Document
			if !doc.HasStatement("Truncate") {
				doc.Append(gen.NewStatement("delete", "Truncate").AppendText("truncate table " + e.Table.RuntimeName))
			}
			return true, nil
		},
	}
}
