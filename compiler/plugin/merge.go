package plugin

import (
	"github.com/syssam/sqlmap/compiler/gen"
	"github.com/syssam/sqlmap/compiler/synth"
)

// MergeName is the type name of the merge plugin.
const MergeName = "merge"

// Merge adds an upsert built from the table's Insert and
// UpdateByPrimaryKey statements. The statement reuses their text as it
// stands when the document is complete, so column exclusions and version
// increments carry over.
type Merge struct {
	named
}

// NewMerge returns the merge plugin.
func NewMerge() *Merge {
	return &Merge{named: MergeName}
}

// Configure implements gen.Plugin. The plugin has no properties.
func (p *Merge) Configure(gen.Properties) error { return nil }

// Hooks implements gen.Plugin.
func (p *Merge) Hooks() gen.Hooks {
	return gen.Hooks{
		gen.EventInterfaceGenerated: p.iface,
		gen.EventDocumentGenerated:  p.document,
	}
}

func (p *Merge) applies(t *gen.Table) bool {
	return t.HasPrimaryKey() && t.Enabled(gen.OpInsert) && t.Enabled(gen.OpUpdateByPrimaryKey)
}

func (p *Merge) iface(r *gen.Run, e *gen.Event) (bool, error) {
	t := e.Table
	if !p.applies(t) {
		return true, nil
	}
	added := e.Payload.(*gen.InterfaceGenerated).Interface.AddMethod(&gen.Method{
		Name:    synth.MergeID,
		Doc:     []string{"Merge inserts record, or updates the row with the same key."},
		Context: true,
		Params:  []*gen.Parameter{{Name: "record", Type: gen.PointerTo(t.RecordType())}},
		Results: []*gen.Type{gen.Int64Type, gen.ErrorType},
	})
	merged := gen.TableState(r, p, func() *bool { return new(bool) })
	*merged = *merged || added
	return true, nil
}

func (p *Merge) document(r *gen.Run, e *gen.Event) (bool, error) {
	t := e.Table
	if !p.applies(t) || !*gen.TableState(r, p, func() *bool { return new(bool) }) {
		return true, nil
	}
	doc := e.Payload.(*gen.DocumentGenerated).Document
	if doc.HasStatement(synth.MergeID) {
		return true, nil
	}
	el, err := synth.Merge(t, doc.Statement(gen.OpInsert.String()), doc.Statement(gen.OpUpdateByPrimaryKey.String()))
	if err != nil {
		return false, err
	}
	doc.Append(el)
	logger(r, p).Debug("added merge statement")
	return true, nil
}
