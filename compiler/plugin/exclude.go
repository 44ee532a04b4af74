package plugin

import (
	"github.com/syssam/sqlmap/compiler/gen"
	"github.com/syssam/sqlmap/compiler/policy"
	"github.com/syssam/sqlmap/compiler/rewrite"
	"github.com/syssam/sqlmap/schema"
)

// ExcludeColumnName is the type name of the exclude-column plugin.
const ExcludeColumnName = "exclude-column"

// ExcludeColumn neutralizes the assignment of configured columns in every
// UPDATE statement, turning "col = #{Col}" into "col = col".
//
// Properties:
//
//	excludeColumns  comma separated column names (required)
type ExcludeColumn struct {
	named
	columns []string
}

// NewExcludeColumn returns an unconfigured exclude-column plugin.
func NewExcludeColumn() *ExcludeColumn {
	return &ExcludeColumn{named: ExcludeColumnName}
}

// Configure implements gen.Plugin.
func (p *ExcludeColumn) Configure(props gen.Properties) error {
	if err := props.Require(p.Name(), "excludeColumns"); err != nil {
		return err
	}
	p.columns = props.List("excludeColumns")
	return nil
}

// Hooks implements gen.Plugin.
func (p *ExcludeColumn) Hooks() gen.Hooks {
	return gen.Hooks{gen.EventElementGenerated: p.element}
}

// columnsOf resolves the excluded columns present in the current table.
func (p *ExcludeColumn) columnsOf(r *gen.Run, t *gen.Table) []*schema.Column {
	cols := gen.TableState(r, p, func() *[]*schema.Column {
		var cols []*schema.Column
		for _, name := range p.columns {
			if c := policy.Resolve(t.Table, []string{name}, policy.PrimaryKeyThenBase, nil); c != nil {
				cols = append(cols, c)
			}
		}
		return &cols
	})
	return *cols
}

func (p *ExcludeColumn) element(r *gen.Run, e *gen.Event) (bool, error) {
	ev := e.Payload.(*gen.ElementGenerated)
	if !ev.Op.IsUpdate() {
		return true, nil
	}
	for _, c := range p.columnsOf(r, e.Table) {
		if rewrite.ColumnReference(ev.Element, c.Name, rewrite.SelfAssign()) == rewrite.Replaced {
			logger(r, p).Debugf("excluded %s from %s", c.Name, ev.Element.ID())
		}
	}
	return true, nil
}
