// Package synth builds new statements and methods out of existing ones:
// optimistic locking variants of the by-key operations, and a MERGE
// statement spliced from the INSERT and UPDATE statements of a table.
//
// Nothing here recomputes column lists. Variants and splices copy the
// nodes of their sources, so rewrites applied earlier in the pipeline
// carry over.
package synth

import (
	"fmt"
	"strings"

	"github.com/syssam/sqlmap/compiler/gen"
	"github.com/syssam/sqlmap/schema"
)

const (
	// KeyMarker is the part of a name addressing a row by key.
	KeyMarker = "ByPrimaryKey"
	// VersionMarker replaces KeyMarker in version checked variants.
	VersionMarker = "ByPrimaryKeyAndVersion"
	// MergeID is the id of the synthesized MERGE statement and the name
	// of its method.
	MergeID = "Merge"
)

// VersionName returns name with KeyMarker replaced by VersionMarker. It
// reports false for names without the marker and for names that already
// carry VersionMarker.
func VersionName(name string) (string, bool) {
	if !strings.Contains(name, KeyMarker) || strings.Contains(name, VersionMarker) {
		return name, false
	}
	return strings.ReplaceAll(name, KeyMarker, VersionMarker), true
}

// RenameMethod returns a renamed clone of m, or nil when m does not
// address a row by key.
func RenameMethod(m *gen.Method) *gen.Method {
	name, ok := VersionName(m.Name)
	if !ok {
		return nil
	}
	c := m.Clone()
	c.Name = name
	for i, line := range c.Doc {
		c.Doc[i] = strings.Replace(line, m.Name, name, 1)
	}
	return c
}

// RenameStatement returns a clone of el with only its id replaced, or nil
// when el does not address a row by key.
func RenameStatement(el *gen.Element) *gen.Element {
	id, ok := VersionName(el.ID())
	if !ok {
		return nil
	}
	c := el.Clone()
	c.SetID(id)
	return c
}

// VersionBind is the property a version argument is bound to when the
// statement does not take the record.
func VersionBind(v *schema.Column) string {
	return v.Name
}

// VersionFilter returns the filter line checking the version column.
// Deletes bind the version to its own argument, updates read it from the
// record.
func VersionFilter(v *schema.Column, deleting bool) string {
	prop := v.Property
	if deleting {
		prop = VersionBind(v)
	}
	return "and " + v.Name + " = " + schema.Placeholder(prop, v.Type)
}

// StaleHint is appended to the doc of version checked methods.
const StaleHint = "No row is affected when %s no longer matches; sqlmap.CheckVersioned reports that as a *sqlmap.StaleVersionError."

// VersionMethod returns the version checked variant of m. Deletes gain a
// trailing version argument; since the method then takes two arguments,
// every argument is bound by name.
func VersionMethod(m *gen.Method, v *schema.Column, deleting bool) *gen.Method {
	c := RenameMethod(m)
	if c == nil {
		return nil
	}
	c.Doc = append(c.Doc, fmt.Sprintf(StaleHint, v.Name))
	if deleting {
		for _, p := range c.Params {
			if p.Bind == "" {
				p.Bind = p.Name
			}
		}
		c.AddParam(&gen.Parameter{
			Name: "version",
			Type: gen.ColumnType(v).Deref(),
			Bind: VersionBind(v),
		})
	}
	return c
}

// VersionStatement returns the version checked variant of el: the same
// children followed by one filter line. Delete variants take several
// arguments and so drop parameterType.
func VersionStatement(el *gen.Element, v *schema.Column, deleting bool) *gen.Element {
	c := RenameStatement(el)
	if c == nil {
		return nil
	}
	c.AppendText(VersionFilter(v, deleting))
	if deleting {
		c.RemoveAttr("parameterType")
	}
	return c
}

// AddStatement appends el to doc unless a statement with the same id is
// already present.
func AddStatement(doc *gen.Document, el *gen.Element) bool {
	if el == nil || doc.HasStatement(el.ID()) {
		return false
	}
	doc.Append(el)
	return true
}

// Merge splices the INSERT and UPDATE by key statements of t into one
// MERGE statement:
//
//	merge into T using (select 1 from dual)
//	on (a = #{A,jdbcType=BIGINT})
//	when matched then update
//	set b = #{B,jdbcType=VARCHAR}
//	when not matched then insert
//	(a, b)
//	values (#{A,jdbcType=BIGINT}, #{B,jdbcType=VARCHAR})
//
// Both sources must open with the gen.HeaderLines fixed lines; anything
// else is reported as a *gen.StructuralError.
func Merge(t *gen.Table, insert, update *gen.Element) (*gen.Element, error) {
	if !t.HasPrimaryKey() {
		return nil, gen.NewStructuralError(t.Name, MergeID, "table has no primary key")
	}
	ins, err := body(t, insert, gen.OpInsert, "insert into")
	if err != nil {
		return nil, err
	}
	upd, err := body(t, update, gen.OpUpdateByPrimaryKey, "update")
	if err != nil {
		return nil, err
	}
	on := make([]string, 0, len(t.PrimaryKey))
	for _, c := range t.PrimaryKeyColumns() {
		on = append(on, c.Name+" = "+c.Placeholder())
	}
	el := gen.NewStatement("update", MergeID, gen.Attr{Name: "parameterType", Value: t.RecordName()})
	el.AppendText(
		"merge into "+t.RuntimeName+" using (select 1 from dual)",
		"on ("+strings.Join(on, " and ")+")",
		"when matched then update",
	)
	for _, n := range upd {
		if txt, ok := n.(*gen.Text); ok && filter(txt.Content) {
			continue
		}
		el.Append(n.CloneNode())
	}
	el.AppendText("when not matched then insert")
	for _, n := range ins {
		el.Append(n.CloneNode())
	}
	return el, nil
}

// body returns the children of el following its fixed header lines.
func body(t *gen.Table, el *gen.Element, op gen.Op, clause string) ([]gen.Node, error) {
	if el == nil {
		return nil, gen.NewStructuralError(t.Name, MergeID, "missing "+op.String()+" statement")
	}
	if len(el.Children) <= gen.HeaderLines {
		return nil, gen.NewStructuralError(t.Name, el.ID(), "statement has no body after its header lines")
	}
	for i := range gen.HeaderLines {
		if _, ok := el.Children[i].(*gen.Text); !ok {
			return nil, gen.NewStructuralError(t.Name, el.ID(), "header line is not text")
		}
	}
	last := strings.ToLower(strings.TrimSpace(el.Children[gen.HeaderLines-1].(*gen.Text).Content))
	if !strings.HasPrefix(last, clause+" ") {
		return nil, gen.NewStructuralError(t.Name, el.ID(), "header does not end with the "+clause+" clause")
	}
	return el.Children[gen.HeaderLines:], nil
}

func filter(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	return strings.HasPrefix(s, "where ") || strings.HasPrefix(s, "and ")
}
