package gen

import (
	"strings"

	"github.com/syssam/sqlmap/schema"
)

// HeaderLines is the number of fixed text lines INSERT, UPDATE and DELETE
// statements start with: a three line banner and the clause naming the
// table.
const HeaderLines = 4

// document builds the statement document of t.
func (g *Generator) document(run *Run, t *Table) (*Document, error) {
	ns := g.cfg.PackageName()
	if g.cfg.Package != "" {
		ns = g.cfg.Package
	}
	doc := NewDocument(t.DocumentName, ns+"."+t.MapperName)
	for _, op := range []Op{
		OpResultMap, OpExampleWhereClause, OpUpdateByExampleWhereClause, OpBaseColumnList,
		OpSelectByExample, OpSelectByPrimaryKey, OpDeleteByPrimaryKey, OpDeleteByExample,
		OpInsert, OpInsertSelective, OpCountByExample, OpUpdateByExampleSelective,
		OpUpdateByExample, OpUpdateByPrimaryKeySelective, OpUpdateByPrimaryKey,
	} {
		if !t.Enabled(op) {
			continue
		}
		el := StandardElement(t, op)
		ok, err := g.fire(run, t, &ElementGenerated{Op: op, Element: el, Document: doc})
		if err != nil {
			return nil, err
		}
		if ok {
			doc.Append(el)
		}
	}
	ok, err := g.fire(run, t, &DocumentGenerated{Document: doc})
	if err != nil || !ok {
		return nil, err
	}
	return doc, nil
}

// Banner returns the comment lines opening a generated statement.
func Banner(t *Table, id string) []string {
	return []string{
		"-- @generated by sqlmap, do not edit.",
		"-- " + id + " on " + t.RuntimeName,
		"-- regenerate the mapper to change this statement.",
	}
}

// StandardElement returns the statement element of a standard operation.
func StandardElement(t *Table, op Op) *Element {
	id := op.String()
	switch op {
	case OpResultMap:
		el := NewStatement("resultMap", id, Attr{"type", t.RecordName()})
		for _, c := range t.Columns {
			name := "result"
			if t.IsPrimaryKey(c.Name) {
				name = "id"
			}
			el.Append(NewElement(name,
				Attr{"column", c.Name},
				Attr{"property", c.Property},
				Attr{"jdbcType", string(c.Type)},
			))
		}
		return el
	case OpBaseColumnList:
		return NewStatement("sql", id).AppendText(strings.Join(columnNames(t.Columns), ", "))
	case OpExampleWhereClause:
		return whereClause(id, "OredCriteria")
	case OpUpdateByExampleWhereClause:
		return whereClause(id, "example.OredCriteria")
	case OpSelectByExample:
		el := NewStatement("select", id, Attr{"parameterType", t.ExampleName}, Attr{"resultMap", OpResultMap.String()})
		el.AppendText(Banner(t, id)...)
		el.AppendText("select")
		el.Append(NewElement("if", Attr{"test", "Distinct"}).AppendText("distinct"))
		el.Append(include(OpBaseColumnList))
		el.AppendText("from " + t.RuntimeName)
		el.Append(exampleFilter(OpExampleWhereClause))
		el.Append(NewElement("if", Attr{"test", `OrderByClause != ""`}).AppendText("order by ${OrderByClause}"))
		return el
	case OpSelectByPrimaryKey:
		el := NewStatement("select", id, Attr{"parameterType", t.KeyType().String()}, Attr{"resultMap", OpResultMap.String()})
		el.AppendText(Banner(t, id)...)
		el.AppendText("select")
		el.Append(include(OpBaseColumnList))
		el.AppendText("from " + t.RuntimeName)
		el.AppendText(keyFilter(t, false)...)
		return el
	case OpDeleteByPrimaryKey:
		el := NewStatement("delete", id, Attr{"parameterType", t.KeyType().String()})
		el.AppendText(Banner(t, id)...)
		el.AppendText("delete from " + t.RuntimeName)
		el.AppendText(keyFilter(t, false)...)
		return el
	case OpDeleteByExample:
		el := NewStatement("delete", id, Attr{"parameterType", t.ExampleName})
		el.AppendText(Banner(t, id)...)
		el.AppendText("delete from " + t.RuntimeName)
		el.Append(exampleFilter(OpExampleWhereClause))
		return el
	case OpInsert:
		el := NewStatement("insert", id, Attr{"parameterType", t.RecordName()})
		el.AppendText(Banner(t, id)...)
		el.AppendText("insert into "+t.RuntimeName, "("+strings.Join(columnNames(t.Columns), ", ")+")")
		values := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			values[i] = c.Placeholder()
		}
		el.AppendText("values (" + strings.Join(values, ", ") + ")")
		return el
	case OpInsertSelective:
		el := NewStatement("insert", id, Attr{"parameterType", t.RecordName()})
		el.AppendText(Banner(t, id)...)
		el.AppendText("insert into " + t.RuntimeName)
		cols := NewElement("trim", Attr{"prefix", "("}, Attr{"suffix", ")"}, Attr{"suffixOverrides", ","})
		values := NewElement("trim", Attr{"prefix", "values ("}, Attr{"suffix", ")"}, Attr{"suffixOverrides", ","})
		for _, c := range t.Columns {
			cols.Append(NewElement("if", Attr{"test", Guard("", c)}).AppendText(c.Name + ","))
			values.Append(NewElement("if", Attr{"test", Guard("", c)}).AppendText(c.Placeholder() + ","))
		}
		return el.Append(cols, values)
	case OpCountByExample:
		el := NewStatement("select", id, Attr{"parameterType", t.ExampleName}, Attr{"resultType", "int64"})
		el.AppendText(Banner(t, id)...)
		el.AppendText("select count(*) from " + t.RuntimeName)
		el.Append(exampleFilter(OpExampleWhereClause))
		return el
	case OpUpdateByExampleSelective:
		el := NewStatement("update", id, Attr{"parameterType", "map"})
		el.AppendText(Banner(t, id)...)
		el.AppendText("update " + t.RuntimeName)
		el.Append(selectiveSet(t.Columns, "record."))
		el.Append(exampleFilter(OpUpdateByExampleWhereClause))
		return el
	case OpUpdateByExample:
		el := NewStatement("update", id, Attr{"parameterType", "map"})
		el.AppendText(Banner(t, id)...)
		el.AppendText("update " + t.RuntimeName)
		el.AppendText(setLines(t.Columns, "record.")...)
		el.Append(exampleFilter(OpUpdateByExampleWhereClause))
		return el
	case OpUpdateByPrimaryKeySelective:
		el := NewStatement("update", id, Attr{"parameterType", t.RecordName()})
		el.AppendText(Banner(t, id)...)
		el.AppendText("update " + t.RuntimeName)
		el.Append(selectiveSet(t.BaseColumns(), ""))
		el.AppendText(keyFilter(t, true)...)
		return el
	case OpUpdateByPrimaryKey:
		el := NewStatement("update", id, Attr{"parameterType", t.RecordName()})
		el.AppendText(Banner(t, id)...)
		el.AppendText("update " + t.RuntimeName)
		el.AppendText(setLines(t.BaseColumns(), "")...)
		el.AppendText(keyFilter(t, true)...)
		return el
	}
	return NewStatement("sql", id)
}

// Guard returns the selective test expression of a column: the statement
// only touches the column when the field holds a non-zero value.
func Guard(prefix string, c *schema.Column) string {
	name := prefix + c.Property
	t := ColumnType(c)
	switch {
	case t.IsPointer(), t.IsSlice(), t.Name == "any":
		return name + " != nil"
	case t.Name == "string":
		return name + ` != ""`
	case t.Name == "bool":
		return name
	case t.PkgPath == "time":
		return "!" + name + ".IsZero()"
	}
	return name + " != 0"
}

func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// keyFilter returns the where clause addressing one row. byRecord binds
// the placeholders to the record fields instead of the key argument.
func keyFilter(t *Table, byRecord bool) []string {
	var lines []string
	for i, c := range t.PrimaryKeyColumns() {
		kw := "and "
		if i == 0 {
			kw = "where "
		}
		prop := c.Property
		if !byRecord && !t.HasCompositeKey() {
			prop = "id"
		}
		lines = append(lines, kw+c.Name+" = "+schema.Placeholder(prop, c.Type))
	}
	return lines
}

func setLines(cols []*schema.Column, prefix string) []string {
	lines := make([]string, len(cols))
	for i, c := range cols {
		line := c.Name + " = " + schema.Placeholder(prefix+c.Property, c.Type)
		if i == 0 {
			line = "set " + line
		}
		if i < len(cols)-1 {
			line += ","
		}
		lines[i] = line
	}
	return lines
}

func selectiveSet(cols []*schema.Column, prefix string) *Element {
	set := NewElement("set")
	for _, c := range cols {
		set.Append(NewElement("if", Attr{"test", Guard(prefix, c)}).
			AppendText(c.Name + " = " + schema.Placeholder(prefix+c.Property, c.Type) + ","))
	}
	return set
}

func include(op Op) *Element {
	return NewElement("include", Attr{"refid", op.String()})
}

func exampleFilter(op Op) *Element {
	return NewElement("if", Attr{"test", "_parameter != nil"}).Append(include(op))
}

func whereClause(id, collection string) *Element {
	when := func(test, text string) *Element {
		return NewElement("when", Attr{"test", test}).AppendText(text)
	}
	list := NewElement("when", Attr{"test", "c.List"}).
		AppendText("and ${c.Condition}").
		Append(NewElement("foreach",
			Attr{"collection", "c.Values"}, Attr{"item", "v"},
			Attr{"open", "("}, Attr{"close", ")"}, Attr{"separator", ","},
		).AppendText("#{v}"))
	choose := NewElement("choose").Append(
		when("c.NoValue", "and ${c.Condition}"),
		when("c.SingleValue", "and ${c.Condition} #{c.Value}"),
		when("c.Between", "and ${c.Condition} #{c.Value} and #{c.SecondValue}"),
		list,
	)
	conditions := NewElement("foreach", Attr{"collection", "criteria.Conditions"}, Attr{"item", "c"}).Append(choose)
	group := NewElement("if", Attr{"test", "criteria.Valid"}).Append(
		NewElement("trim", Attr{"prefix", "("}, Attr{"prefixOverrides", "and"}, Attr{"suffix", ")"}).Append(conditions),
	)
	ored := NewElement("foreach", Attr{"collection", collection}, Attr{"item", "criteria"}, Attr{"separator", "or"}).Append(group)
	return NewStatement("sql", id).Append(NewElement("where").Append(ored))
}
