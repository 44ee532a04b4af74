package gen

import (
	"github.com/syssam/sqlmap/schema"
)

// model builds the key, record and example classes of t.
func (g *Generator) model(run *Run, t *Table) ([]*Class, error) {
	var classes []*Class
	add := func(c *Class, cols []*schema.Column) error {
		for _, col := range cols {
			f := newField(col)
			ok, err := g.fire(run, t, &FieldGenerated{Class: c, Field: f, Column: col})
			if err != nil {
				return err
			}
			if ok {
				c.Fields = append(c.Fields, f)
			}
		}
		ok, err := g.fire(run, t, &ClassGenerated{Class: c})
		if err != nil {
			return err
		}
		if ok {
			classes = append(classes, c)
		}
		return nil
	}
	if t.HasKeyClass() {
		key := &Class{
			Name: t.KeyName,
			Kind: ClassPrimaryKey,
			Doc:  []string{t.KeyName + " is the primary key of " + t.RuntimeName + "."},
		}
		if err := add(key, t.PrimaryKeyColumns()); err != nil {
			return nil, err
		}
	}
	if t.HasRecordClass() {
		rec := &Class{
			Name: t.ModelName,
			Kind: ClassRecord,
			Doc:  []string{t.ModelName + " is a row of " + t.RuntimeName + "."},
		}
		if t.HasKeyClass() {
			rec.Embeds = append(rec.Embeds, Named("", t.KeyName))
		}
		if err := add(rec, t.RecordColumns()); err != nil {
			return nil, err
		}
	}
	if t.HasExample() {
		ex := &Class{
			Name:   t.ExampleName,
			Kind:   ClassExample,
			Doc:    []string{t.ExampleName + " builds criteria over " + t.RuntimeName + "."},
			Embeds: []*Type{Named(RuntimePackage, "Example")},
		}
		if err := add(ex, nil); err != nil {
			return nil, err
		}
	}
	return classes, nil
}

func newField(c *schema.Column) *Field {
	f := &Field{
		Name:   c.Property,
		Type:   ColumnType(c),
		Column: c,
		Tags:   map[string]string{"db": c.Name, "json": c.Name},
	}
	if c.Comment != "" {
		f.Doc = []string{c.Comment}
	}
	return f
}
