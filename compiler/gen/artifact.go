package gen

import (
	"slices"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/sqlmap/schema"
)

// Parameter is a method parameter. Bind is the name statements use to
// refer to the argument; when set it is emitted as a //sqlmap:param
// directive on the method.
type Parameter struct {
	Name string
	Type *Type
	Bind string
}

// Method is a method of an interface or a class. Interface methods have
// no body.
type Method struct {
	Name string
	Doc  []string
	// Context prepends a ctx context.Context parameter.
	Context bool
	Params  []*Parameter
	Results []*Type
	Body    []jen.Code
}

// Param returns the parameter at position i, not counting the context.
func (m *Method) Param(i int) *Parameter {
	if i < 0 || i >= len(m.Params) {
		return nil
	}
	return m.Params[i]
}

// AddParam appends a parameter.
func (m *Method) AddParam(p *Parameter) {
	m.Params = append(m.Params, p)
}

// Clone returns a deep copy of the method. Body statements are shared.
func (m *Method) Clone() *Method {
	c := &Method{
		Name:    m.Name,
		Doc:     slices.Clone(m.Doc),
		Context: m.Context,
		Body:    slices.Clone(m.Body),
	}
	for _, p := range m.Params {
		c.Params = append(c.Params, &Parameter{Name: p.Name, Type: p.Type.Clone(), Bind: p.Bind})
	}
	for _, r := range m.Results {
		c.Results = append(c.Results, r.Clone())
	}
	return c
}

// Field is a struct field of a model class.
type Field struct {
	Name   string
	Type   *Type
	Column *schema.Column
	Tags   map[string]string
	Doc    []string
}

// SetTag sets a struct tag key.
func (f *Field) SetTag(key, value string) {
	if f.Tags == nil {
		f.Tags = make(map[string]string)
	}
	f.Tags[key] = value
}

// ClassKind identifies the model classes generated per table.
type ClassKind uint8

// Class kinds.
const (
	ClassPrimaryKey ClassKind = iota
	ClassRecord
	ClassExample
)

func (k ClassKind) String() string {
	switch k {
	case ClassPrimaryKey:
		return "primary-key"
	case ClassRecord:
		return "record"
	case ClassExample:
		return "example"
	}
	return "unknown"
}

// Class is a model struct. Embeds plays the part of a superclass: the
// record of a table with a composite key embeds the key struct. Every
// type in Implements gets a compile-time assertion.
type Class struct {
	Name       string
	Kind       ClassKind
	Doc        []string
	Embeds     []*Type
	Implements []*Type
	Fields     []*Field
	Methods    []*Method
}

// HasSuperclass reports whether the class embeds another type.
func (c *Class) HasSuperclass() bool {
	return len(c.Embeds) > 0
}

// Field returns the field with the given name, or nil.
func (c *Class) Field(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Method returns the method with the given name, or nil.
func (c *Class) Method(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// AddMethod appends m unless a method with the same name exists.
func (c *Class) AddMethod(m *Method) bool {
	if c.Method(m.Name) != nil {
		return false
	}
	c.Methods = append(c.Methods, m)
	return true
}

// AddImplements records an implemented interface once.
func (c *Class) AddImplements(t *Type) {
	if !containsType(c.Implements, t) {
		c.Implements = append(c.Implements, t)
	}
}

// TypeParam is a type parameter of a generic interface. A nil constraint
// means any.
type TypeParam struct {
	Name       string
	Constraint *Type
}

// Interface is a data access interface. Methods are only ever appended.
type Interface struct {
	Name       string
	Doc        []string
	TypeParams []*TypeParam
	Embeds     []*Type
	Methods    []*Method
}

// Method returns the method with the given name, or nil.
func (i *Interface) Method(name string) *Method {
	for _, m := range i.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// HasMethod reports whether the interface declares name.
func (i *Interface) HasMethod(name string) bool {
	return i.Method(name) != nil
}

// AddMethod appends m unless a method with the same name exists.
func (i *Interface) AddMethod(m *Method) bool {
	if i.HasMethod(m.Name) {
		return false
	}
	i.Methods = append(i.Methods, m)
	return true
}

// AddEmbed embeds t once.
func (i *Interface) AddEmbed(t *Type) {
	if !containsType(i.Embeds, t) {
		i.Embeds = append(i.Embeds, t)
	}
}

func containsType(ts []*Type, t *Type) bool {
	return slices.ContainsFunc(ts, t.Equal)
}
