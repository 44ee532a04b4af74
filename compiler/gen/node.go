package gen

import "strings"

// Node is a child of a statement element: either an *Element or a *Text.
type Node interface {
	// CloneNode returns a deep copy of the node.
	CloneNode() Node
	node()
}

// Attr is an element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a named node with ordered attributes and children. For
// statements the first attribute is always id.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

// Text is a line of statement text.
type Text struct {
	Content string
}

func (*Element) node() {}
func (*Text) node()    {}

// NewElement returns an element with the given attributes.
func NewElement(name string, attrs ...Attr) *Element {
	return &Element{Name: name, Attrs: attrs}
}

// NewStatement returns an element whose first attribute is id.
func NewStatement(name, id string, attrs ...Attr) *Element {
	return &Element{Name: name, Attrs: append([]Attr{{Name: "id", Value: id}}, attrs...)}
}

// NewText returns a text node.
func NewText(content string) *Text {
	return &Text{Content: content}
}

// CloneNode implements Node.
func (t *Text) CloneNode() Node {
	return &Text{Content: t.Content}
}

// CloneNode implements Node.
func (e *Element) CloneNode() Node {
	return e.Clone()
}

// Clone returns a deep copy of the element.
func (e *Element) Clone() *Element {
	c := &Element{Name: e.Name}
	if e.Attrs != nil {
		c.Attrs = make([]Attr, len(e.Attrs))
		copy(c.Attrs, e.Attrs)
	}
	if e.Children != nil {
		c.Children = make([]Node, len(e.Children))
		for i, n := range e.Children {
			c.Children[i] = n.CloneNode()
		}
	}
	return c
}

// ID returns the value of the leading id attribute, if any.
func (e *Element) ID() string {
	if len(e.Attrs) > 0 && e.Attrs[0].Name == "id" {
		return e.Attrs[0].Value
	}
	return ""
}

// SetID replaces the leading id attribute, leaving the others untouched.
func (e *Element) SetID(id string) {
	if len(e.Attrs) > 0 && e.Attrs[0].Name == "id" {
		e.Attrs[0].Value = id
		return
	}
	e.Attrs = append([]Attr{{Name: "id", Value: id}}, e.Attrs...)
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, keeping its position if it exists.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes an attribute and reports whether it was present.
func (e *Element) RemoveAttr(name string) bool {
	for i, a := range e.Attrs {
		if a.Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds children and returns the element.
func (e *Element) Append(nodes ...Node) *Element {
	e.Children = append(e.Children, nodes...)
	return e
}

// AppendText adds one text child per line.
func (e *Element) AppendText(lines ...string) *Element {
	for _, l := range lines {
		e.Children = append(e.Children, NewText(l))
	}
	return e
}

// Elements returns the direct child elements with the given name, or all
// direct child elements when name is empty.
func (e *Element) Elements(name string) []*Element {
	var els []*Element
	for _, n := range e.Children {
		if el, ok := n.(*Element); ok && (name == "" || el.Name == name) {
			els = append(els, el)
		}
	}
	return els
}

// Texts returns the direct text children.
func (e *Element) Texts() []*Text {
	var ts []*Text
	for _, n := range e.Children {
		if t, ok := n.(*Text); ok {
			ts = append(ts, t)
		}
	}
	return ts
}

// String renders the element as indented pseudo markup, for logs and tests.
func (e *Element) String() string {
	var b strings.Builder
	e.dump(&b, 0)
	return b.String()
}

func (e *Element) dump(b *strings.Builder, depth int) {
	pad := strings.Repeat("  ", depth)
	b.WriteString(pad + "<" + e.Name)
	for _, a := range e.Attrs {
		b.WriteString(" " + a.Name + "=\"" + a.Value + "\"")
	}
	b.WriteString(">\n")
	for _, n := range e.Children {
		switch n := n.(type) {
		case *Text:
			b.WriteString(pad + "  " + n.Content + "\n")
		case *Element:
			n.dump(b, depth+1)
		}
	}
}

// Document is a statement document: a root element holding one child
// element per operation.
type Document struct {
	// Name is the file name of the document without extension.
	Name string
	Root *Element
}

// NewDocument returns a document with an empty mapper root.
func NewDocument(name, namespace string) *Document {
	return &Document{
		Name: name,
		Root: NewElement("mapper", Attr{Name: "namespace", Value: namespace}),
	}
}

// Statements returns the root's child elements.
func (d *Document) Statements() []*Element {
	return d.Root.Elements("")
}

// Statement returns the element with the given id, or nil.
func (d *Document) Statement(id string) *Element {
	for _, el := range d.Statements() {
		if el.ID() == id {
			return el
		}
	}
	return nil
}

// HasStatement reports whether an element with the given id exists.
func (d *Document) HasStatement(id string) bool {
	return d.Statement(id) != nil
}

// Contains reports whether el is one of the root's children.
func (d *Document) Contains(el *Element) bool {
	for _, n := range d.Root.Children {
		if n == Node(el) {
			return true
		}
	}
	return false
}

// Append adds elements to the root.
func (d *Document) Append(els ...*Element) {
	for _, el := range els {
		d.Root.Children = append(d.Root.Children, el)
	}
}
