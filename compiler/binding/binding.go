// Package binding tracks, for a set of target tables, the concrete types
// bound to the type parameters of a generic mapper interface.
//
// A table's model, example and key types are learned from the standard
// methods generated for it: the first Insert fixes the model, the first
// CountByExample or DeleteByExample the example, and the first
// DeleteByPrimaryKey or SelectByPrimaryKey the key. When Insert is
// disabled the model falls back to the element type of SelectByExample.
package binding

import (
	"maps"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/text/cases"

	"github.com/syssam/sqlmap/compiler/gen"
)

// Type parameter names of the generic interface, matching sqlmap.Mapper.
const (
	ModelParam   = "T"
	ExampleParam = "U"
	KeyParam     = "K"
)

// State is the progress of one table's binding.
type State uint8

// Binding states, in the order a table moves through them.
const (
	Unconfigured State = iota
	AwaitingBindings
	BoundPartially
	BoundComplete
	InterfaceFinalized
)

func (s State) String() string {
	switch s {
	case AwaitingBindings:
		return "awaiting-bindings"
	case BoundPartially:
		return "bound-partially"
	case BoundComplete:
		return "bound-complete"
	case InterfaceFinalized:
		return "interface-finalized"
	}
	return "unconfigured"
}

// Binding holds the types observed for one table.
type Binding struct {
	Model   *gen.Type
	Example *gen.Type
	Key     *gen.Type

	fallback  *gen.Type
	finalized bool
}

// Observe learns from a standard method. The first observation of each
// type parameter wins.
func (b *Binding) Observe(op gen.Op, m *gen.Method) {
	arg := func() *gen.Type {
		if p := m.Param(0); p != nil {
			return p.Type.Deref()
		}
		return nil
	}
	switch op {
	case gen.OpInsert:
		if b.Model == nil {
			b.Model = arg()
		}
	case gen.OpCountByExample, gen.OpDeleteByExample:
		if b.Example == nil {
			b.Example = arg()
		}
	case gen.OpDeleteByPrimaryKey, gen.OpSelectByPrimaryKey:
		if b.Key == nil {
			b.Key = arg()
		}
	case gen.OpSelectByExample:
		if b.fallback == nil && len(m.Results) > 0 && m.Results[0].IsSlice() {
			b.fallback = m.Results[0].Elem.Deref()
		}
	}
}

// ModelType returns the bound model type, falling back to the element
// type of SelectByExample.
func (b *Binding) ModelType() *gen.Type {
	if b.Model != nil {
		return b.Model
	}
	return b.fallback
}

// State reports the progress of the binding.
func (b *Binding) State() State {
	switch {
	case b.finalized:
		return InterfaceFinalized
	case b.ModelType() != nil && b.Example != nil && b.Key != nil:
		return BoundComplete
	case b.ModelType() != nil || b.Example != nil || b.Key != nil:
		return BoundPartially
	}
	return AwaitingBindings
}

// Args returns the type arguments in parameter order. It reports false
// unless every parameter is bound.
func (b *Binding) Args() ([]*gen.Type, bool) {
	if b.State() != BoundComplete {
		return nil, false
	}
	return []*gen.Type{b.ModelType(), b.Example, b.Key}, true
}

// Finalize marks the table's interface as done.
func (b *Binding) Finalize() {
	b.finalized = true
}

// Tracker holds the bindings of one run.
type Tracker struct {
	targets  map[string]bool
	bindings map[string]*Binding
	methods  []*gen.Method
	fold     cases.Caser
}

// NewTracker returns a tracker for the named tables. Names may be plain or
// schema qualified and are compared case-insensitively.
func NewTracker(targets []string) *Tracker {
	tr := &Tracker{
		targets:  make(map[string]bool, len(targets)),
		bindings: make(map[string]*Binding),
		fold:     cases.Fold(),
	}
	for _, name := range targets {
		tr.targets[tr.fold.String(name)] = true
	}
	return tr
}

// Target reports whether t is one of the tracked tables.
func (tr *Tracker) Target(t *gen.Table) bool {
	return tr.targets[tr.fold.String(t.Name)] || tr.targets[tr.fold.String(t.QualifiedName())]
}

// State returns the state of t's binding.
func (tr *Tracker) State(t *gen.Table) State {
	if !tr.Target(t) {
		return Unconfigured
	}
	if b, ok := tr.bindings[t.QualifiedName()]; ok {
		return b.State()
	}
	return AwaitingBindings
}

// Binding returns the binding of t, creating it on first use. It returns
// nil for tables that are not tracked.
func (tr *Tracker) Binding(t *gen.Table) *Binding {
	if !tr.Target(t) {
		return nil
	}
	key := t.QualifiedName()
	b, ok := tr.bindings[key]
	if !ok {
		b = &Binding{}
		tr.bindings[key] = b
	}
	return b
}

// Record keeps the generic form of m, substituting the bound types with
// the type parameters. Only the first signature of each name is kept.
func (tr *Tracker) Record(b *Binding, m *gen.Method) {
	for _, have := range tr.methods {
		if have.Name == m.Name {
			return
		}
	}
	tr.methods = append(tr.methods, Generalize(b, m))
}

// Methods returns the recorded generic signatures.
func (tr *Tracker) Methods() []*gen.Method {
	return tr.methods
}

// Interface returns the generic interface built from the recorded
// signatures.
func (tr *Tracker) Interface(name string) *gen.Interface {
	iface := &gen.Interface{
		Name: name,
		Doc:  []string{name + " is implemented by the mappers of every table bound to it."},
		TypeParams: []*gen.TypeParam{
			{Name: ModelParam}, {Name: ExampleParam}, {Name: KeyParam},
		},
	}
	for _, m := range tr.methods {
		iface.AddMethod(m.Clone())
	}
	return iface
}

// Generalize returns a clone of m with the types bound in b replaced by
// type parameters. The key is only substituted in parameters, as results
// such as the affected row count may share its type.
func Generalize(b *Binding, m *gen.Method) *gen.Method {
	results := map[string]*gen.Type{}
	for name, t := range map[string]*gen.Type{ModelParam: b.ModelType(), ExampleParam: b.Example} {
		if t != nil {
			results[t.String()] = gen.Named("", name)
		}
	}
	params := maps.Clone(results)
	if b.Key != nil {
		params[b.Key.String()] = gen.Named("", KeyParam)
	}
	c := m.Clone()
	for _, p := range c.Params {
		p.Type = substitute(p.Type, params)
	}
	for i, r := range c.Results {
		c.Results[i] = substitute(r, results)
	}
	return c
}

func substitute(t *gen.Type, subst map[string]*gen.Type) *gen.Type {
	if t == nil {
		return nil
	}
	if s, ok := subst[t.String()]; ok {
		return s.Clone()
	}
	if t.Elem != nil {
		t.Elem = substitute(t.Elem, subst)
	}
	for i, a := range t.Args {
		t.Args[i] = substitute(a, subst)
	}
	return t
}

// ParseType parses a type name that is either local ("BaseMapper") or
// qualified by its import path ("github.com/org/repo/base.Mapper").
func ParseType(name string) *gen.Type {
	i := strings.LastIndex(name, ".")
	if i < 0 || i < strings.LastIndex(name, "/") {
		return gen.Named("", name)
	}
	return gen.Named(name[:i], name[i+1:])
}

// PrimaryKeyMethod returns the PrimaryKey method of a model class. A
// single key returns the key field. A composite key builds the key struct
// from the fields the record embeds, or returns the record itself when it
// is the key struct. A record that neither is nor embeds the key struct
// is reported as a *gen.StructuralError.
func PrimaryKeyMethod(t *gen.Table, c *gen.Class) (*gen.Method, error) {
	key := t.KeyType()
	if key == nil {
		return nil, gen.NewStructuralError(t.Name, c.Name, "table has no primary key")
	}
	recv := gen.ReceiverName(c)
	m := &gen.Method{
		Name:    "PrimaryKey",
		Doc:     []string{"PrimaryKey returns the primary key of the row."},
		Results: []*gen.Type{key},
	}
	switch {
	case !t.HasCompositeKey():
		col := t.PrimaryKeyColumns()[0]
		f := c.Field(col.Property)
		if f == nil {
			return nil, gen.NewStructuralError(t.Name, c.Name, "missing key field "+col.Property)
		}
		ret := jen.Id(recv).Dot(f.Name)
		if f.Type.IsPointer() {
			ret = jen.Op("*").Add(ret)
		}
		m.Body = []jen.Code{jen.Return(ret)}
	case c.Kind == gen.ClassPrimaryKey:
		m.Body = []jen.Code{jen.Return(jen.Op("*").Id(recv))}
	case embeds(c, t.KeyName):
		m.Body = []jen.Code{jen.Return(jen.Id(t.KeyName).Values(jen.DictFunc(func(d jen.Dict) {
			for _, col := range t.PrimaryKeyColumns() {
				d[jen.Id(col.Property)] = jen.Id(recv).Dot(col.Property)
			}
		})))}
	default:
		return nil, gen.NewStructuralError(t.Name, c.Name, "composite key record does not embed "+t.KeyName)
	}
	return m, nil
}

func embeds(c *gen.Class, name string) bool {
	for _, e := range c.Embeds {
		if e.PkgPath == "" && e.Name == name {
			return true
		}
	}
	return false
}
