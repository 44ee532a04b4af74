package plugin

import (
	"github.com/syssam/sqlmap/compiler/binding"
	"github.com/syssam/sqlmap/compiler/gen"
)

// GenericInterfaceName is the type name of the generic-interface plugin.
const GenericInterfaceName = "generic-interface"

// GenericInterface makes the mappers of the target tables embed one
// generic interface instantiated with each table's model, example and
// key types. The types are learned from the standard methods as they are
// generated.
//
// Properties:
//
//	mapper_interface  the generic interface; a local name is generated at the end of the run (required)
//	target_table      comma separated table names (required)
//	model_interface   interface the records implement with their key type, e.g. github.com/syssam/sqlmap.KeyHolder
type GenericInterface struct {
	named
	mapper  *gen.Type
	model   *gen.Type
	targets []string
}

// tracked is the per table state of the plugin.
type tracked struct {
	methods []*gen.Method
}

type trackedKey struct{ p *GenericInterface }

// NewGenericInterface returns an unconfigured generic-interface plugin.
func NewGenericInterface() *GenericInterface {
	return &GenericInterface{named: GenericInterfaceName}
}

// Configure implements gen.Plugin.
func (p *GenericInterface) Configure(props gen.Properties) error {
	if err := props.Require(p.Name(), "mapper_interface", "target_table"); err != nil {
		return err
	}
	p.mapper = binding.ParseType(props.Get("mapper_interface"))
	p.targets = props.List("target_table")
	if m := props.Get("model_interface"); m != "" {
		p.model = binding.ParseType(m)
	}
	return nil
}

// Hooks implements gen.Plugin.
func (p *GenericInterface) Hooks() gen.Hooks {
	return gen.Hooks{
		gen.EventClassGenerated:     p.class,
		gen.EventMethodGenerated:    p.method,
		gen.EventInterfaceGenerated: p.iface,
		gen.EventRunFinished:        p.finish,
	}
}

func (p *GenericInterface) tracker(r *gen.Run) *binding.Tracker {
	return gen.RunState(r, p, func() *binding.Tracker {
		return binding.NewTracker(p.targets)
	})
}

func (p *GenericInterface) tracked(r *gen.Run) *tracked {
	return gen.TableState(r, trackedKey{p}, func() *tracked { return &tracked{} })
}

// class gives the row type of a target table its PrimaryKey method. The
// key struct is the row type of tables made only of key columns.
func (p *GenericInterface) class(r *gen.Run, e *gen.Event) (bool, error) {
	t, c := e.Table, e.Payload.(*gen.ClassGenerated).Class
	if !p.tracker(r).Target(t) || !t.HasPrimaryKey() || c.Name != t.RecordName() {
		return true, nil
	}
	m, err := binding.PrimaryKeyMethod(t, c)
	if err != nil {
		return false, err
	}
	c.AddMethod(m)
	if p.model != nil {
		c.AddImplements(gen.Named(p.model.PkgPath, p.model.Name, t.KeyType()))
	}
	return true, nil
}

func (p *GenericInterface) method(r *gen.Run, e *gen.Event) (bool, error) {
	ev := e.Payload.(*gen.MethodGenerated)
	b := p.tracker(r).Binding(e.Table)
	if b == nil {
		return true, nil
	}
	b.Observe(ev.Op, ev.Method)
	s := p.tracked(r)
	s.methods = append(s.methods, ev.Method)
	return true, nil
}

func (p *GenericInterface) iface(r *gen.Run, e *gen.Event) (bool, error) {
	t := e.Table
	tr := p.tracker(r)
	b := tr.Binding(t)
	if b == nil {
		return true, nil
	}
	log := logger(r, p)
	args, ok := b.Args()
	switch {
	case !ok && b.ModelType() != nil && b.Example != nil && !t.HasPrimaryKey():
		log.Debugf("%s has no primary key, %s not embedded", t.Name, p.mapper.Name)
		return true, nil
	case !ok:
		log.Warnf("%s binding is %s, %s not embedded", t.Name, b.State(), p.mapper.Name)
		return true, nil
	}
	e.Payload.(*gen.InterfaceGenerated).Interface.AddEmbed(gen.Named(p.mapper.PkgPath, p.mapper.Name, args...))
	for _, m := range p.tracked(r).methods {
		tr.Record(b, m)
	}
	b.Finalize()
	return true, nil
}

// finish emits the generic interfaces that belong to the generated
// package.
func (p *GenericInterface) finish(r *gen.Run, e *gen.Event) (bool, error) {
	res := e.Payload.(*gen.RunFinished).Output
	tr := p.tracker(r)
	if p.mapper.PkgPath == "" && len(tr.Methods()) > 0 {
		addInterface(res, tr.Interface(p.mapper.Name))
	}
	if p.model != nil && p.model.PkgPath == "" {
		addInterface(res, keyHolderInterface(p.model.Name))
	}
	return true, nil
}

// addInterface adds iface to the run output unless one with the same
// name is already there.
func addInterface(res *gen.Result, iface *gen.Interface) bool {
	for _, have := range res.Interfaces {
		if have.Name == iface.Name {
			return false
		}
	}
	res.Interfaces = append(res.Interfaces, iface)
	return true
}

// keyHolderInterface returns a local interface like sqlmap.KeyHolder.
func keyHolderInterface(name string) *gen.Interface {
	return &gen.Interface{
		Name:       name,
		Doc:        []string{name + " is implemented by rows that know their primary key."},
		TypeParams: []*gen.TypeParam{{Name: binding.KeyParam}},
		Methods: []*gen.Method{{
			Name:    "PrimaryKey",
			Results: []*gen.Type{gen.Named("", binding.KeyParam)},
		}},
	}
}
