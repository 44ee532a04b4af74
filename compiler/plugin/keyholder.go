package plugin

import (
	"github.com/syssam/sqlmap/compiler/binding"
	"github.com/syssam/sqlmap/compiler/gen"
)

// KeyHolderName is the type name of the key-holder plugin.
const KeyHolderName = "key-holder"

// KeyHolder makes the row type of every table with a primary key
// implement a generic interface instantiated with the key type, and adds
// the PrimaryKey method it requires.
//
// Properties:
//
//	interface  the interface, e.g. github.com/syssam/sqlmap.KeyHolder (required)
type KeyHolder struct {
	named
	iface *gen.Type
}

// NewKeyHolder returns an unconfigured key-holder plugin.
func NewKeyHolder() *KeyHolder {
	return &KeyHolder{named: KeyHolderName}
}

// Configure implements gen.Plugin.
func (p *KeyHolder) Configure(props gen.Properties) error {
	if err := props.Require(p.Name(), "interface"); err != nil {
		return err
	}
	p.iface = binding.ParseType(props.Get("interface"))
	return nil
}

// Hooks implements gen.Plugin.
func (p *KeyHolder) Hooks() gen.Hooks {
	return gen.Hooks{
		gen.EventClassGenerated: p.class,
		gen.EventRunFinished:    p.finish,
	}
}

func (p *KeyHolder) class(_ *gen.Run, e *gen.Event) (bool, error) {
	t, c := e.Table, e.Payload.(*gen.ClassGenerated).Class
	if !t.HasPrimaryKey() || c.Name != t.RecordName() {
		return true, nil
	}
	m, err := binding.PrimaryKeyMethod(t, c)
	if err != nil {
		return false, err
	}
	c.AddMethod(m)
	c.AddImplements(gen.Named(p.iface.PkgPath, p.iface.Name, t.KeyType()))
	return true, nil
}

func (p *KeyHolder) finish(_ *gen.Run, e *gen.Event) (bool, error) {
	if p.iface.PkgPath == "" {
		addInterface(e.Payload.(*gen.RunFinished).Output, keyHolderInterface(p.iface.Name))
	}
	return true, nil
}
