package plugin

import (
	"slices"

	"github.com/syssam/sqlmap/compiler/gen"
	"github.com/syssam/sqlmap/compiler/policy"
	"github.com/syssam/sqlmap/compiler/rewrite"
	"github.com/syssam/sqlmap/compiler/synth"
	"github.com/syssam/sqlmap/schema"
)

// Plugin type names of the optimistic locking plugins.
const (
	VersionIncrementName = "version-increment"
	DeleteVersionName    = "delete-version"
	UpdateVersionName    = "update-version"
)

// DefaultMaxVersion is the value after which a version wraps to 1.
const DefaultMaxVersion int64 = 99999999

// resolverKey and capturedKey keep the run scoped resolver of a plugin
// apart from its per table state.
type (
	resolverKey struct{ p gen.Plugin }
	capturedKey struct{ p *LockVariants }
)

// versionResolver returns the run scoped resolver of plugin p.
func versionResolver(r *gen.Run, p gen.Plugin, columns []string, scope policy.Scope, exclude policy.Exclude) *policy.Resolver {
	return gen.RunState(r, resolverKey{p}, func() *policy.Resolver {
		return policy.NewResolver(columns, scope, exclude)
	})
}

// VersionIncrement rewrites the version column assignment of every
// UPDATE statement into a wrapping increment.
//
// Properties:
//
//	versionColumns  candidate column names, the last one found in the table wins (required)
//	maxVersionNum   value after which the version restarts at 1 (default 99999999)
type VersionIncrement struct {
	named
	columns []string
	max     int64
}

// NewVersionIncrement returns an unconfigured version-increment plugin.
func NewVersionIncrement() *VersionIncrement {
	return &VersionIncrement{named: VersionIncrementName, max: DefaultMaxVersion}
}

// Configure implements gen.Plugin.
func (p *VersionIncrement) Configure(props gen.Properties) error {
	if err := props.Require(p.Name(), "versionColumns"); err != nil {
		return err
	}
	max, err := props.Int64("maxVersionNum", DefaultMaxVersion)
	if err != nil {
		return err
	}
	if max <= 0 {
		return gen.NewConfigError("maxVersionNum", max, "must be positive")
	}
	p.columns, p.max = props.List("versionColumns"), max
	return nil
}

// Hooks implements gen.Plugin.
func (p *VersionIncrement) Hooks() gen.Hooks {
	return gen.Hooks{gen.EventElementGenerated: p.element}
}

func (p *VersionIncrement) element(r *gen.Run, e *gen.Event) (bool, error) {
	ev := e.Payload.(*gen.ElementGenerated)
	if !ev.Op.IsUpdate() {
		return true, nil
	}
	v := versionResolver(r, p, p.columns, policy.PrimaryKeyThenBase, policy.ExcludePrimaryKey).Resolve(e.Table.Table)
	if v == nil {
		return true, nil
	}
	if rewrite.ColumnReference(ev.Element, v.Name, rewrite.WrapIncrement(p.max)) == rewrite.NotFound {
		logger(r, p).Debugf("no assignment of %s in %s", v.Name, ev.Element.ID())
	}
	return true, nil
}

// LockVariants adds version checked variants of by-key operations: for
// each captured method and statement a ...ByPrimaryKeyAndVersion copy
// filtering on the version column. Tables without a version column are
// left untouched.
//
// Properties:
//
//	versionColumns  candidate column names, the last one found in the table wins (required)
type LockVariants struct {
	named
	ops     []gen.Op
	scope   policy.Scope
	exclude policy.Exclude
	columns []string
}

// captured holds what a LockVariants plugin saw of the current table.
type captured struct {
	methods  []*gen.Method
	elements []*gen.Element
	deleting map[string]bool
}

// NewDeleteVersion returns the delete-version plugin. It only looks for
// the version column among the non-key columns.
func NewDeleteVersion() *LockVariants {
	return &LockVariants{
		named: DeleteVersionName,
		ops:   []gen.Op{gen.OpDeleteByPrimaryKey},
		scope: policy.BaseOnly,
	}
}

// NewUpdateVersion returns the update-version plugin, covering deletes
// and both update forms. A version column that is part of the key is
// ignored.
func NewUpdateVersion() *LockVariants {
	return &LockVariants{
		named:   UpdateVersionName,
		ops:     []gen.Op{gen.OpDeleteByPrimaryKey, gen.OpUpdateByPrimaryKeySelective, gen.OpUpdateByPrimaryKey},
		scope:   policy.PrimaryKeyThenBase,
		exclude: policy.ExcludePrimaryKey,
	}
}

// Configure implements gen.Plugin.
func (p *LockVariants) Configure(props gen.Properties) error {
	if err := props.Require(p.Name(), "versionColumns"); err != nil {
		return err
	}
	p.columns = props.List("versionColumns")
	return nil
}

// Hooks implements gen.Plugin.
func (p *LockVariants) Hooks() gen.Hooks {
	return gen.Hooks{
		gen.EventMethodGenerated:    p.method,
		gen.EventInterfaceGenerated: p.iface,
		gen.EventElementGenerated:   p.element,
		gen.EventDocumentGenerated:  p.document,
	}
}

func (p *LockVariants) version(r *gen.Run, t *gen.Table) *schema.Column {
	return versionResolver(r, p, p.columns, p.scope, p.exclude).Resolve(t.Table)
}

func (p *LockVariants) state(r *gen.Run) *captured {
	return gen.TableState(r, capturedKey{p}, func() *captured {
		return &captured{deleting: make(map[string]bool)}
	})
}

func (p *LockVariants) method(r *gen.Run, e *gen.Event) (bool, error) {
	ev := e.Payload.(*gen.MethodGenerated)
	if slices.Contains(p.ops, ev.Op) && p.version(r, e.Table) != nil {
		s := p.state(r)
		s.methods = append(s.methods, ev.Method)
		s.deleting[ev.Method.Name] = ev.Op == gen.OpDeleteByPrimaryKey
	}
	return true, nil
}

func (p *LockVariants) element(r *gen.Run, e *gen.Event) (bool, error) {
	ev := e.Payload.(*gen.ElementGenerated)
	if slices.Contains(p.ops, ev.Op) && p.version(r, e.Table) != nil {
		s := p.state(r)
		s.elements = append(s.elements, ev.Element)
		s.deleting[ev.Element.ID()] = ev.Op == gen.OpDeleteByPrimaryKey
	}
	return true, nil
}

// iface adds the method variants once the interface is complete, so the
// copies reflect every change made to the originals.
func (p *LockVariants) iface(r *gen.Run, e *gen.Event) (bool, error) {
	iface := e.Payload.(*gen.InterfaceGenerated).Interface
	v := p.version(r, e.Table)
	if v == nil {
		return true, nil
	}
	s := p.state(r)
	for _, m := range s.methods {
		if iface.Method(m.Name) != m {
			continue
		}
		if variant := synth.VersionMethod(m, v, s.deleting[m.Name]); variant != nil && iface.AddMethod(variant) {
			logger(r, p).Debugf("added method %s", variant.Name)
		}
	}
	return true, nil
}

func (p *LockVariants) document(r *gen.Run, e *gen.Event) (bool, error) {
	doc := e.Payload.(*gen.DocumentGenerated).Document
	v := p.version(r, e.Table)
	if v == nil {
		return true, nil
	}
	s := p.state(r)
	for _, el := range s.elements {
		if !doc.Contains(el) {
			continue
		}
		if variant := synth.VersionStatement(el, v, s.deleting[el.ID()]); synth.AddStatement(doc, variant) {
			logger(r, p).Debugf("added statement %s", variant.ID())
		}
	}
	return true, nil
}
