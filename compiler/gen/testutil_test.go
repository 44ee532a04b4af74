package gen

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlmap/schema"
)

func usersTable() *schema.Table {
	return &schema.Table{
		Schema: "app",
		Name:   "users",
		Columns: []*schema.Column{
			{Name: "id", Type: schema.TypeBigInt},
			{Name: "name", Type: schema.TypeVarchar},
			{Name: "email", Type: schema.TypeVarchar, Nullable: true},
			{Name: "version", Type: schema.TypeInteger},
		},
		PrimaryKey: []string{"id"},
	}
}

func userRolesTable() *schema.Table {
	return &schema.Table{
		Name: "user_roles",
		Columns: []*schema.Column{
			{Name: "user_id", Type: schema.TypeBigInt},
			{Name: "role_id", Type: schema.TypeBigInt},
			{Name: "granted_at", Type: schema.TypeTimestamp},
		},
		PrimaryKey: []string{"user_id", "role_id"},
	}
}

func auditTable() *schema.Table {
	return &schema.Table{
		Name: "audit_log",
		Columns: []*schema.Column{
			{Name: "message", Type: schema.TypeLongVarchar},
		},
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()
	base := []Option{
		WithPackage("github.com/acme/app/mapper"),
		WithTarget(t.TempDir()),
		WithLogger(quietLogger()),
	}
	cfg, err := NewConfig(append(base, opts...)...)
	require.NoError(t, err)
	return cfg
}

func normalized(t *testing.T, st *schema.Table) *Table {
	t.Helper()
	require.NoError(t, st.Normalize())
	return NewTable(st, nil)
}

// recorder is a plugin that records the events it sees and can veto or
// fail selected ones.
type recorder struct {
	name   string
	events []string
	veto   func(e *Event) bool
	fail   func(e *Event) error
	props  Properties
	need   string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Configure(p Properties) error {
	r.props = p
	if r.need != "" {
		return p.Require(r.name, r.need)
	}
	return nil
}

func (r *recorder) Hooks() Hooks {
	h := make(Hooks)
	for t := EventTableInitialized; t <= EventRunFinished; t++ {
		h[t] = r.handle
	}
	return h
}

func (r *recorder) handle(_ *Run, e *Event) (bool, error) {
	r.events = append(r.events, describe(e))
	if r.fail != nil {
		if err := r.fail(e); err != nil {
			return false, err
		}
	}
	if r.veto != nil && r.veto(e) {
		return false, nil
	}
	return true, nil
}

func describe(e *Event) string {
	switch p := e.Payload.(type) {
	case *FieldGenerated:
		return e.Type.String() + ":" + p.Class.Name + "." + p.Field.Name
	case *ClassGenerated:
		return e.Type.String() + ":" + p.Class.Name
	case *MethodGenerated:
		return e.Type.String() + ":" + p.Op.String()
	case *InterfaceGenerated:
		return e.Type.String() + ":" + p.Interface.Name
	case *ElementGenerated:
		return e.Type.String() + ":" + p.Element.ID()
	case *DocumentGenerated:
		return e.Type.String() + ":" + p.Document.Name
	}
	return e.Type.String()
}
