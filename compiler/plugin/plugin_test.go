package plugin

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlmap/compiler/gen"
	"github.com/syssam/sqlmap/schema"
)

func accounts() *schema.Table {
	return &schema.Table{
		Schema: "app",
		Name:   "accounts",
		Columns: []*schema.Column{
			{Name: "id", Type: schema.TypeBigInt},
			{Name: "created_by", Type: schema.TypeVarchar},
			{Name: "name", Type: schema.TypeVarchar},
			{Name: "version", Type: schema.TypeInteger},
			{Name: "birthday", Type: schema.TypeDate, Nullable: true},
			{Name: "updated_at", Type: schema.TypeTimestamp},
		},
		PrimaryKey: []string{"id"},
	}
}

func userRoles() *schema.Table {
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

func auditLog() *schema.Table {
	return &schema.Table{
		Name: "audit_log",
		Columns: []*schema.Column{
			{Name: "message", Type: schema.TypeVarchar},
		},
	}
}

// hooked is an ad hoc plugin built from a hook table.
type hooked struct {
	named
	hooks gen.Hooks
}

func (h *hooked) Configure(gen.Properties) error { return nil }
func (h *hooked) Hooks() gen.Hooks               { return h.hooks }

type entry struct {
	plugin gen.Plugin
	props  gen.Properties
}

func generate(t *testing.T, tables []*schema.Table, entries []entry, opts ...gen.Option) (*gen.Result, error) {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	base := []gen.Option{gen.WithPackage("github.com/acme/app/mapper"), gen.WithLogger(l)}
	for _, e := range entries {
		base = append(base, gen.WithPlugin(e.plugin, e.props))
	}
	cfg, err := gen.NewConfig(append(base, opts...)...)
	require.NoError(t, err)
	return gen.NewGenerator(cfg).Generate(context.Background(), tables)
}

func mustGenerate(t *testing.T, tables []*schema.Table, entries ...entry) *gen.Result {
	t.Helper()
	res, err := generate(t, tables, entries)
	require.NoError(t, err)
	return res
}

func artifacts(t *testing.T, res *gen.Result, table string) *gen.Artifacts {
	t.Helper()
	for _, a := range res.Tables {
		if a.Table.Name == table {
			return a
		}
	}
	require.FailNow(t, "no artifacts for "+table)
	return nil
}

// lines returns every text line of el in document order.
func lines(el *gen.Element) []string {
	var out []string
	for _, n := range el.Children {
		switch n := n.(type) {
		case *gen.Text:
			out = append(out, n.Content)
		case *gen.Element:
			out = append(out, lines(n)...)
		}
	}
	return out
}

func ids(doc *gen.Document) []string {
	var out []string
	for _, el := range doc.Statements() {
		out = append(out, el.ID())
	}
	return out
}

func methodNames(iface *gen.Interface) []string {
	var out []string
	for _, m := range iface.Methods {
		out = append(out, m.Name)
	}
	return out
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	names := Names()
	assert.Len(t, names, 15)
	assert.IsIncreasing(t, names)
	for _, name := range names {
		p, err := New(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}

	_, err := New("nope")
	require.Error(t, err)
	assert.True(t, gen.IsConfigError(err))

	assert.Panics(t, func() { Register(MergeName, func() gen.Plugin { return NewMerge() }) })
	assert.Panics(t, func() { Register("nil-factory", nil) })
}

func TestValidationWarnings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		plugin gen.Plugin
		props  gen.Properties
		want   string
	}{
		{NewExcludeColumn(), nil, "Property excludeColumns not set for plugin exclude-column"},
		{NewVersionIncrement(), gen.Properties{"versionColumns": " "}, "Property versionColumns not set for plugin version-increment"},
		{NewDeleteVersion(), nil, "Property versionColumns not set for plugin delete-version"},
		{NewUpdateVersion(), nil, "Property versionColumns not set for plugin update-version"},
		{NewGenericInterface(), gen.Properties{"target_table": "accounts"}, "Property mapper_interface not set for plugin generic-interface"},
		{NewGenericInterface(), gen.Properties{"mapper_interface": "BaseMapper"}, "Property target_table not set for plugin generic-interface"},
		{NewKeyHolder(), nil, "Property interface not set for plugin key-holder"},
		{NewColumnInterface(), gen.Properties{"statusInterface": "Status"}, "Property targetColumn not set for plugin column-interface"},
		{NewExampleInterface(), nil, "Property interfaceName not set for plugin example-interface"},
	}
	plain := mustGenerate(t, []*schema.Table{accounts()})
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			res := mustGenerate(t, []*schema.Table{accounts()}, entry{tt.plugin, tt.props})
			assert.Equal(t, []string{tt.want}, res.Warnings)
			a, b := artifacts(t, res, "accounts"), artifacts(t, plain, "accounts")
			assert.Equal(t, ids(b.Document), ids(a.Document))
			assert.Equal(t, methodNames(b.Interface), methodNames(a.Interface))
		})
	}

	t.Run("BadMaxVersion", func(t *testing.T) {
		res := mustGenerate(t, []*schema.Table{accounts()}, entry{NewVersionIncrement(), gen.Properties{"versionColumns": "version", "maxVersionNum": "x"}})
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "maxVersionNum")
	})
}

func TestExcludeColumn(t *testing.T) {
	t.Parallel()

	res := mustGenerate(t, []*schema.Table{accounts()}, entry{NewExcludeColumn(), gen.Properties{"excludeColumns": "CREATED_BY, missing"}})
	doc := artifacts(t, res, "accounts").Document

	upd := lines(doc.Statement("UpdateByPrimaryKey"))
	assert.Contains(t, upd, "set created_by = created_by,")
	assert.Contains(t, upd, "name = #{Name,jdbcType=VARCHAR},")

	assert.Contains(t, lines(doc.Statement("UpdateByPrimaryKeySelective")), "created_by = created_by,")
	assert.Contains(t, lines(doc.Statement("UpdateByExample")), "created_by = created_by,")
	assert.Contains(t, lines(doc.Statement("UpdateByExampleSelective")), "created_by = created_by,")
	assert.Contains(t, lines(doc.Statement("Insert")), "(id, created_by, name, version, birthday, updated_at)")
}

func TestVersionIncrement(t *testing.T) {
	t.Parallel()

	t.Run("Rewrites", func(t *testing.T) {
		res := mustGenerate(t, []*schema.Table{accounts()}, entry{NewVersionIncrement(), gen.Properties{"versionColumns": "version", "maxVersionNum": "5"}})
		doc := artifacts(t, res, "accounts").Document
		const inc = "version = case when version = 5 then 1 else version + 1 end"
		assert.Contains(t, lines(doc.Statement("UpdateByPrimaryKey")), inc+",")
		assert.Contains(t, lines(doc.Statement("UpdateByPrimaryKeySelective")), inc+",")
		assert.Contains(t, lines(doc.Statement("UpdateByExample")), inc+",")
	})

	t.Run("DefaultMax", func(t *testing.T) {
		res := mustGenerate(t, []*schema.Table{accounts()}, entry{NewVersionIncrement(), gen.Properties{"versionColumns": "version"}})
		doc := artifacts(t, res, "accounts").Document
		assert.Contains(t, lines(doc.Statement("UpdateByPrimaryKey")), "version = case when version = 99999999 then 1 else version + 1 end,")
	})

	t.Run("KeyVersionUntouched", func(t *testing.T) {
		st := &schema.Table{
			Name: "revisions",
			Columns: []*schema.Column{
				{Name: "id", Type: schema.TypeBigInt},
				{Name: "version", Type: schema.TypeInteger},
				{Name: "body", Type: schema.TypeVarchar},
			},
			PrimaryKey: []string{"id", "version"},
		}
		res := mustGenerate(t, []*schema.Table{st}, entry{NewVersionIncrement(), gen.Properties{"versionColumns": "version"}})
		for _, line := range lines(artifacts(t, res, "revisions").Document.Statement("UpdateByExample")) {
			assert.NotContains(t, line, "case when")
		}
	})
}

func TestUpdateVersion(t *testing.T) {
	t.Parallel()

	res := mustGenerate(t, []*schema.Table{accounts()}, entry{NewUpdateVersion(), gen.Properties{"versionColumns": "version"}})
	a := artifacts(t, res, "accounts")

	for _, name := range []string{"DeleteByPrimaryKeyAndVersion", "UpdateByPrimaryKeyAndVersionSelective", "UpdateByPrimaryKeyAndVersion"} {
		assert.True(t, a.Interface.HasMethod(name), name)
		assert.True(t, a.Document.HasStatement(name), name)
	}

	del := a.Interface.Method("DeleteByPrimaryKeyAndVersion")
	require.Len(t, del.Params, 2)
	assert.Equal(t, "version", del.Params[1].Bind)

	orig := lines(a.Document.Statement("UpdateByPrimaryKey"))
	variant := lines(a.Document.Statement("UpdateByPrimaryKeyAndVersion"))
	assert.Len(t, variant, len(orig)+1)
	assert.Equal(t, "and version = #{Version,jdbcType=INTEGER}", variant[len(variant)-1])

	delEl := a.Document.Statement("DeleteByPrimaryKeyAndVersion")
	_, ok := delEl.Attr("parameterType")
	assert.False(t, ok)
	assert.Equal(t, "and version = #{version,jdbcType=INTEGER}", lines(delEl)[len(lines(delEl))-1])
}

func TestVersionVariantsPerTable(t *testing.T) {
	t.Parallel()

	variants := []string{"DeleteByPrimaryKeyAndVersion", "UpdateByPrimaryKeyAndVersionSelective", "UpdateByPrimaryKeyAndVersion"}
	plain := mustGenerate(t, []*schema.Table{userRoles(), auditLog()})

	for name, order := range map[string][]*schema.Table{
		"VersionedFirst": {accounts(), userRoles(), auditLog()},
		"VersionedLast":  {userRoles(), auditLog(), accounts()},
	} {
		t.Run(name, func(t *testing.T) {
			res := mustGenerate(t, order,
				entry{NewDeleteVersion(), gen.Properties{"versionColumns": "version"}},
				entry{NewUpdateVersion(), gen.Properties{"versionColumns": "version"}},
			)
			a := artifacts(t, res, "accounts")
			for _, v := range variants {
				assert.True(t, a.Interface.HasMethod(v), v)
				assert.True(t, a.Document.HasStatement(v), v)
			}
			assert.Len(t, a.Interface.Methods, len(artifacts(t, mustGenerate(t, []*schema.Table{accounts()}), "accounts").Interface.Methods)+len(variants))

			for _, table := range []string{"user_roles", "audit_log"} {
				want, got := artifacts(t, plain, table), artifacts(t, res, table)
				assert.Equal(t, methodNames(want.Interface), methodNames(got.Interface), table)
				assert.Equal(t, ids(want.Document), ids(got.Document), table)
			}
		})
	}
}

func TestVersionVariantsCarryRewrites(t *testing.T) {
	t.Parallel()

	res := mustGenerate(t, []*schema.Table{accounts()},
		entry{NewUpdateVersion(), gen.Properties{"versionColumns": "version"}},
		entry{NewVersionIncrement(), gen.Properties{"versionColumns": "version"}},
	)
	variant := lines(artifacts(t, res, "accounts").Document.Statement("UpdateByPrimaryKeyAndVersion"))
	assert.Contains(t, variant, "version = case when version = 99999999 then 1 else version + 1 end,")
}

func TestLastMatchWins(t *testing.T) {
	t.Parallel()

	st := &schema.Table{
		Name: "orders",
		Columns: []*schema.Column{
			{Name: "id", Type: schema.TypeBigInt},
			{Name: "lock_version", Type: schema.TypeInteger},
			{Name: "version", Type: schema.TypeBigInt},
		},
		PrimaryKey: []string{"id"},
	}
	res := mustGenerate(t, []*schema.Table{st}, entry{NewDeleteVersion(), gen.Properties{"versionColumns": "version, lock_version"}})
	el := artifacts(t, res, "orders").Document.Statement("DeleteByPrimaryKeyAndVersion")
	require.NotNil(t, el)
	got := lines(el)
	assert.Equal(t, "and version = #{version,jdbcType=BIGINT}", got[len(got)-1])
}

func TestNoVersionColumn(t *testing.T) {
	t.Parallel()

	plain := artifacts(t, mustGenerate(t, []*schema.Table{userRoles()}), "user_roles")
	a := artifacts(t, mustGenerate(t, []*schema.Table{userRoles()},
		entry{NewUpdateVersion(), gen.Properties{"versionColumns": "version"}},
		entry{NewDeleteVersion(), gen.Properties{"versionColumns": "version"}},
	), "user_roles")
	assert.Equal(t, methodNames(plain.Interface), methodNames(a.Interface))
	assert.Equal(t, ids(plain.Document), ids(a.Document))
}

func TestSynthesisIdempotent(t *testing.T) {
	t.Parallel()

	up := NewUpdateVersion()
	props := gen.Properties{"versionColumns": "version"}
	res := mustGenerate(t, []*schema.Table{accounts()},
		entry{up, props},
		entry{up, props},
		entry{NewDeleteVersion(), props},
		entry{NewMerge(), nil},
		entry{NewMerge(), nil},
		entry{NewTruncate(), nil},
		entry{NewTruncate(), nil},
	)
	a := artifacts(t, res, "accounts")
	seen := map[string]bool{}
	for _, id := range ids(a.Document) {
		assert.False(t, seen[id], "duplicate statement %s", id)
		seen[id] = true
	}
	assert.True(t, seen["DeleteByPrimaryKeyAndVersion"])
	assert.True(t, seen["Merge"])
	assert.True(t, seen["Truncate"])

	names := map[string]bool{}
	for _, n := range methodNames(a.Interface) {
		assert.False(t, names[n], "duplicate method %s", n)
		names[n] = true
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	res := mustGenerate(t, []*schema.Table{accounts(), auditLog()},
		entry{NewExcludeColumn(), gen.Properties{"excludeColumns": "created_by"}},
		entry{NewMerge(), nil},
	)
	a := artifacts(t, res, "accounts")
	require.True(t, a.Interface.HasMethod("Merge"))
	el := a.Document.Statement("Merge")
	require.NotNil(t, el)
	got := lines(el)
	assert.Equal(t, "merge into app.accounts using (select 1 from dual)", got[0])
	assert.Equal(t, "on (id = #{ID,jdbcType=BIGINT})", got[1])
	assert.Equal(t, "when matched then update", got[2])
	assert.Equal(t, "set created_by = created_by,", got[3])
	assert.Contains(t, got, "when not matched then insert")
	assert.Equal(t, "(id, created_by, name, version, birthday, updated_at)", got[len(got)-2])
	for _, line := range got {
		assert.NotContains(t, line, "where ")
	}

	audit := artifacts(t, res, "audit_log")
	assert.False(t, audit.Interface.HasMethod("Merge"))
	assert.False(t, audit.Document.HasStatement("Merge"))
}

func TestMergeStructuralError(t *testing.T) {
	t.Parallel()

	breaker := &hooked{named: "breaker", hooks: gen.Hooks{
		gen.EventElementGenerated: func(_ *gen.Run, e *gen.Event) (bool, error) {
			ev := e.Payload.(*gen.ElementGenerated)
			if ev.Op == gen.OpInsert {
				ev.Element.Children = ev.Element.Children[3:]
			}
			return true, nil
		},
	}}
	_, err := generate(t, []*schema.Table{accounts()}, []entry{{breaker, nil}, {NewMerge(), nil}})
	require.Error(t, err)
	assert.ErrorIs(t, err, gen.ErrStructural)
	assert.Contains(t, err.Error(), "plugin merge")
}

func TestGenericInterface(t *testing.T) {
	t.Parallel()

	res := mustGenerate(t, []*schema.Table{accounts(), userRoles(), auditLog()},
		entry{NewGenericInterface(), gen.Properties{
			"mapper_interface": "BaseMapper",
			"target_table":     "user_roles, audit_log, accounts",
			"model_interface":  "github.com/syssam/sqlmap.KeyHolder",
		}},
	)

	acc := artifacts(t, res, "accounts")
	require.Len(t, acc.Interface.Embeds, 1)
	assert.Equal(t, "BaseMapper[Account, AccountExample, int64]", acc.Interface.Embeds[0].String())
	rec := acc.Class(gen.ClassRecord)
	require.NotNil(t, rec.Method("PrimaryKey"))
	assert.Equal(t, "github.com/syssam/sqlmap.KeyHolder[int64]", rec.Implements[0].String())

	roles := artifacts(t, res, "user_roles")
	require.Len(t, roles.Interface.Embeds, 1)
	assert.Equal(t, "BaseMapper[UserRole, UserRoleExample, UserRoleKey]", roles.Interface.Embeds[0].String())
	assert.NotNil(t, roles.Class(gen.ClassRecord).Method("PrimaryKey"))
	assert.Nil(t, roles.Class(gen.ClassPrimaryKey).Method("PrimaryKey"))

	audit := artifacts(t, res, "audit_log")
	assert.Empty(t, audit.Interface.Embeds)

	require.Len(t, res.Interfaces, 1)
	base := res.Interfaces[0]
	assert.Equal(t, "BaseMapper", base.Name)
	assert.Len(t, base.TypeParams, 3)
	assert.Equal(t, "[]*T", base.Method("SelectByExample").Results[0].String())
	assert.Equal(t, "K", base.Method("SelectByPrimaryKey").Params[0].Type.String())
}

func TestGenericInterfaceTargetsOnly(t *testing.T) {
	t.Parallel()

	res := mustGenerate(t, []*schema.Table{accounts(), userRoles()},
		entry{NewGenericInterface(), gen.Properties{
			"mapper_interface": "github.com/syssam/sqlmap.Mapper",
			"target_table":     "user_roles",
		}},
	)
	assert.Empty(t, artifacts(t, res, "accounts").Interface.Embeds)
	assert.Nil(t, artifacts(t, res, "accounts").Class(gen.ClassRecord).Method("PrimaryKey"))
	assert.Equal(t, "github.com/syssam/sqlmap.Mapper[UserRole, UserRoleExample, UserRoleKey]",
		artifacts(t, res, "user_roles").Interface.Embeds[0].String())
	assert.Empty(t, res.Interfaces)
}

func TestGenericInterfaceModelFallback(t *testing.T) {
	t.Parallel()

	res, err := generate(t, []*schema.Table{accounts()},
		[]entry{{NewGenericInterface(), gen.Properties{"mapper_interface": "BaseMapper", "target_table": "accounts"}}},
		gen.WithTable(&gen.TableConfig{Name: "accounts", Disable: []gen.Op{gen.OpInsert}}),
	)
	require.NoError(t, err)
	a := artifacts(t, res, "accounts")
	assert.False(t, a.Interface.HasMethod("Insert"))
	require.Len(t, a.Interface.Embeds, 1)
	assert.Equal(t, "BaseMapper[Account, AccountExample, int64]", a.Interface.Embeds[0].String())
}

func TestKeyHolder(t *testing.T) {
	t.Parallel()

	res := mustGenerate(t, []*schema.Table{accounts(), auditLog()}, entry{NewKeyHolder(), gen.Properties{"interface": "Keyed"}})
	rec := artifacts(t, res, "accounts").Class(gen.ClassRecord)
	require.NotNil(t, rec.Method("PrimaryKey"))
	assert.Equal(t, "Keyed[int64]", rec.Implements[0].String())
	assert.Empty(t, artifacts(t, res, "audit_log").Class(gen.ClassRecord).Implements)
	require.Len(t, res.Interfaces, 1)
	assert.Equal(t, "Keyed", res.Interfaces[0].Name)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	a := artifacts(t, mustGenerate(t, []*schema.Table{accounts()}, entry{NewTruncate(), nil}), "accounts")
	m := a.Interface.Method("Truncate")
	require.NotNil(t, m)
	assert.Empty(t, m.Params)
	assert.Equal(t, []string{"truncate table app.accounts"}, lines(a.Document.Statement("Truncate")))
}

func TestNaming(t *testing.T) {
	t.Parallel()

	res := mustGenerate(t, []*schema.Table{accounts()},
		entry{NewNoSchema(), nil},
		entry{NewModelSuffix(), nil},
		entry{NewRenameDocument(), nil},
	)
	a := artifacts(t, res, "accounts")
	assert.Equal(t, "accounts", a.Table.RuntimeName)
	assert.Equal(t, "AccountDto", a.Table.ModelName)
	assert.Equal(t, "AccountDto", a.Class(gen.ClassRecord).Name)
	assert.Equal(t, "AccountRepository", a.Document.Name)
	assert.Equal(t, "AccountMapper", a.Interface.Name)
	assert.Contains(t, lines(a.Document.Statement("Insert")), "insert into accounts")

	assert.Equal(t, "users", StripSchema("app.users"))
	assert.Equal(t, "users", StripSchema("users"))
}

func TestModelSuffixProperty(t *testing.T) {
	t.Parallel()

	res := mustGenerate(t, []*schema.Table{accounts()}, entry{NewModelSuffix(), gen.Properties{"suffix": "Row"}})
	assert.Equal(t, "AccountRow", artifacts(t, res, "accounts").Table.ModelName)
}

func TestModelPlugins(t *testing.T) {
	t.Parallel()

	res := mustGenerate(t, []*schema.Table{accounts(), userRoles()},
		entry{NewColumnInterface(), gen.Properties{"statusInterface": "github.com/acme/app/model.Versioned", "targetColumn": "version"}},
		entry{NewExampleInterface(), gen.Properties{"interfaceName": "github.com/acme/app/model.Criteria"}},
		entry{NewTimeFormat(), nil},
		entry{NewHashExclude(), gen.Properties{"excludeField": "UpdatedAt, created_by"}},
	)

	acc := artifacts(t, res, "accounts")
	rec := acc.Class(gen.ClassRecord)
	assert.Equal(t, "github.com/acme/app/model.Versioned", rec.Implements[0].String())
	assert.Equal(t, "github.com/acme/app/model.Criteria", acc.Class(gen.ClassExample).Implements[0].String())
	assert.Equal(t, DateLayout, rec.Field("Birthday").Tags["format"])
	assert.Equal(t, TimestampLayout, rec.Field("UpdatedAt").Tags["format"])
	assert.Empty(t, rec.Field("Name").Tags["format"])
	assert.Equal(t, "ignore", rec.Field("UpdatedAt").Tags["hash"])
	assert.Equal(t, "ignore", rec.Field("CreatedBy").Tags["hash"])
	assert.Empty(t, rec.Field("Name").Tags["hash"])

	roles := artifacts(t, res, "user_roles")
	assert.Empty(t, roles.Class(gen.ClassRecord).Implements)
}
