package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
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
			{Name: "api_key", Type: schema.TypeVarchar, Nullable: true},
			{Name: "version", Type: schema.TypeInteger},
		},
		PrimaryKey: []string{"id"},
	}
}

func TestTable(t *testing.T) {
	t.Parallel()

	tbl := usersTable()
	require.NoError(t, tbl.Normalize())

	t.Run("QualifiedName", func(t *testing.T) {
		assert.Equal(t, "app.users", tbl.QualifiedName())
		assert.Equal(t, "users", (&schema.Table{Name: "users"}).QualifiedName())
	})

	t.Run("Columns", func(t *testing.T) {
		require.Len(t, tbl.PrimaryKeyColumns(), 1)
		assert.Equal(t, "id", tbl.PrimaryKeyColumns()[0].Name)
		var base []string
		for _, c := range tbl.BaseColumns() {
			base = append(base, c.Name)
		}
		assert.Equal(t, []string{"name", "api_key", "version"}, base)
		assert.True(t, tbl.IsPrimaryKey("id"))
		assert.False(t, tbl.IsPrimaryKey("name"))
		assert.True(t, tbl.HasPrimaryKey())
		assert.False(t, tbl.HasCompositeKey())
		assert.Nil(t, tbl.Column("missing"))
	})

	t.Run("Properties", func(t *testing.T) {
		assert.Equal(t, "ID", tbl.Column("id").Property)
		assert.Equal(t, "APIKey", tbl.Column("api_key").Property)
		assert.Equal(t, "#{Version,jdbcType=INTEGER}", tbl.Column("version").Placeholder())
	})

	t.Run("KeyOrder", func(t *testing.T) {
		tbl := &schema.Table{
			Name: "user_roles",
			Columns: []*schema.Column{
				{Name: "role_id", Type: schema.TypeBigInt},
				{Name: "user_id", Type: schema.TypeBigInt},
			},
			PrimaryKey: []string{"user_id", "role_id"},
		}
		require.NoError(t, tbl.Normalize())
		keys := tbl.PrimaryKeyColumns()
		require.Len(t, keys, 2)
		assert.Equal(t, "user_id", keys[0].Name)
		assert.Equal(t, "role_id", keys[1].Name)
		assert.True(t, tbl.HasCompositeKey())
		assert.Empty(t, tbl.BaseColumns())
	})
}

func TestTableNormalizeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		table *schema.Table
		want  string
	}{
		{"NoName", &schema.Table{}, "table without name"},
		{"NoColumns", &schema.Table{Name: "t"}, "has no columns"},
		{"Duplicate", &schema.Table{Name: "t", Columns: []*schema.Column{{Name: "a"}, {Name: "a"}}}, "declares column a twice"},
		{"BadKey", &schema.Table{Name: "t", Columns: []*schema.Column{{Name: "a"}}, PrimaryKey: []string{"b"}}, "primary key column b does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Normalize()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestJDBCType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want schema.JDBCType
	}{
		{"bigint", schema.TypeBigInt},
		{"INTEGER", schema.TypeInteger},
		{"varchar(255)", schema.TypeVarchar},
		{"character varying", schema.TypeVarchar},
		{"datetime", schema.TypeTimestamp},
		{"bytea", schema.TypeVarbinary},
		{"TIMESTAMP", schema.TypeTimestamp},
		{"geometry", schema.TypeOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, schema.ParseJDBCType(tt.in), tt.in)
	}

	assert.Equal(t, schema.GoType{PkgPath: "time", Name: "Time"}, schema.TypeDate.GoType())
	assert.Equal(t, schema.GoType{Name: "byte", Slice: true}, schema.TypeBlob.GoType())
	assert.Equal(t, schema.GoType{Name: "any"}, schema.JDBCType("WHATEVER").GoType())
	assert.True(t, schema.TypeDate.IsTemporal())
	assert.False(t, schema.TypeVarchar.IsTemporal())
	assert.True(t, schema.TypeBlob.IsLarge())
}

func TestNaming(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "UserID", schema.Pascal("user_id"))
	assert.Equal(t, "CreatedAt", schema.Pascal("created_at"))
	assert.Equal(t, "HTTPStatus", schema.Pascal("http_status"))
	assert.Equal(t, "X1st", schema.Pascal("1st"))
	assert.Equal(t, "user", schema.Singular("users"))
	assert.Equal(t, "user_role", schema.Snake("UserRole"))
}
