package compiler

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlmap/compiler/config"
	"github.com/syssam/sqlmap/compiler/gen"
)

const schemaFile = `
tables:
  - schema: app
    name: accounts
    primary_key: [id]
    columns:
      - {name: id, type: BIGINT}
      - {name: created_by, type: VARCHAR}
      - {name: name, type: VARCHAR}
      - {name: version, type: BIGINT}
  - name: audit_log
    columns:
      - {name: message, type: VARCHAR}
`

const configFile = `
source:
  files: [schema.yaml]
output:
  target: out
  package: github.com/acme/app/mapper
plugins:
  - type: exclude-column
    properties:
      excludeColumns: created_by
  - type: version-increment
    properties:
      versionColumns: version
  - type: update-version
    properties:
      versionColumns: version
  - type: merge
  - type: key-holder
`

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.yaml"), []byte(schemaFile), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte(configFile), 0o644))
	return dir
}

func quiet() gen.Option {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return gen.WithLogger(l)
}

func TestSessionRender(t *testing.T) {
	dir := setup(t)
	f, err := config.ReadFile(filepath.Join(dir, config.DefaultFile))
	require.NoError(t, err)
	s, err := NewSession(f, quiet())
	require.NoError(t, err)

	res, files, err := s.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Property interface not set for plugin key-holder"}, res.Warnings)
	require.Len(t, res.Tables, 2)

	byName := make(map[string][]byte)
	for _, f := range files {
		byName[f.Name] = f.Data
	}
	assert.Contains(t, byName, "account.go")
	assert.Contains(t, byName, "account_mapper.go")
	assert.Contains(t, byName, "audit_log_mapper.go")
	require.Contains(t, byName, "AccountMapper.xml")

	doc, err := xmlquery.Parse(bytes.NewReader(byName["AccountMapper.xml"]))
	require.NoError(t, err)
	locked := xmlquery.FindOne(doc, "//update[@id='UpdateByPrimaryKeyAndVersion']")
	require.NotNil(t, locked)
	assert.Contains(t, locked.InnerText(), "created_by = created_by")
	assert.Contains(t, locked.InnerText(), "and version = #{Version,jdbcType=BIGINT}")
	merge := xmlquery.FindOne(doc, "//update[@id='Merge']")
	require.NotNil(t, merge)
	assert.Contains(t, merge.InnerText(), "merge into app.accounts using (select 1 from dual)")
	assert.Contains(t, string(byName["account_mapper.go"]), "UpdateByPrimaryKeyAndVersion(ctx context.Context")

	// the audit log has no key, so merge leaves it alone.
	audit, err := xmlquery.Parse(bytes.NewReader(byName["AuditLogMapper.xml"]))
	require.NoError(t, err)
	assert.Nil(t, xmlquery.FindOne(audit, "//update[@id='Merge']"))
}

func TestGenerate(t *testing.T) {
	dir := setup(t)
	res, err := Generate(context.Background(), filepath.Join(dir, config.DefaultFile), quiet())
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	for _, name := range []string{"account.go", "account_mapper.go", "AccountMapper.xml", "AuditLogMapper.xml"} {
		assert.FileExists(t, filepath.Join(dir, "out", name))
	}

	// a second run over the same output is identical.
	before, err := os.ReadFile(filepath.Join(dir, "out", "AccountMapper.xml"))
	require.NoError(t, err)
	_, err = Generate(context.Background(), filepath.Join(dir, config.DefaultFile), quiet())
	require.NoError(t, err)
	after, err := os.ReadFile(filepath.Join(dir, "out", "AccountMapper.xml"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGenerateErrors(t *testing.T) {
	t.Run("MissingConfig", func(t *testing.T) {
		_, err := Generate(context.Background(), filepath.Join(t.TempDir(), config.DefaultFile))
		require.Error(t, err)
	})
	t.Run("MissingSchema", func(t *testing.T) {
		dir := setup(t)
		require.NoError(t, os.Remove(filepath.Join(dir, "schema.yaml")))
		_, err := Generate(context.Background(), filepath.Join(dir, config.DefaultFile), quiet())
		require.ErrorContains(t, err, "load tables")
	})
}
