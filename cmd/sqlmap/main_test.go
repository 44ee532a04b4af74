package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlmap/compiler/load"
)

const schemaFile = `
tables:
  - name: accounts
    primary_key: [id]
    columns:
      - {name: id, type: BIGINT}
      - {name: name, type: VARCHAR}
`

const configFile = `
source:
  files: [schema.yaml]
output:
  target: out
  package: github.com/acme/app/mapper
log:
  level: error
plugins:
  - type: truncate
`

func project(t *testing.T) (dir, cfg string) {
	t.Helper()
	dir = t.TempDir()
	cfg = filepath.Join(dir, "sqlmap.yaml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.yaml"), []byte(schemaFile), 0o644))
	require.NoError(t, os.WriteFile(cfg, []byte(configFile), 0o644))
	return dir, cfg
}

func exec(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	out, err := exec(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "sqlmap version "+version+"\n", out)
}

func TestPlugins(t *testing.T) {
	out, err := exec(t, "plugins")
	require.NoError(t, err)
	names := strings.Fields(out)
	assert.Contains(t, names, "merge")
	assert.Contains(t, names, "generic-interface")
	assert.IsNonDecreasing(t, names)
}

func TestGenerate(t *testing.T) {
	dir, cfg := project(t)

	out, err := exec(t, "generate", "--dry-run", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "AccountMapper.xml\t")
	assert.NoDirExists(t, filepath.Join(dir, "out"))

	_, err = exec(t, "generate", "-c", cfg)
	require.NoError(t, err)
	xml, err := os.ReadFile(filepath.Join(dir, "out", "AccountMapper.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(xml), `<delete id="Truncate">`)

	_, err = exec(t, "generate", "-c", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	_, err = exec(t, "--log-level", "loud", "generate", "-c", cfg)
	require.Error(t, err)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "app.db")
	db, err := sql.Open(load.SQLite, dsn)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE accounts (id integer PRIMARY KEY, name varchar(32) NOT NULL, version bigint NOT NULL)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := exec(t, "inspect", "--dialect", "sqlite", "--dsn", dsn)
	require.NoError(t, err)
	tables, err := load.Decode(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "accounts", tables[0].Name)
	assert.Equal(t, []string{"id"}, tables[0].PrimaryKey)

	snap := filepath.Join(dir, "schema.msgpack")
	out, err = exec(t, "inspect", "--dialect", "sqlite", "--dsn", dsn, "--snapshot", snap)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 1 tables")
	tables, err = load.ReadSnapshot(snap)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Version", tables[0].Column("version").Property)

	_, err = exec(t, "inspect", "--dialect", "oracle", "--dsn", dsn)
	require.Error(t, err)
}

func TestWatch(t *testing.T) {
	dir, cfg := project(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		var stdout, stderr bytes.Buffer
		done <- run(ctx, []string{"watch", "-c", cfg, "--delay", "20ms"}, &stdout, &stderr)
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "out", "AccountMapper.xml"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	schema := schemaFile + `
  - name: audit_log
    columns:
      - {name: message, type: VARCHAR}
`
	// the watcher may still be registering; keep touching the file.
	require.Eventually(t, func() bool {
		if err := os.WriteFile(filepath.Join(dir, "schema.yaml"), []byte(schema), 0o644); err != nil {
			return false
		}
		_, err := os.Stat(filepath.Join(dir, "out", "AuditLogMapper.xml"))
		return err == nil
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
