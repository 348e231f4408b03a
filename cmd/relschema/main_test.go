package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const model = `
dialect: sqlite
namespaces:
  - tables:
      - name: users
        columns:
          - {name: id, type: integer, nullable: false}
          - {name: email, type: varchar, length: 120}
        primary_key: {columns: id}
derived_tables:
  - {name: active_users, expression: select * from users}
init_commands:
  - insert into users (id) values (1)
`

func writeModel(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCreate(t *testing.T) {
	path := writeModel(t, model)
	out, err := execute(t, "create", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE `users`")
	assert.Contains(t, out, "insert into users (id) values (1);\n")
}

func TestCreate_DialectOverride(t *testing.T) {
	path := writeModel(t, model)
	out, err := execute(t, "create", "-f", path, "--dialect", "postgres")
	require.NoError(t, err)
	assert.Contains(t, out, `CREATE TABLE "users"`)

	_, err = execute(t, "create", "-f", path, "--dialect", "oracle")
	assert.EqualError(t, err, `unknown dialect "oracle"`)
}

func TestDrop_OutputFile(t *testing.T) {
	path := writeModel(t, model)
	target := filepath.Join(t.TempDir(), "drop.sql")
	out, err := execute(t, "drop", "-f", path, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE `users`;\n", string(data))
}

func TestCheck(t *testing.T) {
	path := writeModel(t, model)
	out, err := execute(t, "check", "-f", path)
	require.NoError(t, err)
	assert.Equal(t, "<default>: 1 tables, 0 sequences, 0 types\n1 derived tables, 0 auxiliary objects, 1 init commands\n", out)
}

func TestErrors(t *testing.T) {
	_, err := execute(t, "create")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"file" not set`)

	_, err = execute(t, "create", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := writeModel(t, `
namespaces:
  - tables:
      - name: t
        columns: [{name: c, type: money}]
`)
	_, err = execute(t, "check", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "money"`)
}
