package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateWithSQLiteStore(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "jobs.db")
	t.Setenv("TIMEZONE", "UTC")

	out, err := run(t, "create",
		"--requested-by", "Tan Mei Ling",
		"--email", "meiling@example.edu",
		"--department", "Student Affairs",
		"--hod-email", "head.sa@example.edu",
		"--due-date", "2030-01-23",
		"--category", "event",
		"--subtype", "Photo & Video",
		"--description", "<p>Convocation coverage</p>",
	)
	require.NoError(t, err)
	var created map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	ref := created["ref"].(string)
	assert.Regexp(t, `^ORG-\d{4}-0001$`, ref)

	_, err = run(t, "decide", ref, "approve", "--actor", "Dean Lim")
	require.NoError(t, err)

	_, err = run(t, "assign", ref, "Someone Else")
	assert.Error(t, err)

	out, err = run(t, "assign", ref, "Nurul Ain")
	require.NoError(t, err)
	assert.Contains(t, out, `"assignedTo": "Nurul Ain"`)

	out, err = run(t, "list", "--status", "approved")
	require.NoError(t, err)
	assert.Contains(t, out, ref)
	assert.Contains(t, out, "Nurul Ain")

	out, err = run(t, "show", ref)
	require.NoError(t, err)
	assert.Contains(t, out, `"by": "Dean Lim"`)
}

func TestCreateValidationFails(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "memory")

	_, err := run(t, "create", "--requested-by", "x")
	assert.Error(t, err)
}
