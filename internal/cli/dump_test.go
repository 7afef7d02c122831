package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := GetRootCmd()
	cmd.SetArgs(args)

	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(output)

	err := cmd.Execute()
	return output.String(), err
}

func TestDumpCommand(t *testing.T) {
	recordPath := filepath.Join(t.TempDir(), "vintage.session")
	require.NoError(t, os.WriteFile(recordPath, []byte(`{"history": {"3": "x"}, "macros": {}}`), 0644))

	out, err := runCommand(t, "dump", recordPath)
	require.NoError(t, err)

	assert.Contains(t, out, `"history"`)
	assert.Contains(t, out, `"3": "x"`)
	assert.Contains(t, out, `"macros"`)
}

func TestDumpCommandEmptyFile(t *testing.T) {
	recordPath := filepath.Join(t.TempDir(), "vintage.session")
	require.NoError(t, os.WriteFile(recordPath, []byte("  \n"), 0644))

	out, err := runCommand(t, "dump", recordPath)
	require.NoError(t, err)
	assert.Contains(t, out, "{}")
}

func TestDumpCommandMalformedFile(t *testing.T) {
	recordPath := filepath.Join(t.TempDir(), "vintage.session")
	require.NoError(t, os.WriteFile(recordPath, []byte("{not json"), 0644))

	_, err := runCommand(t, "dump", recordPath)
	assert.Error(t, err)
}

func TestDumpCommandMissingFile(t *testing.T) {
	_, err := runCommand(t, "dump", filepath.Join(t.TempDir(), "absent.session"))
	assert.Error(t, err)
}
