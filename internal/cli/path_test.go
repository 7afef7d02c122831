package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathCommandFromPackagesDir(t *testing.T) {
	out, err := runCommand(t, "path", "--packages", "/opt/editor/Packages")
	require.NoError(t, err)

	assert.Contains(t, out, filepath.Join("/opt/editor", "Local", "vintage.session"))
}

func TestPathCommandUsesConfigOverride(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "vintage.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"session_file": "/tmp/override.session"}`), 0644))

	out, err := runCommand(t, "--config", configPath, "path")
	require.NoError(t, err)
	assert.Contains(t, out, "/tmp/override.session")

	// Reset the global flag for subsequent tests.
	cfgFile = ""
}

func TestPathCommandRequiresPackagesFlag(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "absent.json")

	_, err := runCommand(t, "--config", configPath, "path", "--packages", "")
	assert.Error(t, err)

	cfgFile = ""
}
