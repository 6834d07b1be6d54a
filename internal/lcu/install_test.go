package lcu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLockfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockfile")
	require.NoError(t, os.WriteFile(path, []byte("LeagueClient:1234:54321:secret:https\n"), 0644))

	assert.NoError(t, CheckLockfile(path))
}

func TestCheckLockfile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockfile")
	require.NoError(t, os.WriteFile(path, []byte("LeagueClient:1234"), 0644))

	assert.Error(t, CheckLockfile(path))
}

func TestCheckLockfile_Missing(t *testing.T) {
	assert.Error(t, CheckLockfile(filepath.Join(t.TempDir(), "lockfile")))
}

func TestIsInstallDir(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsInstallDir(dir))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "Config"), 0755))
	assert.True(t, IsInstallDir(dir))
}
