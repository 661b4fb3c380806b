package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "aliases", c.AliasMode)
	assert.Equal(t, "markdown", c.Format)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 100000, c.MaxRows)
	assert.Equal(t, 1, c.SheetIndex)
	assert.Equal(t, 20, c.NegativeMarginLimit)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	in := &Global{AliasMode: "canonical", Format: "json", Workers: 2, MaxRows: 10, SheetIndex: 3, Delimiter: ";"}
	require.NoError(t, Save(in, path))
	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "canonical", out.AliasMode)
	assert.Equal(t, "json", out.Format)
	assert.Equal(t, 2, out.Workers)
	assert.Equal(t, ";", out.Delimiter)
	assert.Equal(t, 3, out.SheetIndex)
}

func TestSaveDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, Save(&Global{AliasMode: "aliases", Format: "html"}, ""))
	_, err := os.Stat(filepath.Join(home, ".feedcheck", "config.yaml"))
	require.NoError(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, Save(&Global{AliasMode: "aliases", Format: "json"}, path))
	t.Setenv("FEEDCHECK_FORMAT", "html")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "html", c.Format)
}

func TestDotEnvIsLoaded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("FEEDCHECK_WORKERS", "")
	require.NoError(t, os.Unsetenv("FEEDCHECK_WORKERS"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FEEDCHECK_WORKERS=7\n"), 0o644))
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, c.Workers)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	t.Setenv("FEEDCHECK_FORMAT", "pdf")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
