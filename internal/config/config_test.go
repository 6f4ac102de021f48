package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestLoad_ReadsOverridesLayeredOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
theme:
  selected_fg: "201"
debug: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "201", cfg.Theme.SelectedFG)
	require.True(t, cfg.Debug)
	// Untouched defaults survive the partial override.
	require.Equal(t, Defaults().Theme.NormalFG, cfg.Theme.NormalFG)
	require.Equal(t, Defaults().GPS.Endpoint, cfg.GPS.Endpoint)
}

func TestDefaultPath_UnderUserHomeConfigDir(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)
	require.Contains(t, path, filepath.Join(".config", "scrawl", "config.yaml"))
}
