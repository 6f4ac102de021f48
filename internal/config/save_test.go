package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSaveTheme_WritesIntoEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	theme := Defaults().Theme
	theme.SelectedFG = "201"
	require.NoError(t, SaveTheme(path, theme))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "201", cfg.Theme.SelectedFG)
}

func TestSaveTheme_PreservesOtherSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0o644))

	require.NoError(t, SaveTheme(path, Defaults().Theme))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Debug)
}

func TestSaveAutosave_WritesIntoEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, SaveAutosave(path, 5*time.Second))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.AutosaveInterval)
}

func TestSaveAutosave_PreservesOtherSectionsAndOverwritesPriorValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("autosave_interval: 1s\ndebug: true\n"), 0o644))

	require.NoError(t, SaveAutosave(path, 10*time.Second))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, cfg.AutosaveInterval)
	require.True(t, cfg.Debug)
}
