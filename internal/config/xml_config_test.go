package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SceneViewer.config")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 500, cfg.Processing.MaxSceneElements)
	assert.Equal(t, 800, cfg.Viewer.DefaultCanvasWidth)
	assert.Equal(t, 600, cfg.Viewer.DefaultCanvasHeight)

	// The default file is written for the next run.
	_, err = os.Stat(path)
	require.NoError(t, err)

	// Relative storage paths are resolved against the config dir.
	assert.Equal(t, filepath.Join(dir, "data"), cfg.GetDataDir())
	assert.Equal(t, filepath.Join(dir, "data", "uploads"), cfg.GetUploadDir())
}

func TestLoadConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "SceneViewer.config")

	cfg := DefaultConfig()
	cfg.Server.Port = 9999
	cfg.Processing.MaxSceneElements = 42
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, loaded.Server.Port)
	assert.Equal(t, 42, loaded.Processing.MaxSceneElements)
	assert.Equal(t, "0.0.0.0:9999", loaded.GetServerAddr())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("PORT", "7777")

	dir := t.TempDir()
	path := filepath.Join(dir, "SceneViewer.config")
	require.NoError(t, DefaultConfig().Save(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Server.Port)
}

func TestLoadConfigInvalidXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.config")
	require.NoError(t, os.WriteFile(path, []byte("not xml at all <"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.resolvePaths(dir)

	require.NoError(t, cfg.EnsureDirectories())
	for _, d := range []string{cfg.GetDataDir(), cfg.GetUploadDir(), cfg.GetTempDir()} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
