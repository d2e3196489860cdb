package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/star/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o644))
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader := NewLoaderWithGlobalDir(t.TempDir(), t.TempDir())

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_LocalConfigOnly(t *testing.T) {
	localDir := t.TempDir()
	writeConfig(t, localDir, `
[store]
file = "notes/star.xml"

[source]
repo = "/src/project"

[display]
time_format = "15:04"

[log]
level = "debug"
`)

	cfg, err := NewLoaderWithGlobalDir(localDir, t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, "notes/star.xml", cfg.Store.File)
	assert.Equal(t, "/src/project", cfg.Source.Repo)
	assert.Equal(t, "15:04", cfg.Display.TimeFormat)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_MergeLocalOverridesGlobal(t *testing.T) {
	localDir := t.TempDir()
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `
[store]
file = "global.xml"

[log]
level = "warn"
`)
	writeConfig(t, localDir, `
[store]
file = "local.xml"
`)

	cfg, err := NewLoaderWithGlobalDir(localDir, globalDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "local.xml", cfg.Store.File)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, domain.DefaultTimeFormat, cfg.Display.TimeFormat)
}

func TestLoader_Load_Warnings(t *testing.T) {
	localDir := t.TempDir()
	writeConfig(t, localDir, `
[store]
file = "star.xml"
format = "json"

[log]
level = 3

[agents]
name = "x"
`)

	cfg, err := NewLoaderWithGlobalDir(localDir, t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"[log].level must be a string",
		"unknown key in [store]: format",
		"unknown section: agents",
	}, cfg.Warnings)
	assert.Equal(t, domain.DefaultLogLevel, cfg.Log.Level)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	localDir := t.TempDir()
	writeConfig(t, localDir, "[store\nfile = ")

	_, err := NewLoaderWithGlobalDir(localDir, t.TempDir()).Load()
	assert.Error(t, err)
}

func TestLoader_LoadGlobal(t *testing.T) {
	globalDir := t.TempDir()

	_, err := NewLoaderWithGlobalDir(t.TempDir(), globalDir).LoadGlobal()
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewLoaderWithGlobalDir(t.TempDir(), "").LoadGlobal()
	assert.ErrorIs(t, err, os.ErrNotExist)

	writeConfig(t, globalDir, "[display]\ntime_format = \"Jan 2\"\n")
	cfg, err := NewLoaderWithGlobalDir(t.TempDir(), globalDir).LoadGlobal()
	require.NoError(t, err)
	assert.Equal(t, "Jan 2", cfg.Display.TimeFormat)
}
