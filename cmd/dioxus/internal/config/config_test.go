package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, cfg.Fmt)
	assert.Equal(t, 4, cfg.Fmt.IndentWidth)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "fmt:\n  exclude:\n    - vendor/**\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Fmt.IndentWidth)
	assert.Equal(t, []string{"vendor/**"}, cfg.Fmt.Exclude)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Fmt.IndentWidth = 2
	require.NoError(t, Save(cfg, dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Fmt.IndentWidth)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("fmt: ["), 0644))

	_, err := Load(dir)
	require.Error(t, err)
}
