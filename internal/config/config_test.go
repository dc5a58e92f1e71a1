package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreSane(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, 40*time.Millisecond, cfg.Editor.Debounce())
	assert.Equal(t, 3*time.Second, cfg.Editor.AutosaveDelayDuration())
	assert.True(t, cfg.Editor.AutosaveEnabled)
	assert.Equal(t, "info", cfg.Logger.LogLevel)
}

func TestAutosaveDelayFallsBackOnBadValue(t *testing.T) {
	e := EditorConfig{AutosaveDelay: "not a duration"}
	assert.Equal(t, DefaultAutosaveDelay, e.AutosaveDelayDuration())

	e = EditorConfig{AutosaveDelay: "-2s"}
	assert.Equal(t, DefaultAutosaveDelay, e.AutosaveDelayDuration())

	e = EditorConfig{AutosaveDelay: "750ms"}
	assert.Equal(t, 750*time.Millisecond, e.AutosaveDelayDuration())
}

func TestLoadFromFileKeepsDefaultsForOmittedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor]\ndebounce_ms = 80\n"), 0644))

	cfg := NewDefaultConfig()
	require.NoError(t, loadFromFile(path, cfg))
	cfg.validate()

	assert.Equal(t, 80*time.Millisecond, cfg.Editor.Debounce())
	assert.True(t, cfg.Editor.AutosaveEnabled, "omitted key keeps its default")
	assert.Equal(t, "3s", cfg.Editor.AutosaveDelay)
}

func TestValidateResetsBadValues(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Editor.DebounceMillis = -5
	cfg.Editor.AutosaveDelay = "bogus"
	cfg.Editor.TabWidth = 0
	cfg.validate()

	defaults := NewDefaultConfig()
	assert.Equal(t, defaults.Editor.DebounceMillis, cfg.Editor.DebounceMillis)
	assert.Equal(t, defaults.Editor.AutosaveDelay, cfg.Editor.AutosaveDelay)
	assert.Equal(t, defaults.Editor.TabWidth, cfg.Editor.TabWidth)
}

func TestLoadFromFileMissingFileIsFine(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, loadFromFile(filepath.Join(t.TempDir(), "absent.toml"), cfg))
	assert.Equal(t, NewDefaultConfig(), cfg)
}
