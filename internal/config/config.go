// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/inklet/inklet/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger LoggerConfig `toml:"logger"`
	Editor EditorConfig `toml:"editor"`
}

// LoggerConfig configures the log output.
type LoggerConfig struct {
	LogLevel    string `toml:"log_level"`
	LogFilePath string `toml:"log_file"`
}

// EditorConfig holds engine and host settings.
type EditorConfig struct {
	// DebounceMillis coalesces rapid keystrokes into one change
	// notification.
	DebounceMillis int `toml:"debounce_ms"`
	// AutosaveEnabled arms the autosave scheduler.
	AutosaveEnabled bool `toml:"autosave"`
	// AutosaveDelay is a duration string ("3s", "500ms").
	AutosaveDelay string `toml:"autosave_delay"`
	// FormatOnSave runs the spacing formatter before each manual save.
	FormatOnSave    bool `toml:"format_on_save"`
	SystemClipboard bool `toml:"system_clipboard"`
	TabWidth        int  `toml:"tab_width"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			LogLevel:    "info",
			LogFilePath: "",
		},
		Editor: EditorConfig{
			DebounceMillis:  int(DefaultDebounce / time.Millisecond),
			AutosaveEnabled: true,
			AutosaveDelay:   DefaultAutosaveDelay.String(),
			FormatOnSave:    false,
			SystemClipboard: SystemClipboard,
			TabWidth:        DefaultTabWidth,
		},
	}
}

// Debounce returns the debounce interval as a duration.
func (e EditorConfig) Debounce() time.Duration {
	return time.Duration(e.DebounceMillis) * time.Millisecond
}

// AutosaveDelayDuration parses the configured delay, falling back to
// the default on a bad value.
func (e EditorConfig) AutosaveDelayDuration() time.Duration {
	d, err := time.ParseDuration(e.AutosaveDelay)
	if err != nil || d <= 0 {
		return DefaultAutosaveDelay
	}
	return d
}

// loadFromFile decodes a TOML file over cfg, so keys the file omits
// keep their defaults. A missing file is not an error.
func loadFromFile(filePath string, cfg *Config) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if len(metadata.Undecoded()) > 0 {
		logger.Warnf("config file '%s': unrecognized keys: %v", filePath, metadata.Undecoded())
	}
	return nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.DebounceMillis <= 0 {
		c.Editor.DebounceMillis = defaults.Editor.DebounceMillis
	}
	if _, err := time.ParseDuration(c.Editor.AutosaveDelay); err != nil {
		c.Editor.AutosaveDelay = defaults.Editor.AutosaveDelay
	}
	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = defaults.Editor.TabWidth
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
}

// LoadConfig orchestrates loading defaults, file overrides, and
// validation. Called once, typically from main.
func LoadConfig(configFilePath string) (*Config, error) {
	loadOnce.Do(func() {
		cfg := NewDefaultConfig()

		effectivePath := configFilePath
		if effectivePath == "" {
			if configDir, err := os.UserConfigDir(); err == nil {
				effectivePath = filepath.Join(configDir, ConfigDirName, DefaultConfigFileName)
			}
		}

		if effectivePath != "" {
			if err := loadFromFile(effectivePath, cfg); err != nil {
				loadErr = err
			}
		}

		cfg.validate()
		loadedConfig = cfg
	})
	return loadedConfig, loadErr
}
