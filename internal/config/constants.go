// internal/config/constants.go
package config

import "time"

// Base application details
const AppName = "inklet"
const ConfigDirName = "inklet"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "inklet.log"

// Engine timing defaults. The debounce coalesces keystrokes; the
// autosave delay is the quiet period before a save fires.
const DefaultDebounce = 40 * time.Millisecond
const DefaultAutosaveDelay = 3 * time.Second

// UI Layout
const StatusBarHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

const DefaultTabWidth = 4
const SystemClipboard = true
