package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Turnip configuration
type Config struct {
	Editor  EditorConfig  `mapstructure:"editor"`
	Limits  LimitsConfig  `mapstructure:"limits"`
	Session SessionConfig `mapstructure:"session"`
	Watcher WatcherConfig `mapstructure:"watcher"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EditorConfig controls the editing surface
type EditorConfig struct {
	// TabWidth is the number of columns a tab character occupies (default: 4)
	TabWidth int `mapstructure:"tab_width"`
	// LineNumbers shows line numbers in the editing surface (default: true)
	LineNumbers bool `mapstructure:"line_numbers"`
	// SoftWrap wraps long lines instead of scrolling horizontally (default: false)
	SoftWrap bool `mapstructure:"soft_wrap"`
}

// LimitsConfig controls the size caps applied when opening files
type LimitsConfig struct {
	// SoftLimitMB is the size in megabytes above which opening a file asks
	// for confirmation (default: 1)
	SoftLimitMB int64 `mapstructure:"soft_limit_mb"`
	// HardLimitMB is the size in megabytes above which a file is refused
	// outright (default: 100)
	HardLimitMB int64 `mapstructure:"hard_limit_mb"`
}

// SoftLimit returns the soft cap in bytes.
func (l *LimitsConfig) SoftLimit() int64 { return l.SoftLimitMB << 20 }

// HardLimit returns the hard cap in bytes.
func (l *LimitsConfig) HardLimit() int64 { return l.HardLimitMB << 20 }

// SessionConfig controls tab group persistence
type SessionConfig struct {
	// AutoSession restores the previous session on start and writes it on
	// exit when no explicit group file is given (default: true)
	AutoSession bool `mapstructure:"auto_session"`
	// Dir overrides where the auto-session and state files live.
	// Empty means the user config directory.
	Dir string `mapstructure:"dir"`
}

// WatcherConfig controls external-change detection for open files
type WatcherConfig struct {
	// Enabled turns file watching on (default: true)
	Enabled bool `mapstructure:"enabled"`
	// DebounceMs coalesces bursts of change events within this window
	// (default: 200)
	DebounceMs int `mapstructure:"debounce_ms"`
}

// Debounce returns the debounce window as a time.Duration.
func (w *WatcherConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// SidebarWidth is the width of the tab sidebar in columns (default: 28, min: 16, max: 60)
	SidebarWidth int `mapstructure:"sidebar_width"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:    4,
			LineNumbers: true,
			SoftWrap:    false,
		},
		Limits: LimitsConfig{
			SoftLimitMB: 1,
			HardLimitMB: 100,
		},
		Session: SessionConfig{
			AutoSession: true,
			Dir:         "", // Empty means the user config directory
		},
		Watcher: WatcherConfig{
			Enabled:    true,
			DebounceMs: 200,
		},
		TUI: TUIConfig{
			SidebarWidth: 28,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Editor defaults
	viper.SetDefault("editor.tab_width", defaults.Editor.TabWidth)
	viper.SetDefault("editor.line_numbers", defaults.Editor.LineNumbers)
	viper.SetDefault("editor.soft_wrap", defaults.Editor.SoftWrap)

	// Limits defaults
	viper.SetDefault("limits.soft_limit_mb", defaults.Limits.SoftLimitMB)
	viper.SetDefault("limits.hard_limit_mb", defaults.Limits.HardLimitMB)

	// Session defaults
	viper.SetDefault("session.auto_session", defaults.Session.AutoSession)
	viper.SetDefault("session.dir", defaults.Session.Dir)

	// Watcher defaults
	viper.SetDefault("watcher.enabled", defaults.Watcher.Enabled)
	viper.SetDefault("watcher.debounce_ms", defaults.Watcher.DebounceMs)

	// TUI defaults
	viper.SetDefault("tui.sidebar_width", defaults.TUI.SidebarWidth)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ResolveSessionDir returns the directory for the auto-session and state
// files: the configured override, or the config directory when unset.
// Supports ~ for home directory expansion.
func (s *SessionConfig) ResolveSessionDir() string {
	if s.Dir == "" {
		return ConfigDir()
	}

	path := s.Dir
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	} else if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "turnip")
	}
	// Fall back to ~/.config/turnip
	home, err := os.UserHomeDir()
	if err != nil {
		return ".turnip"
	}
	return filepath.Join(home, ".config", "turnip")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
