package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "limits.soft_limit_mb")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateEditor()...)
	errors = append(errors, c.validateLimits()...)
	errors = append(errors, c.validateWatcher()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateEditor validates the EditorConfig
func (c *Config) validateEditor() []ValidationError {
	var errors []ValidationError

	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		errors = append(errors, ValidationError{
			Field:   "editor.tab_width",
			Value:   c.Editor.TabWidth,
			Message: "must be between 1 and 16",
		})
	}

	return errors
}

// validateLimits validates the LimitsConfig
func (c *Config) validateLimits() []ValidationError {
	var errors []ValidationError

	if c.Limits.SoftLimitMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "limits.soft_limit_mb",
			Value:   c.Limits.SoftLimitMB,
			Message: "must be non-negative",
		})
	}
	if c.Limits.HardLimitMB < 1 {
		errors = append(errors, ValidationError{
			Field:   "limits.hard_limit_mb",
			Value:   c.Limits.HardLimitMB,
			Message: "must be at least 1",
		})
	}
	if c.Limits.SoftLimitMB > c.Limits.HardLimitMB {
		errors = append(errors, ValidationError{
			Field:   "limits.soft_limit_mb",
			Value:   c.Limits.SoftLimitMB,
			Message: "must not exceed limits.hard_limit_mb",
		})
	}

	return errors
}

// validateWatcher validates the WatcherConfig
func (c *Config) validateWatcher() []ValidationError {
	var errors []ValidationError

	if c.Watcher.DebounceMs < 0 || c.Watcher.DebounceMs > 10000 {
		errors = append(errors, ValidationError{
			Field:   "watcher.debounce_ms",
			Value:   c.Watcher.DebounceMs,
			Message: "must be between 0 and 10000",
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.SidebarWidth < 16 || c.TUI.SidebarWidth > 60 {
		errors = append(errors, ValidationError{
			Field:   "tui.sidebar_width",
			Value:   c.TUI.SidebarWidth,
			Message: "must be between 16 and 60",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
