package config

import (
	"fmt"
	"time"
)

// Shell targets accepted by Settings.Shell
const (
	ShellAuto    = "auto"
	ShellCompact = "compact"
	ShellWide    = "wide"
)

// Config represents the main configuration
type Config struct {
	Version  string    `yaml:"version"`
	Settings *Settings `yaml:"settings"`
}

// LoggerConfig represents logger configuration
type LoggerConfig struct {
	Level     string `yaml:"level" json:"level"`             // debug, info, warn, error
	FilePath  string `yaml:"file_path" json:"file_path"`     // Log file path (empty = default data dir)
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"` // Max log file size before rotation
	Console   bool   `yaml:"console" json:"console"`         // Also log to stderr (off while the TUI owns the terminal)
}

// DefaultLoggerConfig returns default logger configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:     "info",
		FilePath:  "",
		MaxSizeMB: 10,
		Console:   false,
	}
}

// WebConfig configures the wide shell's HTTP server
type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
	// PingSeconds is the WebSocket keepalive period
	PingSeconds int `yaml:"ping_seconds" json:"ping_seconds"`
}

// HeaderConfig tunes the shared header slot
type HeaderConfig struct {
	// DebounceMS is how long a clear holds off an identical re-set
	DebounceMS int `yaml:"debounce_ms" json:"debounce_ms"`
}

// Settings represents global application settings
type Settings struct {
	// Presentation shell: auto, compact, wide
	Shell string `yaml:"shell" json:"shell"`

	// Signed-in role: learner, instructor, admin
	Role string `yaml:"role" json:"role"`

	// Locale for fallback route titles (en, es)
	Locale string `yaml:"locale" json:"locale"`

	Logger *LoggerConfig `yaml:"logger,omitempty" json:"logger,omitempty"`
	Web    *WebConfig    `yaml:"web,omitempty" json:"web,omitempty"`
	Header *HeaderConfig `yaml:"header,omitempty" json:"header,omitempty"`
}

// GetLoggerConfig returns the logger config, applying defaults
func (s *Settings) GetLoggerConfig() *LoggerConfig {
	if s.Logger != nil {
		return s.Logger
	}
	return DefaultLoggerConfig()
}

// GetWebConfig returns the web config, applying defaults
func (s *Settings) GetWebConfig() *WebConfig {
	if s.Web != nil {
		return s.Web
	}
	return DefaultWebConfig()
}

// DebounceWindow returns the header debounce window
func (s *Settings) DebounceWindow() time.Duration {
	if s.Header == nil || s.Header.DebounceMS <= 0 {
		return DefaultDebounceMS * time.Millisecond
	}
	return time.Duration(s.Header.DebounceMS) * time.Millisecond
}

// Addr returns host:port for the web server
func (w *WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// Validate validates the configuration
func (c *Config) Validate() []string {
	var errors []string

	if c.Settings == nil {
		errors = append(errors, "settings is required")
		return errors
	}

	switch c.Settings.Shell {
	case ShellAuto, ShellCompact, ShellWide:
	default:
		errors = append(errors, fmt.Sprintf("shell must be one of auto, compact, wide (got %q)", c.Settings.Shell))
	}

	switch c.Settings.Role {
	case "learner", "instructor", "admin":
	default:
		errors = append(errors, fmt.Sprintf("role must be one of learner, instructor, admin (got %q)", c.Settings.Role))
	}

	web := c.Settings.GetWebConfig()
	if web.Port < 1 || web.Port > 65535 {
		errors = append(errors, "web.port must be between 1 and 65535")
	}

	if c.Settings.Header != nil && c.Settings.Header.DebounceMS < 0 {
		errors = append(errors, "header.debounce_ms must not be negative")
	}

	return errors
}

// Merge merges another config into this one (other takes precedence)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Version != "" {
		c.Version = other.Version
	}

	if other.Settings != nil {
		c.Settings = other.Settings
	}
}
