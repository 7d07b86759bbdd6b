package config

import (
	"os"
	"path/filepath"
)

const (
	// DefaultWebPort is the wide shell's default HTTP port
	DefaultWebPort = 9099
	// DefaultDebounceMS matches header.DefaultDebounceWindow
	DefaultDebounceMS = 800

	appDirName = ".coursedesk"
)

// DefaultWebConfig returns default web server settings
func DefaultWebConfig() *WebConfig {
	return &WebConfig{
		Host:        "127.0.0.1",
		Port:        DefaultWebPort,
		PingSeconds: 30,
	}
}

// DefaultSettings returns default configuration settings
func DefaultSettings() *Settings {
	return &Settings{
		Shell:  ShellAuto,
		Role:   "learner",
		Locale: "en",
		Logger: DefaultLoggerConfig(),
		Web:    DefaultWebConfig(),
		Header: &HeaderConfig{DebounceMS: DefaultDebounceMS},
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  "1.0",
		Settings: DefaultSettings(),
	}
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	cwd, err := os.Getwd()
	if err == nil {
		return filepath.Join(cwd, DefaultConfigFileName)
	}

	return DefaultConfigFileName
}

// GetUserConfigDir returns the user's coursedesk directory
func GetUserConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, appDirName), nil
}

// GetDefaultLogPath returns where the log file goes when none is configured
func GetDefaultLogPath() string {
	dir, err := GetUserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "coursedesk.log")
	}
	return filepath.Join(dir, "coursedesk.log")
}

// EnsureDirectories creates the user config directory
func EnsureDirectories() error {
	dir, err := GetUserConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
