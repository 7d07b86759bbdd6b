package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFileName is the default config file name
	DefaultConfigFileName = "coursedesk.yaml"
)

// Environment overrides, applied after the file is read
const (
	EnvShell   = "COURSEDESK_SHELL"
	EnvLocale  = "COURSEDESK_LOCALE"
	EnvWebPort = "COURSEDESK_WEB_PORT"
)

var (
	// globalConfig is the globally loaded configuration
	globalConfig *Config
	// globalConfigPath is the path to the loaded config file
	globalConfigPath string
	// configMutex protects config access
	configMutex sync.RWMutex
)

// Loader handles configuration loading and saving
type Loader struct {
	configPath string
	getenv     func(string) string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
		getenv:     os.Getenv,
	}
}

// Load loads configuration from file
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithCreate(false)
}

// LoadWithCreate loads configuration from file, optionally creating it if missing
func (l *Loader) LoadWithCreate(createIfMissing bool) (*Config, error) {
	if _, err := os.Stat(l.configPath); os.IsNotExist(err) {
		config := DefaultConfig()

		if createIfMissing {
			if err := l.Save(config); err != nil {
				return nil, fmt.Errorf("failed to create config file: %w", err)
			}
		}

		if err := l.applyEnv(config); err != nil {
			return nil, err
		}
		return config, nil
	}

	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)
	if err := l.applyEnv(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyDefaults fills whatever the file left out
func applyDefaults(config *Config) {
	if config.Version == "" {
		config.Version = "1.0"
	}
	if config.Settings == nil {
		config.Settings = DefaultSettings()
		return
	}

	s := config.Settings
	defaults := DefaultSettings()
	if s.Shell == "" {
		s.Shell = defaults.Shell
	}
	if s.Role == "" {
		s.Role = defaults.Role
	}
	if s.Locale == "" {
		s.Locale = defaults.Locale
	}
	if s.Logger == nil {
		s.Logger = s.GetLoggerConfig()
	}
	if s.Web == nil {
		s.Web = defaults.Web
	} else if s.Web.Port == 0 {
		s.Web.Port = DefaultWebPort
	}
	if s.Header == nil {
		s.Header = defaults.Header
	}
}

func (l *Loader) applyEnv(config *Config) error {
	s := config.Settings
	if v := l.getenv(EnvShell); v != "" {
		s.Shell = v
	}
	if v := l.getenv(EnvLocale); v != "" {
		s.Locale = v
	}
	if v := l.getenv(EnvWebPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWebPort, v, err)
		}
		if s.Web == nil {
			s.Web = DefaultWebConfig()
		}
		s.Web.Port = port
	}
	return nil
}

// Save saves configuration to file
func (l *Loader) Save(config *Config) error {
	dir := filepath.Dir(l.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(l.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetPath returns the config file path
func (l *Loader) GetPath() string {
	return l.configPath
}

// Exists checks if config file exists
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.configPath)
	return err == nil
}

// FindConfigFile searches for config file in standard locations:
// the current directory, the executable's directory, then ~/.coursedesk.
func FindConfigFile() string {
	var dirs []string

	cwd, _ := os.Getwd()
	if cwd != "" {
		dirs = append(dirs, cwd)
	}
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if userDir, err := GetUserConfigDir(); err == nil {
		dirs = append(dirs, userDir)
	}

	if path, ok := findIn(dirs); ok {
		return path
	}

	// Default to current directory
	if cwd != "" {
		return filepath.Join(cwd, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

func findIn(dirs []string) (string, bool) {
	for _, dir := range dirs {
		configPath := filepath.Join(dir, DefaultConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, true
		}
	}
	return "", false
}

// LoadGlobal loads configuration globally
func LoadGlobal(configPath string) error {
	configMutex.Lock()
	defer configMutex.Unlock()

	if configPath == "" {
		configPath = FindConfigFile()
	}

	config, err := NewLoader(configPath).Load()
	if err != nil {
		return err
	}
	if problems := config.Validate(); len(problems) > 0 {
		return fmt.Errorf("invalid config %s: %s", configPath, problems[0])
	}

	globalConfig = config
	globalConfigPath = configPath

	return nil
}

// GetGlobal returns the global configuration
func GetGlobal() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}
	return globalConfig
}

// GetGlobalPath returns the global config file path
func GetGlobalPath() string {
	configMutex.RLock()
	defer configMutex.RUnlock()

	return globalConfigPath
}

// SetGlobal sets the global configuration
func SetGlobal(config *Config, configPath string) {
	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = config
	globalConfigPath = configPath
}
