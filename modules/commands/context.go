package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"coursedesk/modules/platform/config"
	"coursedesk/modules/platform/logger"
)

// AppContext holds application-wide context
type AppContext struct {
	Config     *config.Config
	ConfigPath string
	Verbose    bool
}

var globalContext *AppContext

// globalFlags are the persistent flags every command accepts
type globalFlags struct {
	configPath string
	verbose    bool
	role       string
	locale     string
	shell      string
}

// InitContext loads the config, applies flag overrides and stores the
// result as the global context
func InitContext(flags *globalFlags) error {
	configPath := flags.configPath
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if flags.role != "" {
		cfg.Settings.Role = strings.ToLower(flags.role)
	}
	if flags.locale != "" {
		cfg.Settings.Locale = flags.locale
	}
	if flags.shell != "" {
		cfg.Settings.Shell = strings.ToLower(flags.shell)
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		return fmt.Errorf("invalid config %s: %s", configPath, strings.Join(problems, "; "))
	}

	config.SetGlobal(cfg, configPath)
	globalContext = &AppContext{
		Config:     cfg,
		ConfigPath: configPath,
		Verbose:    flags.verbose,
	}
	return nil
}

// GetContext returns the global application context
func GetContext() *AppContext {
	if globalContext == nil {
		return &AppContext{Config: config.GetGlobal(), ConfigPath: config.GetGlobalPath()}
	}
	return globalContext
}

// setupLogger opens the log file and installs the global logger. Stderr is
// only added when nothing else owns the terminal.
func (a *AppContext) setupLogger(stderr bool) (*logger.Logger, func(), error) {
	cfg := a.Config.Settings.GetLoggerConfig()

	path := cfg.FilePath
	if path == "" {
		path = config.GetDefaultLogPath()
	}
	file, err := logger.CreateLogFile(path, cfg.MaxSizeMB)
	if err != nil {
		return nil, nil, err
	}

	outputs := []io.Writer{file}
	if stderr && (cfg.Console || a.Verbose) {
		outputs = append(outputs, os.Stderr)
	}

	level := logger.ParseLevel(cfg.Level)
	if a.Verbose {
		level = logger.DEBUG
	}

	l := logger.NewLogger(level, outputs, "coursedesk")
	logger.SetGlobalLogger(l)
	l.Debug("config loaded from %s", a.ConfigPath)

	return l, func() {
		l.Sync()
		file.Close()
	}, nil
}
