package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and stdin, returning its output
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { globalContext = nil })

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "coursedesk.yaml")
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "coursedesk version 0.3.0")
	assert.Contains(t, out, "Build: ")
}

func TestRoot_RoutesHonorsLocaleFlag(t *testing.T) {
	out, err := execute(t, "", "routes", "--config", missingConfig(t), "--locale", "es")
	require.NoError(t, err)
	assert.Contains(t, out, "Routes (es):")
	assert.Contains(t, out, "Inicio / Resumen de tu actividad")
	assert.Contains(t, out, "top-level")
}

func TestRoot_RejectsBadOverrides(t *testing.T) {
	_, err := execute(t, "", "routes", "--config", missingConfig(t), "--role", "guest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role must be one of")

	_, err = execute(t, "", "routes", "--config", missingConfig(t), "--shell", "tablet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shell must be one of")
}

func TestRoot_ConsoleReadsConfigAndScript(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "coursedesk.log")
	cfgPath := filepath.Join(dir, "coursedesk.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
settings:
  role: instructor
  logger:
    level: debug
    file_path: `+logPath+`
    max_size_mb: 1
`), 0644))

	out, err := execute(t, "tab Reports\nexit\n", "console", "--config", cfgPath)
	require.NoError(t, err)
	assert.NotContains(t, out, "Error:")
	assert.Contains(t, out, "Reports / Last 30 days  [manual, left]")
	assert.Equal(t, cfgPath, GetContext().ConfigPath)

	_, err = os.Stat(logPath)
	assert.NoError(t, err, "the console logs to the configured file")
}
