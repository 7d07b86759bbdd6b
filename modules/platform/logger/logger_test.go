package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARN,
		"error":   ERROR,
		"bogus":   INFO,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WARN, []io.Writer{&buf}, "test")

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)
	l.Error("plain")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "plain")

	l.SetLevel(DEBUG)
	assert.Equal(t, DEBUG, l.GetLevel())
	l.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestLogger_FansOutAndNamesComponents(t *testing.T) {
	var a, b bytes.Buffer
	l := NewLogger(INFO, []io.Writer{&a, &b}, "coursedesk")

	l.Zap("header").Info("write accepted", zap.String("title", "Reports"))

	for _, out := range []string{a.String(), b.String()} {
		assert.Contains(t, out, "coursedesk.header")
		assert.Contains(t, out, `"title": "Reports"`)
	}
}

func TestCreateLogFile_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "coursedesk.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 1024*1024+1)), 0644))

	f, err := CreateLogFile(path, 1)
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	rotated, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.Len(t, rotated, 1)
}

func TestGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalLogger(NewLogger(INFO, []io.Writer{&buf}, "global"))
	defer SetGlobalLogger(nil)

	Info("hello %s", "world")
	assert.Contains(t, buf.String(), "hello world")
}
