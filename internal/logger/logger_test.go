package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	// Reinitialize logger with test output
	logger = nil
	InitLogger(level)

	fn()

	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:  "info log",
			level: "info",
			logFn: func() {
				Info("test info message")
			},
			contains: []string{"test info message"},
		},
		{
			name:  "infof formats arguments",
			level: "info",
			logFn: func() {
				Infof("processed %d items", 7)
			},
			contains: []string{"processed 7 items"},
		},
		{
			name:  "debug log with debug level",
			level: "debug",
			logFn: func() {
				Debug("test debug message")
			},
			contains: []string{"test debug message", "level=DEBUG"},
		},
		{
			name:  "debug log with info level",
			level: "info",
			logFn: func() {
				Debug("test debug message")
			},
			excludes: []string{"test debug message"},
		},
		{
			name:  "warn log with fields",
			level: "warn",
			logFn: func() {
				Warn("test warning", Fields{"key1": "value1", "key2": 42})
			},
			contains: []string{"test warning", "level=WARN", "key1=value1", "key2=42"},
		},
		{
			name:  "error log",
			level: "error",
			logFn: func() {
				Errorf("fetch failed: %s", "boom")
			},
			contains: []string{"fetch failed: boom", "level=ERROR"},
		},
		{
			name:  "success log",
			level: "info",
			logFn: func() {
				Successf("mirrored %d assets", 3)
			},
			contains: []string{"SUCCESS: mirrored 3 assets"},
		},
		{
			name:  "unknown level falls back to info",
			level: "bogus",
			logFn: func() {
				Info("still visible")
			},
			contains: []string{"still visible"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, tt.level, tt.logFn)
			for _, want := range tt.contains {
				assert.True(t, strings.Contains(output, want), "output %q should contain %q", output, want)
			}
			for _, unwanted := range tt.excludes {
				assert.False(t, strings.Contains(output, unwanted), "output %q should not contain %q", output, unwanted)
			}
		})
	}
}
