package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.level.String() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.level.String())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{" error ", LevelError},
		{"unknown", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func testConfig(level Level) *Config {
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Colored = false
	return cfg
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	l := newWithConsole(testConfig(LevelInfo), &buf)

	l.Debug("hidden %d", 1)
	l.Info("loaded %d records", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered at info level: %q", out)
	}
	if !strings.Contains(out, "loaded 3 records") {
		t.Errorf("expected info message, got %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newWithConsole(testConfig(LevelDebug), &buf).WithComponent("store")

	l.Warn("slow query")

	out := buf.String()
	if !strings.Contains(out, "component=store") {
		t.Errorf("expected component field, got %q", out)
	}
	if !strings.Contains(out, "slow query") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	l := newWithConsole(testConfig(LevelDebug), &buf).WithField("select", "status")

	l.Debug("opened")

	if !strings.Contains(buf.String(), "select=status") {
		t.Errorf("expected field, got %q", buf.String())
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "oficina.log")
	cfg := testConfig(LevelInfo)
	cfg.FilePath = path

	var console bytes.Buffer
	l := newWithConsole(cfg, &console)
	l.Error("disk full")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"disk full"`) {
		t.Errorf("expected JSON record in file, got %q", data)
	}
}

func TestDisableConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := Global()
	SetGlobal(newWithConsole(testConfig(LevelInfo), &buf))
	defer SetGlobal(prev)

	DisableConsoleOutput()
	Info("while ui runs")

	if buf.Len() != 0 {
		t.Errorf("expected no console output, got %q", buf.String())
	}
}

func TestTimed(t *testing.T) {
	var buf bytes.Buffer
	l := newWithConsole(testConfig(LevelDebug), &buf)

	want := errors.New("boom")
	if err := l.Timed("import", func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected wrapped error to pass through, got %v", err)
	}
	if !strings.Contains(buf.String(), "op=import") {
		t.Errorf("expected op field, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.Level() != LevelError {
		t.Errorf("expected error level, got %s", l.Level())
	}
	l.Error("dropped")
	if err := l.Close(); err != nil {
		t.Errorf("expected no file to close, got %v", err)
	}
}
