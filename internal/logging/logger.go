// Package logging provides the console's structured logger. Records go to a
// rotated log file and, unless the terminal UI owns the screen, to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of a log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel converts a string to a Level. Unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Config configures the logger behavior.
type Config struct {
	Level      Level  // Minimum level to log
	FilePath   string // Optional file path for persistent logs
	MaxSizeMB  int    // Rotate the file after this many megabytes
	MaxBackups int    // Rotated files to keep
	Colored    bool   // Colored console output
	ShowCaller bool   // Add file:line of caller
	Component  string // Component name field
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:      LevelInfo,
		MaxSizeMB:  10,
		MaxBackups: 3,
		Colored:    true,
	}
}

// VerboseConfig returns a configuration for troubleshooting.
func VerboseConfig() *Config {
	cfg := DefaultConfig()
	cfg.Level = LevelDebug
	cfg.ShowCaller = true
	return cfg
}

// switchWriter lets the console sink be silenced while the UI runs.
type switchWriter struct {
	mu  sync.RWMutex
	out io.Writer
}

func (w *switchWriter) Write(p []byte) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.out.Write(p)
}

func (w *switchWriter) set(out io.Writer) {
	w.mu.Lock()
	w.out = out
	w.mu.Unlock()
}

// Logger is a leveled logger backed by zerolog.
type Logger struct {
	zl      zerolog.Logger
	level   Level
	console *switchWriter
	file    *lumberjack.Logger
}

// New creates a Logger. A nil cfg uses DefaultConfig.
func New(cfg *Config) *Logger {
	return newWithConsole(cfg, os.Stderr)
}

func newWithConsole(cfg *Config, out io.Writer) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	console := &switchWriter{out: zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !cfg.Colored,
		TimeFormat: "15:04:05.000",
	}}

	writers := []io.Writer{console}
	var file *lumberjack.Logger
	if cfg.FilePath != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		writers = append(writers, file)
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(cfg.Level.zerolog()).
		With().Timestamp()
	if cfg.Component != "" {
		ctx = ctx.Str("component", cfg.Component)
	}
	if cfg.ShowCaller {
		ctx = ctx.CallerWithSkipFrameCount(3)
	}

	return &Logger{
		zl:      ctx.Logger(),
		level:   cfg.Level,
		console: console,
		file:    file,
	}
}

// Discard returns a logger that writes nowhere.
func Discard() *Logger {
	return newWithConsole(&Config{Level: LevelError}, io.Discard)
}

var (
	globalLogger *Logger
	globalMu     sync.RWMutex
)

func init() {
	globalLogger = New(DefaultConfig())
}

// SetGlobal sets the global logger instance.
func SetGlobal(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Global returns the global logger instance.
func Global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// DisableConsoleOutput stops console output, logging only to file.
// Call it before the terminal UI takes over the screen.
func DisableConsoleOutput() {
	Global().console.set(io.Discard)
}

// EnableConsoleOutput re-enables console output on stderr.
func EnableConsoleOutput() {
	Global().console.set(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"})
}

// Level returns the minimum level the logger emits.
func (l *Logger) Level() Level { return l.level }

// Zerolog exposes the underlying logger for structured events.
func (l *Logger) Zerolog() *zerolog.Logger { return &l.zl }

// WithComponent returns a child logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	child := *l
	child.zl = l.zl.With().Str("component", name).Logger()
	return &child
}

// WithField returns a child logger with an additional field.
func (l *Logger) WithField(key string, value any) *Logger {
	child := *l
	child.zl = l.zl.With().Interface(key, value).Logger()
	return &child
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

func (l *Logger) Debug(format string, args ...any) { l.zl.Debug().Msgf(format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.zl.Info().Msgf(format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.zl.Warn().Msgf(format, args...) }
func (l *Logger) Error(format string, args ...any) { l.zl.Error().Msgf(format, args...) }

// Timed logs how long fn took at debug level and returns its error.
func (l *Logger) Timed(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	ev := l.zl.Debug()
	if err != nil {
		ev = l.zl.Warn().Err(err)
	}
	ev.Str("op", op).Dur("took", time.Since(start)).Msg("operation finished")
	return err
}

// Package-level helpers log through the global logger.

func Debug(format string, args ...any) { Global().Debug(format, args...) }
func Info(format string, args ...any)  { Global().Info(format, args...) }
func Warn(format string, args ...any)  { Global().Warn(format, args...) }
func Error(format string, args ...any) { Global().Error(format, args...) }
