// Package log builds the process logger for the notes service on top of zap.
// It owns the physical sinks: a colorized console sink and, when the log
// directory is usable, an error-only and an all-levels JSON file sink.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ebogdum/notes-app/config"
)

// TimestampLayout is the layout used by every sink
const TimestampLayout = "2006-01-02 15:04:05"

// SinkInitError reports that the log directory or a file sink could not be
// prepared. It never aborts startup; the manager falls back to console-only.
type SinkInitError struct {
	Path string
	Err  error
}

func (e *SinkInitError) Error() string {
	return fmt.Sprintf("cannot initialize log sink %s: %v", e.Path, e.Err)
}

func (e *SinkInitError) Unwrap() error {
	return e.Err
}

// Manager owns the logger and its sinks
type Manager struct {
	logger   *zap.Logger
	level    zap.AtomicLevel
	dir      string
	sinkErr  error
	files    []*os.File
	buffered []*zapcore.BufferedWriteSyncer
	closeMu  sync.Mutex
	closed   bool
}

type options struct {
	console io.Writer
	warn    io.Writer
}

// Option customizes a Manager
type Option func(*options)

// WithConsole sets the writer behind the console sink (default stdout)
func WithConsole(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// WithWarningOutput sets where sink initialization warnings go (default stderr)
func WithWarningOutput(w io.Writer) Option {
	return func(o *options) { o.warn = w }
}

// ParseLevel converts a configured level name into a zap level.
// Ordering from lowest severity: debug, info, warn, error.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

// ResolveDir picks the log directory: explicit override, else the
// production default, else the development default.
func ResolveDir(cfg config.LogConfig, app config.AppInfoConfig) string {
	if cfg.Dir != "" {
		return cfg.Dir
	}
	if app.IsProduction() {
		return cfg.ProductionDir
	}
	return cfg.DevelopmentDir
}

// New creates the manager. Sink initialization failures are reported on the
// warning output and leave the manager logging to the console only.
func New(cfg config.LogConfig, app config.AppInfoConfig, opts ...Option) *Manager {
	o := options{console: os.Stdout, warn: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		fmt.Fprintf(o.warn, "Invalid log level %q, falling back to info\n", cfg.Level)
	}

	m := &Manager{
		level: zap.NewAtomicLevelAt(lvl),
		dir:   ResolveDir(cfg, app),
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()),
			zapcore.Lock(zapcore.AddSync(o.console)),
			m.level,
		),
	}

	fileCores, err := m.openFileSinks(cfg)
	if err != nil {
		m.sinkErr = err
		fmt.Fprintf(o.warn, "File logging disabled: %v\n", err)
	} else {
		cores = append(cores, fileCores...)
	}

	m.logger = zap.New(zapcore.NewTee(cores...),
		zap.ErrorOutput(zapcore.Lock(zapcore.AddSync(o.warn))),
		zap.Fields(
			zap.String("service", app.Name),
			zap.String("environment", app.Environment),
		),
	)

	return m
}

func (m *Manager) openFileSinks(cfg config.LogConfig) ([]zapcore.Core, error) {
	if m.dir == "" {
		return nil, &SinkInitError{Path: m.dir, Err: fmt.Errorf("no log directory configured")}
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, &SinkInitError{Path: m.dir, Err: err}
	}

	errFile, err := openAppend(filepath.Join(m.dir, cfg.ErrorFile))
	if err != nil {
		return nil, err
	}
	combinedFile, err := openAppend(filepath.Join(m.dir, cfg.CombinedFile))
	if err != nil {
		errFile.Close()
		return nil, err
	}
	m.files = []*os.File{errFile, combinedFile}

	errSync := &zapcore.BufferedWriteSyncer{WS: zapcore.AddSync(errFile), FlushInterval: cfg.FlushInterval}
	combinedSync := &zapcore.BufferedWriteSyncer{WS: zapcore.AddSync(combinedFile), FlushInterval: cfg.FlushInterval}
	m.buffered = []*zapcore.BufferedWriteSyncer{errSync, combinedSync}

	errorsOnly := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.ErrorLevel && m.level.Enabled(l)
	})

	return []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig()), errSync, errorsOnly),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig()), combinedSync, m.level),
	}, nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, &SinkInitError{Path: path, Err: err}
	}
	return f, nil
}

func fileEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(TimestampLayout),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := fileEncoderConfig()
	cfg.EncodeLevel = zapcore.LowercaseColorLevelEncoder
	cfg.ConsoleSeparator = " "
	return cfg
}

// Logger returns the configured zap logger
func (m *Manager) Logger() *zap.Logger {
	return m.logger
}

// Level returns the current minimum level name
func (m *Manager) Level() string {
	return m.level.Level().String()
}

// SetLevel changes the minimum level for every sink
func (m *Manager) SetLevel(name string) error {
	lvl, err := ParseLevel(name)
	if err != nil {
		return err
	}
	m.level.SetLevel(lvl)
	return nil
}

// Dir returns the resolved log directory, whether or not it is usable
func (m *Manager) Dir() string {
	return m.dir
}

// FileSinksEnabled reports whether the JSON file sinks are active
func (m *Manager) FileSinksEnabled() bool {
	return m.sinkErr == nil
}

// SinkErr returns the SinkInitError that disabled file logging, if any
func (m *Manager) SinkErr() error {
	return m.sinkErr
}

// Sync flushes buffered file writes
func (m *Manager) Sync() error {
	var firstErr error
	for _, ws := range m.buffered {
		if err := ws.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close flushes and closes the file sinks. The console sink keeps working.
func (m *Manager) Close() error {
	m.closeMu.Lock()
	defer m.closeMu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true

	var firstErr error
	for _, ws := range m.buffered {
		if err := ws.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, f := range m.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
