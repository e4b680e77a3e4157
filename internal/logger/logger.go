// Package logger builds the dual-sink logger used by both command-line tools:
// a console sink whose level follows the verbose flag and a size-rotated file
// sink that always records DEBUG and above.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultName is the logger name stamped on every entry
const DefaultName = "crypto_fetcher"

// Options configures a Logger
type Options struct {
	Name       string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	// Console receives the console sink output. Defaults to os.Stderr.
	Console io.Writer
	Verbose bool
}

// Logger wraps a zap logger together with the handles needed to adjust the
// console level and close the rotating file.
type Logger struct {
	*zap.Logger
	key     string
	console zap.AtomicLevel
	file    *lumberjack.Logger
}

var (
	mu       sync.Mutex
	registry = map[string]*Logger{}
)

// Setup returns the Logger for opts.FilePath, creating it on first use.
// Later calls for the same file reuse the existing sinks; Verbose on a later
// call still raises the console level.
func Setup(opts Options) (*Logger, error) {
	key, err := filepath.Abs(opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("resolving log file path: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if l, ok := registry[key]; ok {
		if opts.Verbose {
			l.SetVerbose(true)
		}
		return l, nil
	}

	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	l.key = key
	registry[key] = l
	return l, nil
}

// New creates a Logger without registering it
func New(opts Options) (*Logger, error) {
	if opts.FilePath == "" {
		return nil, fmt.Errorf("log file path is required")
	}
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Console == nil {
		opts.Console = os.Stderr
	}

	if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    opts.MaxSizeMB, // MB
		MaxBackups: opts.MaxBackups,
	}

	consoleLevel := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Verbose {
		consoleLevel.SetLevel(zapcore.DebugLevel)
	}

	encoder := zapcore.NewConsoleEncoder(encoderConfig())
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(opts.Console)), consoleLevel),
		zapcore.NewCore(encoder.Clone(), zapcore.AddSync(lj), zapcore.DebugLevel),
	)

	return &Logger{
		Logger:  zap.New(core).Named(opts.Name),
		console: consoleLevel,
		file:    lj,
	}, nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
}

// SetVerbose switches the console sink between INFO and DEBUG.
// The file sink is unaffected.
func (l *Logger) SetVerbose(verbose bool) {
	if verbose {
		l.console.SetLevel(zapcore.DebugLevel)
		return
	}
	l.console.SetLevel(zapcore.InfoLevel)
}

// Verbose reports whether the console sink currently shows DEBUG entries
func (l *Logger) Verbose() bool {
	return l.console.Enabled(zapcore.DebugLevel)
}

// Close flushes buffered entries, closes the log file and drops the Logger
// from the Setup registry.
func (l *Logger) Close() error {
	_ = l.Sync()

	mu.Lock()
	if l.key != "" && registry[l.key] == l {
		delete(registry, l.key)
	}
	mu.Unlock()

	return l.file.Close()
}
