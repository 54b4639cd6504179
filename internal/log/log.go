package log

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity of a log message
type Level int

const (
	// LevelDebug is for verbose debugging information
	LevelDebug Level = iota
	// LevelInfo is for important operational events
	LevelInfo
	// LevelWarn is for warnings that don't prevent operation
	LevelWarn
	// LevelError is for errors that may affect functionality
	LevelError
)

const name = "PRUNE"

var (
	mu       sync.Mutex
	minLevel = LevelInfo
	atom     = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger   = build(os.Stderr)
)

func (l Level) zap() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// build assembles the sugared logger writing to w. A nil writer
// disables output entirely.
func build(w io.Writer) *zap.SugaredLogger {
	if w == nil {
		return zap.New(zapcore.NewNopCore()).Sugar()
	}
	ec := zapcore.EncoderConfig{
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       func(n string, enc zapcore.PrimitiveArrayEncoder) { enc.AppendString("[" + n + "]") },
		ConsoleSeparator: " ",
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.AddSync(w), atom)
	return zap.New(core).Named(name).Sugar()
}

// SetOutput sets the output destination (primarily for testing)
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = build(w)
}

// SetLevel sets the minimum log level to display
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
	atom.SetLevel(level.zap())
}

// GetLevel returns the current minimum log level
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return minLevel
}

// Debug logs a debug message (verbose debugging information)
func Debug(format string, args ...any) {
	current().Debugf(format, args...)
}

// Info logs an info message (important operational events)
func Info(format string, args ...any) {
	current().Infof(format, args...)
}

// Warn logs a warning message (warnings that don't prevent operation)
func Warn(format string, args ...any) {
	current().Warnf(format, args...)
}

// Error logs an error message (errors that may affect functionality)
func Error(format string, args ...any) {
	current().Errorf(format, args...)
}

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = current().Sync()
}

func current() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}
