package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel defines the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// Logger is the service-wide logger. It exposes printf-style methods
// (Info, Warn, ...) and key/value methods (Infow, Warnw, ...).
type Logger struct {
	sugar *zap.SugaredLogger
	level LogLevel
}

// ParseLevel converts a textual level ("debug", "info", ...) to a LogLevel.
// Unknown values fall back to INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	case FATAL:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// String returns the upper-case level name
func (l LogLevel) String() string {
	names := []string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}
	if l < DEBUG || l > FATAL {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return names[l]
}

// New creates a console logger writing to stdout with the given level
func New(level LogLevel) *Logger {
	return newLogger(level, false)
}

// NewProduction creates a JSON logger, suitable for log shipping
func NewProduction(level LogLevel) *Logger {
	return newLogger(level, true)
}

func newLogger(level LogLevel, jsonOutput bool) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if jsonOutput {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.NewAtomicLevelAt(level.zapLevel()))
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &Logger{sugar: base.Sugar(), level: level}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar(), level: FATAL}
}

// Level returns the configured minimum level
func (l *Logger) Level() LogLevel {
	return l.level
}

// With returns a child logger carrying the given key/value pairs
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...), level: l.level}
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.sugar.Fatalf(format, v...)
}

func (l *Logger) Debugw(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Fatalw logs and exits the process
func (l *Logger) Fatalw(msg string, keysAndValues ...interface{}) {
	l.sugar.Fatalw(msg, keysAndValues...)
}
