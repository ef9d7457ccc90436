package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Logger wraps a zap logger behind the printf-style interface the rest of the
// codebase uses.
type Logger struct {
	*zap.Logger
}

var (
	globalLogger *Logger
	loggerMutex  sync.RWMutex

	// GlobalLogLevel is consulted once, when the global logger is first built.
	GlobalLogLevel = "info"
)

func newLogger(level zapcore.Level) *Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig = encoderCfg
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}
	return &Logger{Logger: l}
}

// Get returns the process-wide logger, building it on first use.
func Get() *Logger {
	loggerMutex.RLock()
	l := globalLogger
	loggerMutex.RUnlock()
	if l != nil {
		return l
	}

	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	if globalLogger == nil {
		globalLogger = newLogger(getZapLevel(GlobalLogLevel))
	}
	return globalLogger
}

// SetVerbose rebuilds the global logger at debug level.
func SetVerbose(verbose bool) {
	level := getZapLevel(GlobalLogLevel)
	if verbose {
		level = zapcore.DebugLevel
	}
	loggerMutex.Lock()
	globalLogger = newLogger(level)
	loggerMutex.Unlock()
}

// SetGlobalLogger replaces the process-wide logger. Used by tests.
func SetGlobalLogger(l *Logger) {
	loggerMutex.Lock()
	globalLogger = l
	loggerMutex.Unlock()
}

// NewTestLogger returns a logger routing through the test's output.
func NewTestLogger(tb zaptest.TestingT) *Logger {
	return &Logger{Logger: zaptest.NewLogger(tb)}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func getZapLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
