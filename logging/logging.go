// Package logging contains the zap-backed loggers used by queries and tools.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/natefinch/lumberjack.v2"
)

func newEncoderConfig(levelEncoder zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    levelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// NewLogger returns a new logger that outputs Info+ logs to stdout.
func NewLogger(name string) Logger {
	return newStdoutLogger(name, INFO)
}

// NewDebugLogger returns a new logger that outputs Debug+ logs to stdout.
func NewDebugLogger(name string) Logger {
	return newStdoutLogger(name, DEBUG)
}

func newStdoutLogger(name string, level Level) Logger {
	atomic := zap.NewAtomicLevelAt(level.AsZap())
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(newEncoderConfig(zapcore.CapitalColorLevelEncoder)),
		zapcore.Lock(zapcore.AddSync(stdout())),
		atomic,
	)
	return newImpl(zap.New(core, zap.AddCaller()).Named(name), atomic)
}

// FileConfig describes a rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewFileLogger returns a logger that writes JSON lines at the given level to a rotating file.
func NewFileLogger(name string, level Level, cfg FileConfig) Logger {
	writer := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	atomic := zap.NewAtomicLevelAt(level.AsZap())
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(newEncoderConfig(zapcore.LowercaseLevelEncoder)),
		zapcore.AddSync(writer),
		atomic,
	)
	return newImpl(zap.New(core, zap.AddCaller()).Named(name), atomic)
}

// NewBlankLogger returns a new logger that discards everything.
func NewBlankLogger(name string) Logger {
	atomic := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	return newImpl(zap.NewNop().Named(name), atomic)
}

// NewTestLogger returns a new logger that outputs Debug+ logs through the test's Log method.
func NewTestLogger(tb testing.TB) Logger {
	atomic := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	return newImpl(zaptest.NewLogger(tb, zaptest.Level(atomic)), atomic)
}

// NewObservedTestLogger is like NewTestLogger but also saves logs to an in memory observer.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	atomic := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	observerCore, observedLogs := observer.New(atomic)
	testLogger := zaptest.NewLogger(tb, zaptest.Level(atomic))
	logger := testLogger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, observerCore)
	}))
	return newImpl(logger, atomic), observedLogs
}
