// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logger provides the process-wide structured logger.
//
// The TUI owns the terminal, so logs go to a file. Until Init is called a
// no-op logger is installed, which keeps packages and tests free to log.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats accepted by Init.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var (
	mu    sync.RWMutex
	sugar = zap.NewNop().Sugar()
)

// Options configures Init.
type Options struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string

	// Format is FormatJSON or FormatConsole.
	Format string

	// Path is the log file. Empty disables file output.
	Path string

	// Stderr mirrors output to stderr (used by the backend server).
	Stderr bool
}

// Init builds the global logger from opts.
func Init(opts Options) error {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	var cfg zap.Config
	if opts.Format == FormatConsole {
		cfg = zap.NewDevelopmentConfig()
		cfg.Encoding = FormatConsole
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = FormatJSON
		cfg.Sampling = nil
	}
	cfg.Level = level
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg.OutputPaths = nil
	cfg.ErrorOutputPaths = nil
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		cfg.OutputPaths = append(cfg.OutputPaths, opts.Path)
		cfg.ErrorOutputPaths = append(cfg.ErrorOutputPaths, opts.Path)
	}
	if opts.Stderr {
		cfg.OutputPaths = append(cfg.OutputPaths, "stderr")
		cfg.ErrorOutputPaths = append(cfg.ErrorOutputPaths, "stderr")
	}
	if len(cfg.OutputPaths) == 0 {
		SetLogger(zap.NewNop())
		return nil
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	SetLogger(l)
	return nil
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = l.Sugar()
}

// L returns the current sugared logger.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debugw logs at debug level with key/value pairs.
func Debugw(msg string, keysAndValues ...interface{}) {
	L().Debugw(msg, keysAndValues...)
}

// Infow logs at info level with key/value pairs.
func Infow(msg string, keysAndValues ...interface{}) {
	L().Infow(msg, keysAndValues...)
}

// Warnw logs at warn level with key/value pairs.
func Warnw(msg string, keysAndValues ...interface{}) {
	L().Warnw(msg, keysAndValues...)
}

// Errorw logs at error level with key/value pairs.
func Errorw(msg string, keysAndValues ...interface{}) {
	L().Errorw(msg, keysAndValues...)
}

// Error logs msg with err attached.
func Error(msg string, err error) {
	L().Errorw(msg, "error", err)
}

// Sync flushes buffered entries. Call before exit.
func Sync() {
	_ = L().Sync()
}
