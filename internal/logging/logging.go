// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the structured logger shared by aurora packages.
//
// The terminal belongs to the UI, so log output goes to a file under the
// data directory unless a path of "stderr" or "stdout" is configured.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	// Debug switches to zap's development encoder and debug level.
	Debug bool

	// Level is the minimum level ("debug", "info", "warn", "error").
	// Ignored when Debug is set.
	Level string

	// Path is the log file. "stderr"/"stdout" write to the terminal,
	// empty discards all output.
	Path string
}

var (
	globalMu sync.RWMutex
	global   = zap.NewNop()
)

// New builds a logger from options.
func New(opts Options) (*zap.Logger, error) {
	if opts.Path == "" {
		return zap.NewNop(), nil
	}

	var cfg zap.Config
	if opts.Debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		level := zapcore.InfoLevel
		if opts.Level != "" {
			if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
				return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
			}
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	switch opts.Path {
	case "stderr", "stdout":
	default:
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	cfg.OutputPaths = []string{opts.Path}
	cfg.ErrorOutputPaths = []string{opts.Path}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// L returns the process-wide logger. It is a no-op logger until SetGlobal is called.
func L() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// SetGlobal replaces the process-wide logger.
func SetGlobal(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	globalMu.Lock()
	global = logger
	globalMu.Unlock()
}

// Named returns a child of the global logger tagged with a component name.
func Named(component string) *zap.Logger {
	return L().Named(component)
}
