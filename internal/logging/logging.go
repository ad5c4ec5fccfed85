// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the shared file logger for canopy.
//
// The TUI owns stdout and stderr while it runs, so all diagnostics go to
// ~/.canopy/canopy.log. Components get a prefixed sub-logger via For.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

// =============================================================================
// LOGGER SETUP
// =============================================================================

var (
	mu      sync.Mutex
	root    *log.Logger
	logFile *os.File
)

// Init opens the log file and configures the root logger. Safe to call once
// at startup; later calls replace the previous destination.
func Init(path, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, ".canopy", "canopy.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	root = newLogger(f, parseLevel(level))
	return nil
}

// InitDiscard routes all logging to io.Discard. Test use only.
func InitDiscard() {
	mu.Lock()
	defer mu.Unlock()
	root = newLogger(io.Discard, log.InfoLevel)
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// For returns a logger prefixed with the component name, e.g. "canvas",
// "muse", "storage". Falls back to a discard logger before Init.
func For(component string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		root = newLogger(io.Discard, log.InfoLevel)
	}
	return root.WithPrefix(component)
}

// Close flushes and closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
