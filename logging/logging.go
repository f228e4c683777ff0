// SPDX-License-Identifier: MIT

// Package logging builds the zap logger used by the CLI: a human-readable
// console core on stderr, optionally teed into a plain-text run log that is
// kept alongside the results.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a level name (debug, info, warn, error) onto a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return lvl, fmt.Errorf("logging: unknown level %q", name)
	}

	return lvl, nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = zapcore.OmitKey

	return cfg
}

// NewWriter returns a logger writing console-encoded entries at level to each
// of the writers.
func NewWriter(level string, writers ...io.Writer) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cores := make([]zapcore.Core, 0, len(writers))
	for _, w := range writers {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig()),
			zapcore.AddSync(w),
			lvl,
		))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// New returns a logger writing to console (stderr when nil) and, when logFile
// is set, appending to logFile as well. The returned close func syncs the
// logger and closes the file.
func New(level, logFile string, console io.Writer) (*zap.Logger, func() error, error) {
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{console}
	var f *os.File
	if logFile != "" {
		var err error
		f, err = os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: open %s: %w", logFile, err)
		}
		writers = append(writers, f)
	}
	logger, err := NewWriter(level, writers...)
	if err != nil {
		if f != nil {
			_ = f.Close()
		}
		return nil, nil, err
	}
	closeFn := func() error {
		_ = logger.Sync()
		if f != nil {
			return f.Close()
		}
		return nil
	}

	return logger, closeFn, nil
}
