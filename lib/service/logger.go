// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LoggerOptions selects the daemon log output.
type LoggerOptions struct {
	// Level is debug, info, warn, or error. Empty means info.
	Level string

	// Format is json or text. Empty means json.
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// NewLogger builds the daemon logger and installs it as the slog
// default, so library code logging through slog.Default lands in the
// same stream.
func NewLogger(options LoggerOptions) (*slog.Logger, error) {
	var level slog.Level
	if options.Level != "" {
		if err := level.UnmarshalText([]byte(options.Level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", options.Level, err)
		}
	}

	output := options.Output
	if output == nil {
		output = os.Stderr
	}

	handlerOptions := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(options.Format) {
	case "", "json":
		handler = slog.NewJSONHandler(output, handlerOptions)
	case "text":
		handler = slog.NewTextHandler(output, handlerOptions)
	default:
		return nil, fmt.Errorf("log format %q: want json or text", options.Format)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
