// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunFunc is the signature of a cobra RunE.
type RunFunc func(cmd *cobra.Command, args []string) error

// NewLogger builds the production JSON logger on stderr, at debug level when
// verbose.
func NewLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// WithLogging wraps a command with start and completion logging
func WithLogging(logger func() *zap.Logger, next RunFunc) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		log := logger()
		if log == nil {
			log = zap.NewNop()
		}

		// Log start
		log.Debug("command started",
			zap.String("command", cmd.CommandPath()),
			zap.Int("args", len(args)),
		)

		// Call the next handler
		err := next(cmd, args)

		// Log completion
		duration := time.Since(start)
		if err != nil {
			log.Error("command failed",
				zap.String("command", cmd.CommandPath()),
				zap.Int64("duration_ms", duration.Milliseconds()),
				zap.Error(err),
			)
			return err
		}
		log.Info("command completed",
			zap.String("command", cmd.CommandPath()),
			zap.Int64("duration_ms", duration.Milliseconds()),
		)
		return nil
	}
}

// JSONResponse writes v as indented JSON followed by a newline
func JSONResponse(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
