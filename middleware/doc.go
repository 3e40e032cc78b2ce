// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides the logger and the wrappers shared by every CLI
command.

# Logger

NewLogger builds a zap production logger (JSON on stderr). Verbose mode
lowers the level to debug:

	logger, err := middleware.NewLogger(cfg.Verbose)

# Command Logging

Wrap a cobra RunE with command logging:

	cmd.RunE = middleware.WithLogging(app.Logger, runList)

Logs command start at debug level (command path, arg count) and completion
(duration_ms), or the error when the command fails. The logger is looked up
when the command runs, after flags have been parsed.

# JSON Helpers

Write machine-readable output:

	middleware.JSONResponse(cmd.OutOrStdout(), roster)

Output is indented and does not escape HTML characters.
*/
package middleware
