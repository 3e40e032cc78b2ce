// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Commands that own their flag set call RegisterFlags once and FromFlags after
parsing.

# Config Fields

  - DatabaseType: sqlite or postgres (default: sqlite)
  - DatabaseURL: connection string or SQLite path (default: flowhub.db)
  - GeminiAPIKey: enables generated group labels (env only)
  - GeminiModel: model override for labels
  - LabelTimeout: wait for labels before using placeholders (default: 10s)
  - Locale: message language (default: zh-TW)
  - GroupSize, Theme: grouping defaults (default size: 4)
  - Seed: fixed random seed, 0 picks one
  - ExportDir, ExportBucket and friends: where CSV exports go

# CLI Flags

	-t, --db-type        Database type
	-d, --db             Database URL
	--locale             Message locale
	--gemini-model       Gemini model
	--label-timeout      Label wait
	--seed               Random seed
	--export-dir         Export directory
	-v, --verbose        Debug logging
	--env-file           Dotenv file (default .env)

# Environment Variables

Flags fall back to environment variables:

	DATABASE_TYPE     → -t
	DATABASE_URL      → -d
	FLOWHUB_LOCALE    → --locale
	GEMINI_MODEL      → --gemini-model
	LABEL_TIMEOUT     → --label-timeout
	FLOWHUB_SEED      → --seed
	EXPORT_DIR        → --export-dir
	FLOWHUB_VERBOSE   → -v

GEMINI_API_KEY, GROUP_SIZE, GROUP_THEME and the EXPORT_S3_* variables are
environment only. Variables may also come from the dotenv file; the real
environment wins over it.

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_TYPE is not sqlite or postgres
  - GROUP_SIZE is below 1
  - LABEL_TIMEOUT is not positive
*/
package cliparse
