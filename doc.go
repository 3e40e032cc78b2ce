// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the flowhub command line.

flowhub is an HR event toolkit: keep a roster of participants, run a lucky
draw with an animated spin, and split the roster into randomly composed teams
with generated names, exported as CSV.

# Running

The roster lives in a SQLite file by default:

	go run . import staff.csv
	go run . list
	go run . draw --count 3
	go run . group --size 4 --theme "Space exploration"

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run . list

# Configuration

Optional settings:

  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): connection string or file (default: flowhub.db)
  - GEMINI_API_KEY: enables generated group names
  - FLOWHUB_LOCALE (--locale): zh-TW or en-US (default: zh-TW)
  - FLOWHUB_SEED (--seed): reproducible draws and groupings

See package cliparse for the full list.

# Architecture

  - commands: cobra command tree and per-invocation wiring
  - session: roster ownership, connects engines and store
  - raffle: lucky draw engine with spin animation
  - grouping: team partitioning with label fallback
  - roster: import parsing, ids, duplicate detection
  - labels: Gemini label generator
  - export: CSV formatting and file/S3 sinks
  - locale: message catalogs
  - db: schema and key-value persistence
  - middleware: logger and command logging
  - clock, shuffle: injectable time and randomness
  - models: shared domain types
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
