// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and persists application state.

# Connecting

Open validates the database type, connects, pings and creates the schema:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

Supported types are "sqlite" (pure Go, no cgo) and "postgres". For SQLite
the DSN is a file path; missing parent directories are created.

# Schema

A single table holds JSON payloads by key:

	kv_blob(key TEXT PRIMARY KEY, payload TEXT NOT NULL, updated_at TIMESTAMP)

CreateSchema is safe to call multiple times - it uses IF NOT EXISTS.

# Stores

KV provides Get, Put (upsert) and Delete with placeholders rewritten for the
driver. RosterStore keeps the participant roster under "hr_participants":

	store := db.NewRosterStore(kv)
	roster, found, err := store.Load(ctx)
*/
package db
