// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// KV stores opaque text payloads by key in the kv_blob table.
type KV struct {
	db     *sql.DB
	driver string
}

func NewKV(db *sql.DB, driver string) (*KV, error) {
	if err := CheckDriver(driver); err != nil {
		return nil, err
	}
	return &KV{db: db, driver: driver}, nil
}

// Get returns the payload for key; found is false when no row exists.
func (kv *KV) Get(ctx context.Context, key string) (payload []byte, found bool, err error) {
	var text string
	err = kv.db.QueryRowContext(ctx, kv.rebind(`SELECT payload FROM kv_blob WHERE key = ?`), key).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(text), true, nil
}

// Put inserts or replaces the payload for key.
func (kv *KV) Put(ctx context.Context, key string, payload []byte) error {
	_, err := kv.db.ExecContext(ctx, kv.rebind(`
		INSERT INTO kv_blob (key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`), key, string(payload))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (kv *KV) Delete(ctx context.Context, key string) error {
	if _, err := kv.db.ExecContext(ctx, kv.rebind(`DELETE FROM kv_blob WHERE key = ?`), key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres.
func (kv *KV) rebind(query string) string {
	return Rebind(kv.driver, query)
}

// Rebind rewrites ? placeholders in query for driver.
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
