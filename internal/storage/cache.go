/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	applog "gophotobook/internal/log"
)

const (
	// CacheDirName stores per-workspace ephemeral data under the root.
	CacheDirName  = ".gpb"
	CacheFileName = "cache.sqlite"

	// EnvPreviewsMaxBytes caps the preview cache; LRU rows are evicted
	// past it.
	EnvPreviewsMaxBytes = "GPB_PREVIEWS_MAX_BYTES"

	defaultPreviewsMaxBytes = 256 * 1024 * 1024
)

// CachePath returns the full path to the workspace's embedded cache database.
func CachePath(root string) string {
	return filepath.Join(root, CacheDirName, CacheFileName)
}

// OpenCache opens (creating if needed) the per-workspace SQLite cache,
// enables WAL mode, and ensures the schema exists. Callers close the
// returned handle when done.
func OpenCache(root string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "cache_open").With(
		slog.String("root", root),
	)
	if root == "" {
		return nil, errors.New("workspace root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, CacheDirName), 0o755); err != nil {
		l.Error("create cache dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	uriPath := filepath.ToSlash(CachePath(root))
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureCacheSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure cache schema failed", slog.Any("err", err))
		return nil, err
	}
	return db, nil
}

func ensureCacheSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS previews (
			id           INTEGER PRIMARY KEY,
			page_id      TEXT    NOT NULL,
			w            INTEGER NOT NULL DEFAULT 0,
			h            INTEGER NOT NULL DEFAULT 0,
			blob         BLOB,
			size         INTEGER NOT NULL DEFAULT 0,
			updated_at   TEXT    NOT NULL,
			last_access  TEXT
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_previews_variant ON previews(page_id, w, h);`,
		`CREATE INDEX IF NOT EXISTS idx_previews_access ON previews(last_access);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure cache schema: %w", err)
		}
	}
	return nil
}

// GetPreview returns the cached preview bytes for a page at the given
// raster size and touches its access time. A miss returns nil, nil.
func GetPreview(ctx context.Context, db *sql.DB, pageID string, w, h int) ([]byte, error) {
	var blob []byte
	err := db.QueryRowContext(ctx,
		`SELECT blob FROM previews WHERE page_id=? AND w=? AND h=?`,
		pageID, w, h).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query preview: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, _ = db.ExecContext(ctx,
		`UPDATE previews SET last_access=? WHERE page_id=? AND w=? AND h=?`,
		now, pageID, w, h)
	return blob, nil
}

// PutPreview upserts a preview blob and enforces the cache size cap via LRU
// eviction.
func PutPreview(ctx context.Context, db *sql.DB, pageID string, w, h int, blob []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.ExecContext(ctx, `INSERT INTO previews(page_id,w,h,blob,size,updated_at,last_access)
		VALUES(?,?,?,?,?,?,?)
		ON CONFLICT(page_id,w,h) DO UPDATE SET blob=excluded.blob, size=excluded.size, updated_at=excluded.updated_at, last_access=excluded.last_access`,
		pageID, w, h, blob, len(blob), now, now)
	if err != nil {
		return fmt.Errorf("upsert preview: %w", err)
	}
	if capBytes := MaxPreviewsBytesFromEnv(); capBytes > 0 {
		return EvictPreviewsToFit(ctx, db, capBytes)
	}
	return nil
}

// GetOrCreatePreview fetches a preview or generates and stores it using gen.
func GetOrCreatePreview(ctx context.Context, db *sql.DB, pageID string, w, h int, gen func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := GetPreview(ctx, db, pageID, w, h); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}
	if gen == nil {
		return nil, nil
	}
	data, err := gen(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	if err := PutPreview(ctx, db, pageID, w, h, data); err != nil {
		return nil, err
	}
	return data, nil
}

// DeletePagePreviews drops every cached raster for a page, used when the
// page is deleted or its content invalidated.
func DeletePagePreviews(ctx context.Context, db *sql.DB, pageID string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM previews WHERE page_id=?`, pageID); err != nil {
		return fmt.Errorf("delete page previews: %w", err)
	}
	return nil
}

// EvictPreviewsToFit deletes least-recently-used rows until the tracked
// total size fits under capBytes.
func EvictPreviewsToFit(ctx context.Context, db *sql.DB, capBytes int64) error {
	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size),0) FROM previews`).Scan(&total); err != nil {
		return fmt.Errorf("sum previews size: %w", err)
	}
	if total <= capBytes {
		return nil
	}
	rows, err := db.QueryContext(ctx, `SELECT id, size FROM previews ORDER BY
		CASE WHEN last_access IS NULL THEN 0 ELSE 1 END ASC, last_access ASC`)
	if err != nil {
		return fmt.Errorf("select victims: %w", err)
	}
	toDelete := make([]int64, 0, 32)
	cur := total
	for rows.Next() {
		var id, sz int64
		if err := rows.Scan(&id, &sz); err != nil {
			_ = rows.Close()
			return err
		}
		toDelete = append(toDelete, id)
		cur -= sz
		if cur <= capBytes {
			break
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	// Close the cursor before writing.
	if err := rows.Close(); err != nil {
		return err
	}
	if len(toDelete) == 0 {
		return nil
	}
	q := `DELETE FROM previews WHERE id IN (`
	args := make([]any, len(toDelete))
	for i, v := range toDelete {
		if i > 0 {
			q += ","
		}
		q += "?"
		args[i] = v
	}
	q += ")"
	if _, err := db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("evict delete: %w", err)
	}
	return nil
}

// TotalPreviewBytes returns the total bytes tracked by previews.size.
func TotalPreviewBytes(ctx context.Context, db *sql.DB) (int64, error) {
	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size),0) FROM previews`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// MaxPreviewsBytesFromEnv reads the cache cap, defaulting to 256MB.
func MaxPreviewsBytesFromEnv() int64 {
	v := os.Getenv(EnvPreviewsMaxBytes)
	if v == "" {
		return defaultPreviewsMaxBytes
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return defaultPreviewsMaxBytes
	}
	return n
}
