// Package sqlite stores scan records in a SQLite database using the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ironsheep/a11y-scan-mcp/internal/logging"
	"github.com/ironsheep/a11y-scan-mcp/internal/scan"
)

const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	record TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans(created_at);
`

// Store is a Status Sink backed by one SQLite file. Each Set runs in its own
// transaction.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path, creating parent directories as needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("path", path))
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open database", goerr.V("path", path))
	}

	// One connection serializes writers, which SQLite needs anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to enable WAL mode", goerr.V("path", path))
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to create tables", goerr.V("path", path))
	}

	logging.From(ctx).Debug("scan database opened", "path", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Set(ctx context.Context, id string, u scan.Update) (_ *scan.Scan, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to begin transaction", goerr.V("scan_id", id))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	existing, err := load(ctx, tx.QueryRowContext(ctx, `SELECT record FROM scans WHERE id = ?`, id))
	if err != nil && !errors.Is(err, scan.ErrNotFound) {
		return nil, goerr.Wrap(err, "failed to load scan", goerr.V("scan_id", id))
	}

	next, err := scan.Merge(existing, id, u, logging.CtxTime(ctx))
	if err != nil {
		return nil, err
	}

	record, err := json.Marshal(next)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode scan", goerr.V("scan_id", id))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scans (id, url, status, created_at, updated_at, record)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at,
			record = excluded.record`,
		next.ID, next.URL, string(next.Status),
		next.CreatedAt.UnixNano(), next.UpdatedAt.UnixNano(), string(record),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save scan", goerr.V("scan_id", id))
	}

	if err = tx.Commit(); err != nil {
		return nil, goerr.Wrap(err, "failed to commit scan", goerr.V("scan_id", id))
	}
	return next, nil
}

func (s *Store) Get(ctx context.Context, id string) (*scan.Scan, error) {
	found, err := load(ctx, s.db.QueryRowContext(ctx, `SELECT record FROM scans WHERE id = ?`, id))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get scan", goerr.V("scan_id", id))
	}
	return found, nil
}

func (s *Store) List(ctx context.Context) ([]*scan.Scan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM scans ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list scans")
	}
	defer rows.Close()

	out := []*scan.Scan{}
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, goerr.Wrap(err, "failed to read scan row")
		}
		var s scan.Scan
		if err := json.Unmarshal([]byte(record), &s); err != nil {
			return nil, goerr.Wrap(err, "failed to decode scan")
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate scans")
	}
	return out, nil
}

func load(_ context.Context, row *sql.Row) (*scan.Scan, error) {
	var record string
	if err := row.Scan(&record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, scan.ErrNotFound
		}
		return nil, err
	}

	var s scan.Scan
	if err := json.Unmarshal([]byte(record), &s); err != nil {
		return nil, goerr.Wrap(err, "failed to decode scan")
	}
	return &s, nil
}
