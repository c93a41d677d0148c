// Package snapshot persists point-in-time copies of the in-memory site
// store to SQLite. It is not a transaction log: each save replaces the
// previous snapshot wholesale.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/campus-atlas/internal/model"
)

// Store reads and writes snapshots through modernc.org/sqlite.
type Store struct {
	db *sql.DB
}

// New opens a SQLite database at the given path and configures WAL mode.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "snapshot: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "snapshot: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS site_analyses (
	id       TEXT PRIMARY KEY,
	address  TEXT NOT NULL UNIQUE,
	lat      REAL NOT NULL,
	lng      REAL NOT NULL,
	areas    TEXT NOT NULL,
	notes    TEXT NOT NULL DEFAULT '',
	saved_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_site_analyses_address ON site_analyses(address);
`

// Migrate creates the snapshot schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "snapshot: migrate")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored snapshot with the given analyses atomically.
func (s *Store) Save(ctx context.Context, analyses []model.SiteAnalysis) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "snapshot: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM site_analyses`); err != nil {
		return eris.Wrap(err, "snapshot: clear previous")
	}

	now := time.Now().UTC()
	for i := range analyses {
		a := &analyses[i]
		areasJSON, err := json.Marshal(a.Areas)
		if err != nil {
			return eris.Wrapf(err, "snapshot: marshal areas for %s", a.Address)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO site_analyses (id, address, lat, lng, areas, notes, saved_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), a.Address, a.Lat, a.Lng, string(areasJSON), a.Notes, now,
		)
		if err != nil {
			return eris.Wrapf(err, "snapshot: insert %s", a.Address)
		}
	}

	return eris.Wrap(tx.Commit(), "snapshot: commit")
}

// Load rebuilds every saved analysis. Cached totals are not stored; the
// site store recomputes them on restore.
func (s *Store) Load(ctx context.Context) ([]model.SiteAnalysis, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT address, lat, lng, areas, notes FROM site_analyses ORDER BY address`)
	if err != nil {
		return nil, eris.Wrap(err, "snapshot: query")
	}
	defer rows.Close() //nolint:errcheck

	var analyses []model.SiteAnalysis
	for rows.Next() {
		var a model.SiteAnalysis
		var areasJSON string
		if err := rows.Scan(&a.Address, &a.Lat, &a.Lng, &areasJSON, &a.Notes); err != nil {
			return nil, eris.Wrap(err, "snapshot: scan row")
		}
		if err := json.Unmarshal([]byte(areasJSON), &a.Areas); err != nil {
			return nil, eris.Wrapf(err, "snapshot: unmarshal areas for %s", a.Address)
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "snapshot: iterate rows")
	}
	return analyses, nil
}
