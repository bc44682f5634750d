package artifact

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// StatusIndex is a small SQLite mirror of every chapter's manifest,
// queried by the CLI's `status` command without opening every chapter's
// manifest.json individually. It is a
// read-optimized cache: the manifest.json files remain the source of
// truth, and the index is rebuilt-on-write via Upsert every time
// Store.SaveManifest runs.
type StatusIndex struct {
	db *sql.DB
}

// OpenStatusIndex opens (creating if needed) the SQLite database at path.
func OpenStatusIndex(path string) (*StatusIndex, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS chapter_status (
	chapter_id TEXT NOT NULL,
	stage      TEXT NOT NULL,
	status     TEXT NOT NULL,
	fingerprint TEXT,
	updated_at  TIMESTAMP,
	error       TEXT,
	PRIMARY KEY (chapter_id, stage)
);
CREATE INDEX IF NOT EXISTS idx_chapter_status_status ON chapter_status(status);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &StatusIndex{db: db}, nil
}

// Close closes the underlying database handle.
func (s *StatusIndex) Close() error { return s.db.Close() }

// Upsert mirrors every stage record of m into the index.
func (s *StatusIndex) Upsert(m *Manifest) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
INSERT INTO chapter_status (chapter_id, stage, status, fingerprint, updated_at, error)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(chapter_id, stage) DO UPDATE SET
	status=excluded.status, fingerprint=excluded.fingerprint,
	updated_at=excluded.updated_at, error=excluded.error`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range m.Stages {
		ts := r.CompletedAt
		if ts.IsZero() {
			ts = r.StartedAt
		}
		if _, err := stmt.Exec(m.ChapterID, string(r.Stage), string(r.Status), r.Fingerprint, ts, r.Error); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ChapterSummary is one row of the cross-chapter status listing.
type ChapterSummary struct {
	ChapterID string
	Stage     Stage
	Status    RunStatus
	UpdatedAt time.Time
}

// ListByStatus returns every (chapter, stage) pair currently in the given
// status, ordered by chapter ID for deterministic CLI output.
func (s *StatusIndex) ListByStatus(status RunStatus) ([]ChapterSummary, error) {
	rows, err := s.db.Query(`SELECT chapter_id, stage, status, updated_at FROM chapter_status WHERE status = ? ORDER BY chapter_id, stage`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChapterSummary
	for rows.Next() {
		var cs ChapterSummary
		var stage, stat string
		var updatedAt sql.NullTime
		if err := rows.Scan(&cs.ChapterID, &stage, &stat, &updatedAt); err != nil {
			return nil, err
		}
		cs.Stage = Stage(stage)
		cs.Status = RunStatus(stat)
		if updatedAt.Valid {
			cs.UpdatedAt = updatedAt.Time
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}
