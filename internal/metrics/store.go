package metrics

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists StageMetric rows in a SQLite database as an
// append-only ledger of stage timings and external-call counts, queryable
// without a separate document store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite metrics database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS stage_metrics (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	chapter_id  TEXT NOT NULL,
	stage       TEXT NOT NULL,
	provider    TEXT,
	duration_ms INTEGER NOT NULL,
	success     INTEGER NOT NULL,
	error_kind  TEXT,
	recorded_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stage_metrics_stage ON stage_metrics(stage);
CREATE INDEX IF NOT EXISTS idx_stage_metrics_chapter ON stage_metrics(chapter_id);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record appends one stage-run metric.
func (s *Store) Record(m StageMetric) error {
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO stage_metrics (chapter_id, stage, provider, duration_ms, success, error_kind, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ChapterID, m.Stage, m.Provider, m.DurationMS, m.Success, m.ErrorKind, m.RecordedAt,
	)
	return err
}

// Filter narrows a List query; zero-value fields are unconstrained.
type Filter struct {
	ChapterID string
	Stage     string
	Since     time.Time
}

// List returns metrics matching the filter, most recent first.
func (s *Store) List(f Filter) ([]StageMetric, error) {
	query := `SELECT id, chapter_id, stage, provider, duration_ms, success, error_kind, recorded_at FROM stage_metrics WHERE 1=1`
	var args []any
	if f.ChapterID != "" {
		query += " AND chapter_id = ?"
		args = append(args, f.ChapterID)
	}
	if f.Stage != "" {
		query += " AND stage = ?"
		args = append(args, f.Stage)
	}
	if !f.Since.IsZero() {
		query += " AND recorded_at >= ?"
		args = append(args, f.Since)
	}
	query += " ORDER BY recorded_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StageMetric
	for rows.Next() {
		var m StageMetric
		if err := rows.Scan(&m.ID, &m.ChapterID, &m.Stage, &m.Provider, &m.DurationMS, &m.Success, &m.ErrorKind, &m.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// StageSummary aggregates every recorded run of one stage.
type StageSummary struct {
	Stage        string
	Runs         int
	Failures     int
	AvgDurationMS float64
}

// Summarize groups recorded metrics by stage, for a batch run's final
// report (total time spent in ASR vs. forced alignment vs. treatment).
func (s *Store) Summarize() ([]StageSummary, error) {
	rows, err := s.db.Query(`
SELECT stage, COUNT(*), SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), AVG(duration_ms)
FROM stage_metrics
GROUP BY stage
ORDER BY stage`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StageSummary
	for rows.Next() {
		var sm StageSummary
		if err := rows.Scan(&sm.Stage, &sm.Runs, &sm.Failures, &sm.AvgDurationMS); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}
