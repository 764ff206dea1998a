package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"depscan/internal/analyzer"
)

const SchemaVersion = 1

// tsLayout keeps a fixed fractional width so lexicographic order on ts_utc
// matches chronological order; RFC3339Nano trims trailing zeros and breaks
// ORDER BY within a second.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot is the per-run summary row persisted for trend tracking. Only
// counts survive a run; the graph itself is never stored.
type Snapshot struct {
	RunID           string    `json:"run_id"`
	Timestamp       time.Time `json:"timestamp"`
	ModuleCount     int       `json:"module_count"`
	FileCount       int       `json:"file_count"`
	EdgeCount       int       `json:"edge_count"`
	CycleCount      int       `json:"cycle_count"`
	GodModuleCount  int       `json:"god_module_count"`
	ViolationCount  int       `json:"violation_count"`
	ParseErrorCount int       `json:"parse_error_count"`
	UnresolvedCount int       `json:"unresolved_count"`
}

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS snapshots (
  run_id TEXT PRIMARY KEY,
  ts_utc TEXT NOT NULL,
  module_count INTEGER NOT NULL,
  file_count INTEGER NOT NULL,
  edge_count INTEGER NOT NULL,
  cycle_count INTEGER NOT NULL,
  god_module_count INTEGER NOT NULL,
  violation_count INTEGER NOT NULL,
  parse_error_count INTEGER NOT NULL,
  unresolved_count INTEGER NOT NULL,
  created_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts_utc);
`,
	},
}

// Store persists one snapshot row per analysis run in SQLite.
type Store struct {
	db   *sql.DB
	keep int
}

// Open opens (or creates) the snapshot database and applies migrations.
// keep bounds how many rows are retained; older rows are pruned on Record.
func Open(path string, keep int) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, keep: keep}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func ensureSchema(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  applied_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema_migrations version: %w", err)
	}
	if current > SchemaVersion {
		return fmt.Errorf("schema version %d is newer than supported version %d", current, SchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}

	return nil
}

// Record stores one run's summary and prunes rows beyond the retention bound.
func (s *Store) Record(result *analyzer.Result) error {
	summary := result.Summary()

	_, err := s.db.Exec(`
INSERT INTO snapshots (
  run_id, ts_utc, module_count, file_count, edge_count, cycle_count,
  god_module_count, violation_count, parse_error_count, unresolved_count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.StartedAt.UTC().Format(tsLayout),
		summary.Modules,
		result.FileCount,
		summary.Edges,
		summary.Cycles,
		summary.GodModules,
		summary.Violations,
		summary.ParseErrors,
		summary.Unresolved,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if s.keep > 0 {
		if _, err := s.db.Exec(`
DELETE FROM snapshots WHERE run_id NOT IN (
  SELECT run_id FROM snapshots ORDER BY ts_utc DESC LIMIT ?
)`, s.keep); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
	}

	return nil
}

// Recent returns up to n snapshots, newest first.
func (s *Store) Recent(n int) ([]Snapshot, error) {
	rows, err := s.db.Query(`
SELECT run_id, ts_utc, module_count, file_count, edge_count, cycle_count,
       god_module_count, violation_count, parse_error_count, unresolved_count
FROM snapshots ORDER BY ts_utc DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var snap Snapshot
		var ts string
		if err := rows.Scan(&snap.RunID, &ts, &snap.ModuleCount, &snap.FileCount,
			&snap.EdgeCount, &snap.CycleCount, &snap.GodModuleCount,
			&snap.ViolationCount, &snap.ParseErrorCount, &snap.UnresolvedCount); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if parsed, err := time.Parse(tsLayout, ts); err == nil {
			snap.Timestamp = parsed
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}
