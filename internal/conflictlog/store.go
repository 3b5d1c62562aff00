// Package conflictlog persists a record of every autoresolve run and the
// residual conflicts it could not resolve, so a later `show-residual` call
// or audit doesn't require re-running the merge.
package conflictlog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ashfield-docs/autoresolve/internal/docvalue"
)

// Store wraps the sqlite-backed conflict log database (adapted from
// internal/index/sqlite's db.go/writer.go pair, which held a *DB with no
// actual connection — here db.conn is real and every write goes through a
// transaction as writer.go's IndexWriter does).
type Store struct {
	conn *sql.DB
}

// Open creates (if needed) <projectRoot>/.autoresolve/conflictlog.db and
// ensures its schema, mirroring sqlite.Open's <root>/.archon/index/archon.db
// layout convention.
func Open(projectRoot string) (*Store, error) {
	dir := filepath.Join(projectRoot, ".autoresolve")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("conflictlog: create dir: %w", err)
	}
	dbPath := filepath.Join(dir, "conflictlog.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("conflictlog: open: %w", err)
	}
	conn.SetMaxOpenConns(1) // modernc.org/sqlite: single-writer connection avoids SQLITE_BUSY

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.conn.Close() }

func (s *Store) Ping() error { return s.conn.Ping() }

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS merge_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			repo_path    TEXT NOT NULL,
			base_ref     TEXT NOT NULL,
			local_ref    TEXT NOT NULL,
			remote_ref   TEXT NOT NULL,
			started_at   TEXT NOT NULL,
			completed_at TEXT,
			status       TEXT NOT NULL DEFAULT 'running'
		);
		CREATE TABLE IF NOT EXISTS residual_conflicts (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id   INTEGER NOT NULL REFERENCES merge_runs(id),
			side     TEXT NOT NULL,
			path     TEXT NOT NULL,
			op       TEXT NOT NULL,
			payload  TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_residual_run ON residual_conflicts(run_id);
	`)
	if err != nil {
		return fmt.Errorf("conflictlog: migrate: %w", err)
	}
	return nil
}

// StartRun inserts a new merge_runs row and returns its id.
func (s *Store) StartRun(repoPath, baseRef, localRef, remoteRef string) (int64, error) {
	res, err := s.conn.Exec(
		`INSERT INTO merge_runs (repo_path, base_ref, local_ref, remote_ref, started_at, status)
		 VALUES (?, ?, ?, ?, ?, 'running')`,
		repoPath, baseRef, localRef, remoteRef, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("conflictlog: start run: %w", err)
	}
	return res.LastInsertId()
}

// FinishRun marks a run complete and records its residual conflicts in a
// single transaction, matching writer.go's IndexNode pattern of a
// begin/defer-rollback/commit block around related writes.
func (s *Store) FinishRun(runID int64, status string, local, remote docvalue.Diff) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("conflictlog: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE merge_runs SET completed_at = ?, status = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), status, runID,
	); err != nil {
		return fmt.Errorf("conflictlog: update run: %w", err)
	}

	if err := insertResidual(tx, runID, "local", local); err != nil {
		return err
	}
	if err := insertResidual(tx, runID, "remote", remote); err != nil {
		return err
	}

	return tx.Commit()
}

func insertResidual(tx *sql.Tx, runID int64, side string, d docvalue.Diff) error {
	for _, e := range d {
		payload, err := json.Marshal(entryPayload(e))
		if err != nil {
			return fmt.Errorf("conflictlog: encode residual entry: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT INTO residual_conflicts (run_id, side, path, op, payload) VALUES (?, ?, ?, ?, ?)`,
			runID, side, e.Key.String(), opName(e.Op), string(payload),
		); err != nil {
			return fmt.Errorf("conflictlog: insert residual: %w", err)
		}
	}
	return nil
}

// ResidualEntry is the read-side view of a stored residual conflict.
type ResidualEntry struct {
	Side string
	Path string
	Op   string
	JSON string
}

// ResidualsForRun returns every residual conflict recorded against runID,
// ordered the way writer.go's search queries order results: insertion
// order, which here doubles as path order within a side.
func (s *Store) ResidualsForRun(runID int64) ([]ResidualEntry, error) {
	rows, err := s.conn.Query(
		`SELECT side, path, op, payload FROM residual_conflicts WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("conflictlog: query residuals: %w", err)
	}
	defer rows.Close()

	var out []ResidualEntry
	for rows.Next() {
		var e ResidualEntry
		if err := rows.Scan(&e.Side, &e.Path, &e.Op, &e.JSON); err != nil {
			return nil, fmt.Errorf("conflictlog: scan residual: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func entryPayload(e docvalue.DiffEntry) map[string]any {
	m := map[string]any{}
	switch e.Op {
	case docvalue.OpReplace, docvalue.OpAdd:
		b, _ := docvalue.ToJSON(e.Value)
		m["value"] = json.RawMessage(b)
	case docvalue.OpAddRange:
		vals := make([]json.RawMessage, len(e.Values))
		for i, v := range e.Values {
			b, _ := docvalue.ToJSON(v)
			vals[i] = b
		}
		m["values"] = vals
	case docvalue.OpRemoveRange:
		m["length"] = e.Length
	}
	return m
}

func opName(op docvalue.OpKind) string {
	switch op {
	case docvalue.OpAddRange:
		return "addrange"
	case docvalue.OpRemoveRange:
		return "removerange"
	case docvalue.OpReplace:
		return "replace"
	case docvalue.OpPatch:
		return "patch"
	case docvalue.OpAdd:
		return "add"
	case docvalue.OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}
