// Package resultstore archives benchmark sessions in a sqlite database so
// runs from different machines and days can be queried together.
package resultstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/i5heu/GoBoundedQueue/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_time  TEXT    NOT NULL,
	num_cpu       INTEGER NOT NULL,
	true_cpu      INTEGER NOT NULL,
	cpu_model     TEXT    NOT NULL,
	cpu_speed_mhz REAL    NOT NULL,
	go_arch       TEXT    NOT NULL,
	total_memory  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	session_id     INTEGER NOT NULL REFERENCES sessions(id),
	implementation TEXT    NOT NULL,
	num_producers  INTEGER NOT NULL,
	num_consumers  INTEGER NOT NULL,
	capacity       INTEGER NOT NULL,
	produced       INTEGER NOT NULL,
	consumed       INTEGER NOT NULL,
	rejected       INTEGER NOT NULL,
	test_duration  TEXT    NOT NULL,
	actual_elapsed TEXT    NOT NULL,
	throughput     REAL    NOT NULL,
	timestamp      INTEGER NOT NULL,
	go_version     TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS results_implementation ON results(implementation);
`

// Store is an open results database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession writes one session and all of its results in a transaction.
func (s *Store) SaveSession(ctx context.Context, fr report.FullReport) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	si := fr.SystemInfo
	res, err := tx.ExecContext(ctx, `INSERT INTO sessions
		(session_time, num_cpu, true_cpu, cpu_model, cpu_speed_mhz, go_arch, total_memory)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fr.SessionTime, si.CPUs(), si.TrueCPU, si.CPUModel, si.CPUSpeedMHz, si.GOARCH, int64(si.TotalMemory))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	sessionID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("session id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results
		(session_id, implementation, num_producers, num_consumers, capacity,
		 produced, consumed, rejected, test_duration, actual_elapsed,
		 throughput, timestamp, go_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range fr.Benchmarks {
		if _, err = stmt.ExecContext(ctx, sessionID, b.Implementation, b.NumProducers, b.NumConsumers,
			b.Capacity, b.NumMessages, b.NumMessagesConsumed, b.NumRejected, b.TestDuration,
			b.ActualElapsed, b.Throughput, b.Timestamp, b.GoVersion); err != nil {
			return fmt.Errorf("insert result %s: %w", b.Implementation, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Results returns every stored result for implementation, oldest first.
func (s *Store) Results(ctx context.Context, implementation string) ([]report.BenchmarkResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		implementation, num_producers, num_consumers, capacity, produced, consumed,
		rejected, test_duration, actual_elapsed, throughput, timestamp, go_version
		FROM results WHERE implementation = ? ORDER BY timestamp, rowid`, implementation)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []report.BenchmarkResult
	for rows.Next() {
		var b report.BenchmarkResult
		if err := rows.Scan(&b.Implementation, &b.NumProducers, &b.NumConsumers, &b.Capacity,
			&b.NumMessages, &b.NumMessagesConsumed, &b.NumRejected, &b.TestDuration,
			&b.ActualElapsed, &b.Throughput, &b.Timestamp, &b.GoVersion); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SessionCount returns how many sessions are archived.
func (s *Store) SessionCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
