package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smilelifes/ai-weather-chat/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	status     TEXT NOT NULL,
	user_input TEXT NOT NULL,
	city       TEXT,
	started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	ended_at   DATETIME,
	error      TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
CREATE TABLE IF NOT EXISTS events (
	event_id TEXT PRIMARY KEY,
	run_id   TEXT NOT NULL REFERENCES runs(run_id),
	ts       INTEGER NOT NULL,
	type     TEXT NOT NULL,
	payload  TEXT
);
CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, ts);
`

const runColumns = `run_id, status, user_input, city, started_at, ended_at, error`

// SQLiteStore keeps run traces in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens dsn and ensures the trace schema exists.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace database: %w", err)
	}
	// Every connection to an in-memory database sees its own empty database.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create trace schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRun inserts a run in its initial state.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *domain.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, status, user_input, started_at) VALUES (?, ?, ?, ?)`,
		run.RunID, run.Status, run.UserInput, run.StartedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var (
		run     domain.Run
		city    sql.NullString
		failure sql.NullString
		endedAt sql.NullTime
	)
	if err := row.Scan(&run.RunID, &run.Status, &run.UserInput, &city, &run.StartedAt, &endedAt, &failure); err != nil {
		return nil, err
	}
	run.City = city.String
	if endedAt.Valid {
		run.EndedAt = &endedAt.Time
	}
	if failure.Valid {
		run.Error = json.RawMessage(failure.String)
	}
	return &run, nil
}

// GetRun returns the run with runID, or nil, nil when there is none.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

// ListRuns returns the newest runs first, optionally only those with status.
func (s *SQLiteStore) ListRuns(ctx context.Context, status domain.RunStatus, limit int) ([]domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY started_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []domain.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// UpdateRunCity records the place resolved by the extraction stage.
func (s *SQLiteStore) UpdateRunCity(ctx context.Context, runID string, city string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE runs SET city = ? WHERE run_id = ?`, city, runID)
	return err
}

// UpdateRunCompleted stamps the final status. errData is stored as-is when non-nil.
func (s *SQLiteStore) UpdateRunCompleted(ctx context.Context, runID string, status domain.RunStatus, errData []byte) error {
	var failure sql.NullString
	if errData != nil {
		failure = sql.NullString{String: string(errData), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, ended_at = ?, error = ? WHERE run_id = ?`,
		status, time.Now(), failure, runID)
	return err
}

// CreateEvent appends an event to its run.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	var payload sql.NullString
	if len(event.Payload) > 0 {
		payload = sql.NullString{String: string(event.Payload), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, run_id, ts, type, payload) VALUES (?, ?, ?, ?, ?)`,
		event.EventID, event.RunID, event.Ts, event.Type, payload)
	return err
}

// GetEvents returns the events of a run in recording order.
// afterTs, types and limit narrow the result when set.
func (s *SQLiteStore) GetEvents(ctx context.Context, runID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	var where strings.Builder
	where.WriteString(`run_id = ?`)
	args := []any{runID}

	if afterTs > 0 {
		where.WriteString(` AND ts > ?`)
		args = append(args, afterTs)
	}
	if len(types) > 0 {
		where.WriteString(` AND type IN (?` + strings.Repeat(`, ?`, len(types)-1) + `)`)
		for _, t := range types {
			args = append(args, t)
		}
	}

	// rowid breaks ties between events recorded in the same millisecond.
	query := `SELECT event_id, run_id, ts, type, payload FROM events WHERE ` + where.String() + ` ORDER BY ts ASC, rowid ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			event   domain.Event
			payload sql.NullString
		)
		if err := rows.Scan(&event.EventID, &event.RunID, &event.Ts, &event.Type, &payload); err != nil {
			return nil, err
		}
		if payload.String != "" {
			event.Payload = json.RawMessage(payload.String)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
