package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog/log"

	"ctfiler/internal/statements"
	"ctfiler/pkg/models"
)

// Step statuses recorded in the checkpoint store.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ErrNoCheckpoint is returned when hydration finds no completed step.
var ErrNoCheckpoint = errors.New("workflow: no completed checkpoint")

// StepRecord is one persisted wizard step with its full state snapshot.
type StepRecord struct {
	Key     string
	Number  int
	Data    json.RawMessage
	Status  string
	SavedAt time.Time
}

// Store is a SQLite-backed checkpoint store. Each step boundary writes the
// whole session snapshot; hydration restores from the latest completed step.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS workflow_steps (
	step_number INTEGER PRIMARY KEY,
	step_key    TEXT NOT NULL,
	data        TEXT NOT NULL,
	status      TEXT NOT NULL,
	saved_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// OpenStore opens (creating if needed) the checkpoint database at path.
func OpenStore(path string) (*Store, error) {
	const op = "OpenStore"

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%s: failed to create store directory: %w", op, err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open database: %w", op, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to initialize schema: %w", op, err)
	}

	log.Debug().Str("component", "workflow").Str("path", path).Msg("Checkpoint store opened")
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveStep upserts one step's snapshot. Re-saving a step number overwrites
// its previous payload; later steps are untouched.
func (s *Store) SaveStep(ctx context.Context, stepKey string, stepNumber int, data any, status string) error {
	const op = "SaveStep"

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal snapshot: %w", op, err)
	}

	query := `
		INSERT INTO workflow_steps (step_number, step_key, data, status, saved_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(step_number) DO UPDATE SET
			step_key = excluded.step_key,
			data = excluded.data,
			status = excluded.status,
			saved_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, stepNumber, stepKey, string(payload), status); err != nil {
		return fmt.Errorf("%s: failed to save step %d: %w", op, stepNumber, err)
	}

	log.Debug().
		Str("component", "workflow").
		Str("step_key", stepKey).
		Int("step_number", stepNumber).
		Str("status", status).
		Msg("Step checkpoint saved")
	return nil
}

// Steps returns every persisted step keyed by step number.
func (s *Store) Steps(ctx context.Context) (map[int]StepRecord, error) {
	const op = "Steps"

	rows, err := s.db.QueryContext(ctx,
		`SELECT step_number, step_key, data, status, saved_at FROM workflow_steps ORDER BY step_number`)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query steps: %w", op, err)
	}
	defer rows.Close()

	out := make(map[int]StepRecord)
	for rows.Next() {
		var r StepRecord
		var data string
		if err := rows.Scan(&r.Number, &r.Key, &data, &r.Status, &r.SavedAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan step: %w", op, err)
		}
		r.Data = json.RawMessage(data)
		out[r.Number] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// LatestCompleted returns the highest-numbered completed step.
func (s *Store) LatestCompleted(ctx context.Context) (StepRecord, error) {
	const op = "LatestCompleted"

	row := s.db.QueryRowContext(ctx, `
		SELECT step_number, step_key, data, status, saved_at
		FROM workflow_steps
		WHERE status = ?
		ORDER BY step_number DESC
		LIMIT 1
	`, StatusCompleted)

	var r StepRecord
	var data string
	if err := row.Scan(&r.Number, &r.Key, &data, &r.Status, &r.SavedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StepRecord{}, ErrNoCheckpoint
		}
		return StepRecord{}, fmt.Errorf("%s: failed to read checkpoint: %w", op, err)
	}
	r.Data = json.RawMessage(data)
	return r, nil
}

// Reset drops every checkpoint; used by "Start Over".
func (s *Store) Reset(ctx context.Context) error {
	const op = "Reset"
	if _, err := s.db.ExecContext(ctx, `DELETE FROM workflow_steps`); err != nil {
		return fmt.Errorf("%s: failed to clear checkpoints: %w", op, err)
	}
	return nil
}

// Checkpoint snapshots the session at a step boundary.
func Checkpoint(ctx context.Context, store *Store, stepKey string, stepNumber int, s State, status string) error {
	return store.SaveStep(ctx, stepKey, stepNumber, s, status)
}

// Hydrate restores the session from the latest completed checkpoint.
// ErrNoCheckpoint means a fresh session should be started instead.
func Hydrate(ctx context.Context, store *Store) (State, int, error) {
	const op = "Hydrate"

	rec, err := store.LatestCompleted(ctx)
	if err != nil {
		return State{}, 0, err
	}
	s := NewState()
	if err := json.Unmarshal(rec.Data, &s); err != nil {
		return State{}, 0, fmt.Errorf("%s: failed to decode snapshot: %w", op, err)
	}
	if s.Breakdowns == nil {
		s.Breakdowns = map[string][]models.BreakdownEntry{}
	}
	if s.TBOverrides == nil {
		s.TBOverrides = map[string]CellOverride{}
	}
	if s.PLManual == nil {
		s.PLManual = statements.EditSet{}
	}
	if s.BSManual == nil {
		s.BSManual = statements.EditSet{}
	}
	return s, rec.Number, nil
}
