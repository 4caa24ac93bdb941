// Package store persists reachability runs in a SQLite database so large
// explorations can be inspected and compared after the fact. A run is
// one exploration of one net: its options, its outcome, and every
// discovered marking as a bit string aligned to the net's place order.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/reachlab/go-reach/petri"
	"github.com/reachlab/go-reach/reachability"
)

// Store wraps the SQLite database holding recorded runs.
type Store struct {
	db *sql.DB
}

// Run is the stored summary of one exploration.
type Run struct {
	ID         string        `json:"id"`
	Net        string        `json:"net"`
	Places     []string      `json:"places"` // place order at exploration time
	Strategy   string        `json:"strategy"`
	Workers    int           `json:"workers"`
	MaxStates  int           `json:"max_states"`
	StateCount int           `json:"state_count"`
	Truncated  bool          `json:"truncated"`
	Elapsed    time.Duration `json:"elapsed"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Open opens (or creates) the database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		net TEXT NOT NULL,
		places TEXT NOT NULL,
		strategy TEXT NOT NULL,
		workers INTEGER NOT NULL,
		max_states INTEGER NOT NULL,
		state_count INTEGER NOT NULL,
		truncated INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS markings (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		bits TEXT NOT NULL,
		PRIMARY KEY (run_id, seq),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_markings_run ON markings(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_net ON runs(net);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records a completed exploration and returns its generated run
// id. Markings are stored in discovery order.
func (s *Store) SaveRun(net *petri.Net, res *reachability.Result) (string, error) {
	id := uuid.NewString()

	placeIDs := make([]string, net.PlaceCount())
	for i := range placeIDs {
		placeIDs[i] = net.PlaceID(i)
	}
	places, err := json.Marshal(placeIDs)
	if err != nil {
		return "", fmt.Errorf("store: encode place order: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, net, places, strategy, workers, max_states,
		 state_count, truncated, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, net.Name(), string(places), res.Strategy.String(), res.Workers,
		res.MaxStates, res.StateCount, res.Truncated,
		res.Elapsed.Milliseconds(), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("store: insert run: %w", err)
	}

	ins, err := tx.Prepare(`INSERT INTO markings (run_id, seq, bits) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("store: prepare markings: %w", err)
	}
	defer ins.Close()
	for seq, m := range res.Markings {
		if _, err := ins.Exec(id, seq, m.String()); err != nil {
			return "", fmt.Errorf("store: insert marking %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit: %w", err)
	}
	return id, nil
}

// GetRun loads one run summary by id.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, net, places, strategy, workers, max_states,
		 state_count, truncated, elapsed_ms, created_at
		 FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListRuns returns all run summaries, newest first.
func (s *Store) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query(
		`SELECT id, net, places, strategy, workers, max_states,
		 state_count, truncated, elapsed_ms, created_at
		 FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Markings returns the bit strings of a run in discovery order.
func (s *Store) Markings(runID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT bits FROM markings WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: load markings: %w", err)
	}
	defer rows.Close()

	var markings []string
	for rows.Next() {
		var bits string
		if err := rows.Scan(&bits); err != nil {
			return nil, fmt.Errorf("store: scan marking: %w", err)
		}
		markings = append(markings, bits)
	}
	return markings, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run       Run
		places    string
		elapsedMs int64
	)
	err := row.Scan(&run.ID, &run.Net, &places, &run.Strategy, &run.Workers,
		&run.MaxStates, &run.StateCount, &run.Truncated, &elapsedMs, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(places), &run.Places); err != nil {
		return nil, fmt.Errorf("store: decode place order: %w", err)
	}
	run.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return &run, nil
}
