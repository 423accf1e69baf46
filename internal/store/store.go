// Package store keeps emission results in SQLite.
package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for run results.
type DB struct {
	conn *sqlx.DB
}

type RunRecord struct {
	ID             string    `db:"id"`
	Model          string    `db:"model"`
	Identifier     string    `db:"identifier"`
	FieldAmplitude float64   `db:"field_amplitude"`
	WorkFunction   float64   `db:"work_function"`
	Patches        int       `db:"patches"`
	TotalElectrons float64   `db:"total_electrons"`
	CreatedAt      time.Time `db:"created_at"`
}

type PatchRecord struct {
	RunID     string  `db:"run_id"`
	Index     int     `db:"idx"`
	X         float64 `db:"x"`
	Y         float64 `db:"y"`
	Z         float64 `db:"z"`
	Area      float64 `db:"area"`
	Electrons float64 `db:"electrons"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		identifier TEXT NOT NULL,
		field_amplitude REAL NOT NULL,
		work_function REAL NOT NULL,
		patches INTEGER NOT NULL,
		total_electrons REAL NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS patches (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		z REAL NOT NULL,
		area REAL NOT NULL,
		electrons REAL NOT NULL,
		PRIMARY KEY (run_id, idx)
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun stores a run with its patches in one transaction and returns the run id.
func (db *DB) SaveRun(run RunRecord, patches []PatchRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.Patches = len(patches)

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO runs (id, model, identifier, field_amplitude, work_function, patches, total_electrons, created_at)
		VALUES (:id, :model, :identifier, :field_amplitude, :work_function, :patches, :total_electrons, :created_at)`, run)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareNamed(`INSERT INTO patches (run_id, idx, x, y, z, area, electrons)
		VALUES (:run_id, :idx, :x, :y, :z, :area, :electrons)`)
	if err != nil {
		return "", fmt.Errorf("prepare patches: %w", err)
	}
	defer stmt.Close()
	for i := range patches {
		patches[i].RunID = run.ID
		if _, err := stmt.Exec(patches[i]); err != nil {
			return "", fmt.Errorf("insert patch %d: %w", patches[i].Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return run.ID, nil
}

// Runs lists stored runs, newest first.
func (db *DB) Runs() ([]RunRecord, error) {
	var runs []RunRecord
	err := db.conn.Select(&runs, `SELECT id, model, identifier, field_amplitude, work_function, patches, total_electrons, created_at
		FROM runs ORDER BY created_at DESC, id`)
	return runs, err
}

// PatchesOf returns the patches of a run in index order.
func (db *DB) PatchesOf(runID string) ([]PatchRecord, error) {
	var patches []PatchRecord
	err := db.conn.Select(&patches, `SELECT run_id, idx, x, y, z, area, electrons FROM patches WHERE run_id = ? ORDER BY idx`, runID)
	return patches, err
}
