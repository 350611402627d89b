// Package snapshot writes point-in-time exports of Asana listings into a
// SQLite database. Snapshots are append-only and never read back by the
// SDK.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no snapshot holds the requested entity.
var ErrNotFound = errors.New("snapshot: not found")

const timeLayout = time.RFC3339Nano

// Snapshot describes one export run.
type Snapshot struct {
	ID       int64
	Resource string
	Scope    string
	TakenAt  time.Time
	Count    int
}

// Store is a SQLite-backed snapshot database.
type Store struct {
	db     *sql.DB
	closed bool
	now    func() time.Time
}

// Open opens or creates the snapshot database at dsn and applies pending
// migrations. dsn can be a file path or ":memory:".
func Open(dsn string) (*Store, error) {
	connStr := dsn
	if strings.Contains(dsn, "?") {
		connStr += "&"
	} else {
		connStr += "?"
	}
	connStr += "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_synchronous=NORMAL"

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Save records items as a new snapshot of resource under scope. Every item
// must be a JSON object with a gid. Either all items are stored or none.
func (s *Store) Save(ctx context.Context, resource, scope string, items []json.RawMessage) (*Snapshot, error) {
	if resource == "" {
		return nil, errors.New("resource is required")
	}

	snap := &Snapshot{
		Resource: resource,
		Scope:    scope,
		TakenAt:  s.now().UTC(),
		Count:    len(items),
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (resource, scope, taken_at, item_count)
			VALUES (?, ?, ?, ?)
		`, snap.Resource, snap.Scope, snap.TakenAt.Format(timeLayout), snap.Count)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
		if snap.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read snapshot id: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO entities (snapshot_id, position, gid, resource_type, payload)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare entity insert: %w", err)
		}
		defer stmt.Close()

		for i, item := range items {
			var ident struct {
				GID          string `json:"gid"`
				ResourceType string `json:"resource_type"`
			}
			if err := json.Unmarshal(item, &ident); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			if ident.GID == "" {
				return fmt.Errorf("item %d: missing gid", i)
			}
			if _, err := stmt.ExecContext(ctx, snap.ID, i, ident.GID, ident.ResourceType, string(item)); err != nil {
				return fmt.Errorf("failed to insert item %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

// Get returns the most recently exported payload for the entity gid.
func (s *Store) Get(ctx context.Context, gid string) (json.RawMessage, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM entities
		WHERE gid = ?
		ORDER BY snapshot_id DESC
		LIMIT 1
	`, gid).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}
	return json.RawMessage(payload), nil
}

// Snapshots lists recorded snapshots of resource, newest first. An empty
// resource lists all of them.
func (s *Store) Snapshots(ctx context.Context, resource string) ([]Snapshot, error) {
	query := `SELECT id, resource, scope, taken_at, item_count FROM snapshots`
	var args []interface{}
	if resource != "" {
		query += ` WHERE resource = ?`
		args = append(args, resource)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var takenAt string
		if err := rows.Scan(&snap.ID, &snap.Resource, &snap.Scope, &takenAt, &snap.Count); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if snap.TakenAt, err = time.Parse(timeLayout, takenAt); err != nil {
			return nil, fmt.Errorf("invalid snapshot time %q: %w", takenAt, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
