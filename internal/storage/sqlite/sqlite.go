// Package sqlite provides a SQLite-backed implementation of the storage.Store
// interface, for deployments where a flat JSON file is not enough.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/tsoares/amigo-secreto/internal/models"
	"github.com/tsoares/amigo-secreto/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateGroup persists a new group, assigning an ID and creation time if unset.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, drawn, created_at) VALUES (?, ?, ?, ?)",
		group.ID, group.Name, boolToInt(group.Drawn), group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertParticipants(ctx, tx, group); err != nil {
		return err
	}

	return tx.Commit()
}

// GetGroup retrieves a group by its ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{ID: groupID}

	var drawn int
	err := s.db.QueryRowContext(ctx,
		"SELECT name, drawn, created_at FROM groups WHERE id = ?", groupID,
	).Scan(&group.Name, &drawn, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query group: %w", err)
	}
	group.Drawn = drawn != 0

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, password_hash, assigned_to FROM participants WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	group.Confirmations = make(map[string]string)
	for rows.Next() {
		var name string
		var hash, assignedTo sql.NullString
		if err := rows.Scan(&name, &hash, &assignedTo); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		group.Participants = append(group.Participants, name)
		if hash.Valid {
			group.Confirmations[name] = hash.String
		}
		if assignedTo.Valid {
			if group.Assignments == nil {
				group.Assignments = make(map[string]string)
			}
			group.Assignments[name] = assignedTo.String
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}

	return group, nil
}

// UpdateGroup replaces an existing group record, rewriting its participants.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE groups SET name = ?, drawn = ? WHERE id = ?",
		group.Name, boolToInt(group.Drawn), group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrGroupNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, group); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteGroup removes a group and its participants.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrGroupNotFound
	}
	return nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, group *models.Group) error {
	for i, name := range group.Participants {
		var hash, assignedTo any
		if h, ok := group.Confirmations[name]; ok {
			hash = h
		}
		if a, ok := group.Assignments[name]; ok {
			assignedTo = a
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO participants (group_id, name, position, password_hash, assigned_to) VALUES (?, ?, ?, ?, ?)",
			group.ID, name, i, hash, assignedTo,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
