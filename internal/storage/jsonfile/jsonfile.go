// Package jsonfile provides a flat-file implementation of the storage.Store
// interface: every group lives in a single JSON document on disk.
//
// The whole file is held in memory and rewritten on each mutation via a
// temp-file rename, so a crash mid-write never leaves a half-written
// groups.json behind. This is plenty for the scale a secret friend drawing
// operates at; anything bigger should use the sqlite backend.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tsoares/amigo-secreto/internal/models"
	"github.com/tsoares/amigo-secreto/internal/storage"
)

// Ensure JSONStore implements storage.Store
var _ storage.Store = (*JSONStore)(nil)

// JSONStore implements storage.Store backed by a single JSON file mapping
// group ID to group record.
type JSONStore struct {
	path string

	mu     sync.RWMutex
	groups map[string]*models.Group
}

// New creates a JSONStore persisting to the given path. The parent directory
// is created if needed; a missing or empty file starts an empty store.
func New(path string) (*JSONStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &JSONStore{
		path:   path,
		groups: make(map[string]*models.Group),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s.groups); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// IDs are keys in the file; backfill the field for records written by
	// older versions that omitted it.
	for id, group := range s.groups {
		if group.ID == "" {
			group.ID = id
		}
	}

	return s, nil
}

// Close flushes the current state to disk one last time.
func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// CreateGroup persists a new group, assigning an ID and creation time if unset.
func (s *JSONStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.groups[group.ID]; exists {
		return fmt.Errorf("group %s already exists", group.ID)
	}

	s.groups[group.ID] = group.Clone()
	return s.flushLocked()
}

// GetGroup retrieves a group by ID.
func (s *JSONStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[groupID]
	if !ok {
		return nil, storage.ErrGroupNotFound
	}
	return group.Clone(), nil
}

// UpdateGroup replaces an existing group record.
func (s *JSONStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[group.ID]; !ok {
		return storage.ErrGroupNotFound
	}

	s.groups[group.ID] = group.Clone()
	return s.flushLocked()
}

// DeleteGroup removes a group by ID.
func (s *JSONStore) DeleteGroup(ctx context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return storage.ErrGroupNotFound
	}

	delete(s.groups, groupID)
	return s.flushLocked()
}

// flushLocked writes the full group map to disk. Callers must hold mu.
func (s *JSONStore) flushLocked() error {
	data, err := json.MarshalIndent(s.groups, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode groups: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".groups-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write groups file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close groups file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace groups file: %w", err)
	}
	return nil
}
