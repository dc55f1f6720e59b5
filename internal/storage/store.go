// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tsoares/amigo-secreto/internal/models"
)

// ErrGroupNotFound is returned by any backend when the group ID is unknown.
var ErrGroupNotFound = errors.New("group not found")

// Store defines the interface for group storage operations.
// This abstraction allows swapping storage backends (flat JSON file, SQLite)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group. The group.ID and group.CreatedAt
	// fields are populated by the store if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	// Returns ErrGroupNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// UpdateGroup replaces an existing group record.
	// Returns ErrGroupNotFound if the group does not exist.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group by ID.
	// Returns ErrGroupNotFound if the group does not exist.
	DeleteGroup(ctx context.Context, groupID string) error

	// Close releases any resources held by the store.
	Close() error
}
