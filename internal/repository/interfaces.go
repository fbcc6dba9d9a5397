package repository

import (
	"context"
	"errors"

	"pantry-chef-api/internal/model"
)

// ErrNotFound is returned when a record does not exist or is not visible to the caller.
var ErrNotFound = errors.New("record not found")

// InventoryRepository defines inventory data access methods.
// Writes are scoped to the owning user.
type InventoryRepository interface {
	// ListByOwner returns the user's items, newest first. Never nil.
	ListByOwner(ctx context.Context, userID string) ([]model.InventoryItem, error)

	// Create inserts a fully populated item.
	Create(ctx context.Context, item *model.InventoryItem) error

	// GetByID returns the item or ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.InventoryItem, error)

	// Update overwrites name, quantity, unit, category and updated_at of the item
	// matching both item.ID and item.UserID, or returns ErrNotFound.
	Update(ctx context.Context, item *model.InventoryItem) error

	// Delete removes the item matching id and userID, or returns ErrNotFound.
	Delete(ctx context.Context, id, userID string) error
}

// UserRepository defines user data access methods.
type UserRepository interface {
	// GetByExternalID returns the user or ErrNotFound.
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)

	// GetOrCreate inserts candidate unless a user with the same external id exists,
	// then returns the stored user. Safe under concurrent calls for one external id.
	GetOrCreate(ctx context.Context, candidate *model.User) (*model.User, error)
}

// Store is a backend holding both users and inventory.
type Store interface {
	InventoryRepository
	UserRepository

	// Backend names the storage engine.
	Backend() string

	// Ping verifies the connection.
	Ping(ctx context.Context) error

	// GetStats returns statistics about the store.
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the repository connection.
	Close() error
}
