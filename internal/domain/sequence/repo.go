package sequence

import (
	"context"
)

// Repository defines persistence for sequence counters.
// Implementations live in the infrastructure layer.
type Repository interface {
	// Get retrieves the counter for kind without locking.
	// Returns a not-found AppError for unconfigured kinds.
	Get(ctx context.Context, kind Kind) (*Counter, error)

	// GetForUpdate retrieves the counter holding a row-level exclusive lock.
	// Must be called inside a transaction; the lock is released on commit
	// or rollback.
	GetForUpdate(ctx context.Context, kind Kind) (*Counter, error)

	// Update persists counter state previously read under GetForUpdate.
	Update(ctx context.Context, c *Counter) error

	// CompareAndSwap persists counter state only if the stored version still
	// equals c.Version; on success the stored version is incremented and
	// c.Version is synced. Returns false without error when another caller
	// won the race.
	CompareAndSwap(ctx context.Context, c *Counter) (bool, error)

	// Create inserts a new counter row.
	Create(ctx context.Context, c *Counter) error

	// List returns all configured counters.
	List(ctx context.Context) ([]*Counter, error)
}
