package audit

import (
	"context"
	"time"

	"campuscore/internal/core/id"
)

// Filter narrows audit log queries. Zero values mean "no constraint".
type Filter struct {
	ActorID    string
	EntityType string
	EntityID   id.ID
	Action     Action
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// Repository defines the interface for audit log persistence.
// Implementations own the storage representation, including any
// compression of large change payloads.
type Repository interface {
	// Insert appends an entry. Entries are immutable once written.
	Insert(ctx context.Context, entry *Entry) error

	// List returns entries matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]*Entry, error)

	// EntityHistory returns the change history for one record, newest first.
	EntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]*Entry, error)

	// DeleteBefore removes entries created before the cutoff and reports
	// how many were removed.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
