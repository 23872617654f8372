package session

import (
	"context"

	"campuscore/internal/core/id"
	"campuscore/internal/domain"
)

// Repository defines the interface for session persistence.
type Repository interface {
	domain.RecordRepository[*Session]

	// GetCurrent returns the session marked current, or NotFound.
	GetCurrent(ctx context.Context) (*Session, error)

	// GetForUpdate retrieves a session with a row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Session, error)

	// ClearCurrent unmarks every current session except the given one.
	// Called inside the SetCurrent transaction.
	ClearCurrent(ctx context.Context, exceptID id.ID) error
}
