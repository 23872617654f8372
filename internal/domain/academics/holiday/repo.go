package holiday

import (
	"context"
	"time"

	"campuscore/internal/core/id"
	"campuscore/internal/domain"
)

// Repository defines the interface for holiday persistence.
type Repository interface {
	domain.RecordRepository[*Holiday]

	// ListForSession returns the session's holidays ordered by date.
	ListForSession(ctx context.Context, sessionID id.ID) ([]*Holiday, error)

	// FindByDate returns the holiday on the given day in the session,
	// or NotFound.
	FindByDate(ctx context.Context, sessionID id.ID, date time.Time) (*Holiday, error)
}
