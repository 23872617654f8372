package notification

import (
	"context"
	"time"

	"campuscore/internal/core/id"
	"campuscore/internal/domain"
)

// Repository defines the interface for notification persistence.
type Repository interface {
	domain.RecordRepository[*Notification]

	// ListForRecipient returns notifications addressed to one user,
	// optionally restricted to unread ones. Newest first.
	ListForRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*Notification, error)

	// CountUnread returns how many unread notifications the user has.
	CountUnread(ctx context.Context, recipientID string) (int64, error)

	// GetForUpdate retrieves a notification with a row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Notification, error)

	// MarkAllRead marks every unread notification of the recipient as read
	// at the given instant and reports how many rows changed.
	MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error)

	// DeleteExpired removes notifications whose expiry is before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
