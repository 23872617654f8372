package notification

import (
	"context"
	"fmt"
	"time"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/entity"
	"campuscore/internal/core/id"
	"campuscore/internal/core/tx"
	"campuscore/internal/domain"
	"campuscore/pkg/logger"
)

// Service provides business logic for notifications.
// Uses composition with domain.RecordService for common CRUD operations.
type Service struct {
	*domain.RecordService[*Notification]
	repo      Repository
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates a new notification service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Notification]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "notification",
	})

	return &Service{
		RecordService: base,
		repo:          repo,
		txManager:     txManager,
		now:           time.Now,
	}
}

// Notify creates and stores a notification with defaults filled in.
func (s *Service) Notify(ctx context.Context, n *Notification) error {
	if id.IsNil(n.ID) {
		n.Record = entity.NewRecord()
	}
	if n.Type == "" {
		n.Type = TypeInfo
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	return s.Create(ctx, n)
}

// ListForRecipient returns the user's notifications, newest first.
func (s *Service) ListForRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListForRecipient(ctx, recipientID, unreadOnly, limit, offset)
}

// CountUnread returns the recipient's unread count.
func (s *Service) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

// MarkRead marks one notification as read. Marking an already-read
// notification is a no-op; ReadAt keeps its original value.
// A notification addressed to another user reads as not found.
func (s *Service) MarkRead(ctx context.Context, notificationID id.ID, recipientID string) (*Notification, error) {
	var result *Notification
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repo.GetForUpdate(ctx, notificationID)
		if err != nil {
			return err
		}
		if n.RecipientID != recipientID {
			return apperror.NewNotFound("notification", notificationID)
		}
		if n.IsRead {
			result = n
			return nil
		}
		n.MarkRead(s.now())
		n.Touch()
		if err := s.repo.Update(ctx, n); err != nil {
			return fmt.Errorf("mark notification read: %w", err)
		}
		result = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkAllRead marks every unread notification of the recipient as read.
func (s *Service) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID, s.now().UTC())
}

// PurgeExpired removes notifications past their expiry.
// Called from the maintenance worker.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge expired notifications: %w", err)
	}
	if removed > 0 {
		logger.Info(ctx, "purged expired notifications", "removed", removed)
	}
	return removed, nil
}
