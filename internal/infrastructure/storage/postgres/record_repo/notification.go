package record_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"campuscore/internal/domain/notification"
	"campuscore/internal/infrastructure/storage/postgres"
)

// NotificationRepo implements notification.Repository.
type NotificationRepo struct {
	*BaseRecordRepo[*notification.Notification]
}

var _ notification.Repository = (*NotificationRepo)(nil)

// NewNotificationRepo creates a new notification repository.
func NewNotificationRepo(txm *postgres.TxManager) *NotificationRepo {
	return &NotificationRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txm,
			"notifications",
			postgres.ExtractDBColumns[notification.Notification](),
			[]string{"title", "message"},
			func() *notification.Notification { return &notification.Notification{} },
		),
	}
}

// ListForRecipient returns a user's notifications, newest first.
func (r *NotificationRepo) ListForRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]*notification.Notification, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"recipient_id": recipientID}).
		Where(squirrel.Eq{"is_deleted": false}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if unreadOnly {
		q = q.Where(squirrel.Eq{"is_read": false})
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	return r.FindMany(ctx, q)
}

// CountUnread returns the recipient's unread count.
func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	sql, args, err := r.Builder().
		Select("COUNT(*)").
		From(r.TableName()).
		Where(squirrel.Eq{"recipient_id": recipientID}).
		Where(squirrel.Eq{"is_read": false}).
		Where(squirrel.Eq{"is_deleted": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// MarkAllRead marks every unread notification of the recipient as read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error) {
	sql, args, err := r.Builder().
		Update(r.TableName()).
		Set("is_read", true).
		Set("read_at", at).
		Set("updated_at", at).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"recipient_id": recipientID}).
		Where(squirrel.Eq{"is_read": false}).
		Where(squirrel.Eq{"is_deleted": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark all read: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteExpired removes notifications whose expiry is before now.
func (r *NotificationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.Builder().
		Delete(r.TableName()).
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired: %w", err)
	}
	return result.RowsAffected(), nil
}
