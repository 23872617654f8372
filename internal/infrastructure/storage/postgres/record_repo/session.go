package record_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"campuscore/internal/core/id"
	"campuscore/internal/domain/academics/session"
	"campuscore/internal/infrastructure/storage/postgres"
)

// SessionRepo implements session.Repository.
type SessionRepo struct {
	*BaseRecordRepo[*session.Session]
}

var _ session.Repository = (*SessionRepo)(nil)

// NewSessionRepo creates a new academic session repository.
func NewSessionRepo(txm *postgres.TxManager) *SessionRepo {
	return &SessionRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txm,
			"academic_sessions",
			postgres.ExtractDBColumns[session.Session](),
			[]string{"name"},
			func() *session.Session { return &session.Session{} },
		),
	}
}

// GetCurrent returns the session marked current.
func (r *SessionRepo) GetCurrent(ctx context.Context) (*session.Session, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"is_current": true}).
		Where(squirrel.Eq{"is_deleted": false}).
		Limit(1)
	return r.FindOne(ctx, q)
}

// ClearCurrent unmarks every current session except the given one.
func (r *SessionRepo) ClearCurrent(ctx context.Context, exceptID id.ID) error {
	sql, args, err := r.Builder().
		Update(r.TableName()).
		Set("is_current", false).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"is_current": true}).
		Where(squirrel.NotEq{"id": exceptID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.Querier(ctx).Exec(ctx, sql, args...)
	return err
}
