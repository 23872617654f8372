package record_repo

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"campuscore/internal/core/id"
	"campuscore/internal/domain/academics/holiday"
	"campuscore/internal/infrastructure/storage/postgres"
)

// HolidayRepo implements holiday.Repository.
type HolidayRepo struct {
	*BaseRecordRepo[*holiday.Holiday]
}

var _ holiday.Repository = (*HolidayRepo)(nil)

// NewHolidayRepo creates a new holiday repository.
func NewHolidayRepo(txm *postgres.TxManager) *HolidayRepo {
	return &HolidayRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txm,
			"holidays",
			postgres.ExtractDBColumns[holiday.Holiday](),
			[]string{"name", "description"},
			func() *holiday.Holiday { return &holiday.Holiday{} },
		),
	}
}

// ListForSession returns the session's holidays ordered by date.
func (r *HolidayRepo) ListForSession(ctx context.Context, sessionID id.ID) ([]*holiday.Holiday, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"session_id": sessionID}).
		Where(squirrel.Eq{"is_deleted": false}).
		OrderBy("date ASC")
	return r.FindMany(ctx, q)
}

// FindByDate returns the holiday on the given day in the session.
func (r *HolidayRepo) FindByDate(ctx context.Context, sessionID id.ID, date time.Time) (*holiday.Holiday, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"session_id": sessionID}).
		Where(squirrel.Expr("date::date = ?::date", date)).
		Where(squirrel.Eq{"is_deleted": false}).
		Limit(1)
	return r.FindOne(ctx, q)
}
