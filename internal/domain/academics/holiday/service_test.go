package holiday

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/id"
	"campuscore/internal/domain"
)

type memRepo struct {
	byID map[id.ID]*Holiday
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[id.ID]*Holiday)}
}

func (r *memRepo) Create(ctx context.Context, h *Holiday) error {
	clone := *h
	r.byID[h.ID] = &clone
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, hid id.ID) (*Holiday, error) {
	h, ok := r.byID[hid]
	if !ok {
		return nil, apperror.NewNotFound("holiday", hid)
	}
	clone := *h
	return &clone, nil
}

func (r *memRepo) Update(ctx context.Context, h *Holiday) error {
	if _, ok := r.byID[h.ID]; !ok {
		return apperror.NewNotFound("holiday", h.ID)
	}
	clone := *h
	r.byID[h.ID] = &clone
	return nil
}

func (r *memRepo) Delete(ctx context.Context, hid id.ID) error {
	return r.SetDeleted(ctx, hid, true)
}

func (r *memRepo) SetDeleted(ctx context.Context, hid id.ID, deleted bool) error {
	h, ok := r.byID[hid]
	if !ok {
		return apperror.NewNotFound("holiday", hid)
	}
	if deleted {
		h.MarkDeleted()
	} else {
		h.Restore()
	}
	return nil
}

func (r *memRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Holiday], error) {
	var items []*Holiday
	for _, h := range r.byID {
		if h.IsDeleted && !f.IncludeDeleted {
			continue
		}
		clone := *h
		items = append(items, &clone)
	}
	return domain.ListResult[*Holiday]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *memRepo) Exists(ctx context.Context, hid id.ID) (bool, error) {
	_, ok := r.byID[hid]
	return ok, nil
}

func (r *memRepo) ListForSession(ctx context.Context, sessionID id.ID) ([]*Holiday, error) {
	var items []*Holiday
	for _, h := range r.byID {
		if h.SessionID == sessionID && !h.IsDeleted {
			clone := *h
			items = append(items, &clone)
		}
	}
	return items, nil
}

func (r *memRepo) FindByDate(ctx context.Context, sessionID id.ID, day time.Time) (*Holiday, error) {
	for _, h := range r.byID {
		if h.SessionID == sessionID && !h.IsDeleted && h.SameDay(day) {
			clone := *h
			return &clone, nil
		}
	}
	return nil, apperror.NewNotFound("holiday", day.Format("2006-01-02"))
}

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService() (*Service, *memRepo) {
	repo := newMemRepo()
	return NewService(repo, noopTxManager{}), repo
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreate_RejectsDuplicateDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	sessionID := id.New()

	first := New("Christmas", date(2026, 12, 25), sessionID)
	require.NoError(t, svc.Create(ctx, first))

	dup := New("Another Christmas", date(2026, 12, 25), sessionID)
	err := svc.Create(ctx, dup)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestCreate_SameDateDifferentSessions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	require.NoError(t, svc.Create(ctx, New("Christmas", date(2026, 12, 25), id.New())))
	require.NoError(t, svc.Create(ctx, New("Christmas", date(2026, 12, 25), id.New())))
}

func TestUpdate_OwnDateIsNotDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	sessionID := id.New()

	h := New("Founders Day", date(2027, 3, 10), sessionID)
	require.NoError(t, svc.Create(ctx, h))

	h.Description = "school closed"
	require.NoError(t, svc.Update(ctx, h))
}

func TestIsHoliday(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	sessionID := id.New()

	require.NoError(t, svc.Create(ctx, New("Eid", date(2027, 3, 20), sessionID)))

	got, err := svc.IsHoliday(ctx, sessionID, date(2027, 3, 20))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = svc.IsHoliday(ctx, sessionID, date(2027, 3, 21))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestListForSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	sessionID := id.New()

	require.NoError(t, svc.Create(ctx, New("Christmas", date(2026, 12, 25), sessionID)))
	require.NoError(t, svc.Create(ctx, New("New Year", date(2027, 1, 1), sessionID)))
	require.NoError(t, svc.Create(ctx, New("Elsewhere", date(2027, 1, 1), id.New())))

	items, err := svc.ListForSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
