package session

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
	byID map[id.ID]*Session
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[id.ID]*Session)}
}

func (r *memRepo) Create(ctx context.Context, s *Session) error {
	clone := *s
	r.byID[s.ID] = &clone
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, sid id.ID) (*Session, error) {
	s, ok := r.byID[sid]
	if !ok {
		return nil, apperror.NewNotFound("academic_session", sid)
	}
	clone := *s
	return &clone, nil
}

func (r *memRepo) Update(ctx context.Context, s *Session) error {
	if _, ok := r.byID[s.ID]; !ok {
		return apperror.NewNotFound("academic_session", s.ID)
	}
	clone := *s
	r.byID[s.ID] = &clone
	return nil
}

func (r *memRepo) Delete(ctx context.Context, sid id.ID) error {
	return r.SetDeleted(ctx, sid, true)
}

func (r *memRepo) SetDeleted(ctx context.Context, sid id.ID, deleted bool) error {
	s, ok := r.byID[sid]
	if !ok {
		return apperror.NewNotFound("academic_session", sid)
	}
	if deleted {
		s.MarkDeleted()
	} else {
		s.Restore()
	}
	return nil
}

func (r *memRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Session], error) {
	var items []*Session
	for _, s := range r.byID {
		if s.IsDeleted && !f.IncludeDeleted {
			continue
		}
		clone := *s
		items = append(items, &clone)
	}
	return domain.ListResult[*Session]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *memRepo) Exists(ctx context.Context, sid id.ID) (bool, error) {
	_, ok := r.byID[sid]
	return ok, nil
}

func (r *memRepo) GetCurrent(ctx context.Context) (*Session, error) {
	for _, s := range r.byID {
		if s.IsCurrent && !s.IsDeleted {
			clone := *s
			return &clone, nil
		}
	}
	return nil, apperror.NewNotFound("academic_session", "current")
}

func (r *memRepo) GetForUpdate(ctx context.Context, sid id.ID) (*Session, error) {
	return r.GetByID(ctx, sid)
}

func (r *memRepo) ClearCurrent(ctx context.Context, exceptID id.ID) error {
	for _, s := range r.byID {
		if s.ID != exceptID {
			s.IsCurrent = false
		}
	}
	return nil
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

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		s := New("2026/2027", date(2026, 9, 1), date(2027, 7, 15))
		assert.NoError(t, s.Validate(ctx))
	})

	t.Run("end before start", func(t *testing.T) {
		s := New("2026/2027", date(2027, 7, 15), date(2026, 9, 1))
		assert.Error(t, s.Validate(ctx))
	})

	t.Run("end equals start", func(t *testing.T) {
		d := date(2026, 9, 1)
		s := New("2026/2027", d, d)
		assert.Error(t, s.Validate(ctx))
	})

	t.Run("term exceeds semesters", func(t *testing.T) {
		s := New("2026/2027 Term 3", date(2026, 9, 1), date(2026, 12, 20))
		term := 3
		s.Term = &term
		s.SemestersPerYear = 2
		assert.Error(t, s.Validate(ctx))

		s.SemestersPerYear = 3
		assert.NoError(t, s.Validate(ctx))
	})

	t.Run("invalid semesters", func(t *testing.T) {
		s := New("x", date(2026, 9, 1), date(2027, 7, 15))
		s.SemestersPerYear = 4
		assert.Error(t, s.Validate(ctx))
	})
}

func TestSetCurrent_SingleCurrentInvariant(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	a := New("2025/2026", date(2025, 9, 1), date(2026, 7, 15))
	b := New("2026/2027", date(2026, 9, 1), date(2027, 7, 15))
	require.NoError(t, svc.Create(ctx, a))
	require.NoError(t, svc.Create(ctx, b))

	_, err := svc.SetCurrent(ctx, a.ID)
	require.NoError(t, err)

	got, err := svc.SetCurrent(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCurrent)

	current := 0
	for _, s := range repo.byID {
		if s.IsCurrent {
			current++
			assert.Equal(t, b.ID, s.ID)
		}
	}
	assert.Equal(t, 1, current)
}

func TestSetCurrent_UnknownSession(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.SetCurrent(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestForDate_PrefersCurrent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Overlapping: a full year and one of its terms.
	year := New("2026/2027", date(2026, 9, 1), date(2027, 7, 15))
	term := New("2026/2027 Term 1", date(2026, 9, 1), date(2026, 12, 18))
	one := 1
	term.Term = &one
	require.NoError(t, svc.Create(ctx, year))
	require.NoError(t, svc.Create(ctx, term))

	_, err := svc.SetCurrent(ctx, term.ID)
	require.NoError(t, err)

	got, err := svc.ForDate(ctx, date(2026, 10, 5))
	require.NoError(t, err)
	assert.Equal(t, term.ID, got.ID)

	_, err = svc.ForDate(ctx, date(2030, 1, 1))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
