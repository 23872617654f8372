package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "campuscore/internal/core/context"
	"campuscore/internal/core/id"
)

type memRepo struct {
	entries []*Entry
}

func (r *memRepo) Insert(ctx context.Context, entry *Entry) error {
	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *memRepo) List(ctx context.Context, f Filter) ([]*Entry, error) {
	var out []*Entry
	for _, e := range r.entries {
		if f.ActorID != "" && e.ActorID != f.ActorID {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memRepo) EntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]*Entry, error) {
	var out []*Entry
	for _, e := range r.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var kept []*Entry
	var removed int64
	for _, e := range r.entries {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}

func TestRecord_EnrichesFromActorContext(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)

	ctx := appctx.WithActor(context.Background(), &appctx.Actor{
		UserID:    "u-17",
		Email:     "head@school.test",
		IPAddress: "10.0.0.9",
		UserAgent: "curl/8.0",
	})

	err := svc.Record(ctx, &Entry{
		Action:     ActionUpdate,
		EntityType: "academic_session",
		EntityID:   id.New(),
	})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)

	got := repo.entries[0]
	assert.Equal(t, "u-17", got.ActorID)
	assert.Equal(t, "head@school.test", got.ActorEmail)
	assert.Equal(t, "10.0.0.9", got.IPAddress)
	assert.Equal(t, "curl/8.0", got.UserAgent)
	assert.False(t, id.IsNil(got.ID))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRecord_RejectsInvalidAction(t *testing.T) {
	svc := NewService(&memRepo{})

	err := svc.Record(context.Background(), &Entry{
		Action:     Action("explode"),
		EntityType: "holiday",
	})
	require.Error(t, err)
}

func TestPurgeOlderThan(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	old := &Entry{ID: id.New(), Action: ActionView, EntityType: "notification", CreatedAt: base.AddDate(0, -7, 0)}
	fresh := &Entry{ID: id.New(), Action: ActionView, EntityType: "notification", CreatedAt: base.AddDate(0, 0, -3)}
	repo.entries = []*Entry{old, fresh}

	removed, err := svc.PurgeOlderThan(context.Background(), 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, fresh.ID, repo.entries[0].ID)
}

func TestDiff(t *testing.T) {
	oldState := map[string]any{"name": "Term 1", "weeks": 12, "head": "a"}
	newState := map[string]any{"name": "Term 1", "weeks": 14, "deputy": "b"}

	changes := Diff(oldState, newState)

	assert.NotContains(t, changes, "name")
	assert.Equal(t, map[string]any{"old": 12, "new": 14}, changes["weeks"])
	assert.Equal(t, map[string]any{"old": nil, "new": "b"}, changes["deputy"])
	assert.Equal(t, map[string]any{"old": "a", "new": nil}, changes["head"])
}
