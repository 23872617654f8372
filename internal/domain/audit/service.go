package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appctx "campuscore/internal/core/context"
	"campuscore/internal/core/id"
	"campuscore/pkg/logger"
)

// Service provides audit logging and retrieval.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new audit service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Record appends an audit entry, filling actor attribution and timestamps
// from the request context when the entry does not carry them.
func (s *Service) Record(ctx context.Context, entry *Entry) error {
	if actor := appctx.GetActor(ctx); actor != nil {
		if entry.ActorID == "" {
			entry.ActorID = actor.UserID
		}
		if entry.ActorEmail == "" {
			entry.ActorEmail = actor.Email
		}
		if entry.IPAddress == "" {
			entry.IPAddress = actor.IPAddress
		}
		if entry.UserAgent == "" {
			entry.UserAgent = actor.UserAgent
		}
	}

	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}

	if err := entry.Validate(); err != nil {
		return err
	}

	return s.repo.Insert(ctx, entry)
}

// RecordChange is a convenience method for logging record changes.
func (s *Service) RecordChange(
	ctx context.Context,
	entityType string,
	entityID id.ID,
	action Action,
	changes map[string]any,
) error {
	var changesJSON json.RawMessage
	if len(changes) > 0 {
		raw, err := json.Marshal(changes)
		if err != nil {
			return fmt.Errorf("marshal changes: %w", err)
		}
		changesJSON = raw
	}

	return s.Record(ctx, &Entry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    changesJSON,
	})
}

// List returns entries matching the filter, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]*Entry, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	return s.repo.List(ctx, f)
}

// EntityHistory returns the change history for one record.
func (s *Service) EntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.EntityHistory(ctx, entityType, entityID, limit)
}

// PurgeOlderThan removes entries past the retention window.
// Called from the maintenance worker.
func (s *Service) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-retention)
	removed, err := s.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge audit entries: %w", err)
	}
	if removed > 0 {
		logger.Info(ctx, "purged audit entries", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}
