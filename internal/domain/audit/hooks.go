package audit

import (
	"context"

	"campuscore/internal/core/entity"
	"campuscore/internal/core/id"
	"campuscore/internal/domain"
)

// AttachRecordHooks subscribes the audit trail to an entity's lifecycle.
// Entries are written after the change commits; the actor comes from the
// request context.
func AttachRecordHooks[T entity.Validatable](
	registry *domain.HookRegistry[T],
	svc *Service,
	entityType string,
	idOf func(T) id.ID,
) {
	registry.OnAfterCreate(func(ctx context.Context, e T) error {
		return svc.RecordChange(ctx, entityType, idOf(e), ActionCreate, map[string]any{"new": e})
	})
	registry.OnAfterUpdate(func(ctx context.Context, e T) error {
		return svc.RecordChange(ctx, entityType, idOf(e), ActionUpdate, map[string]any{"new": e})
	})
	registry.OnAfterDelete(func(ctx context.Context, e T) error {
		return svc.RecordChange(ctx, entityType, idOf(e), ActionDelete, map[string]any{"old": e})
	})
}
