// Package audit records who did what to which record. Entries are
// append-only; they are never updated after the fact.
package audit

import (
	"encoding/json"
	"time"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionLogin  Action = "login"
	ActionLogout Action = "logout"
	ActionView   Action = "view"
	ActionExport Action = "export"
	ActionImport Action = "import"
)

// ValidAction reports whether a is a known audit action.
func ValidAction(a Action) bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionLogin,
		ActionLogout, ActionView, ActionExport, ActionImport:
		return true
	}
	return false
}

// Entry is a single audit log record.
type Entry struct {
	ID         id.ID           `db:"id" json:"id"`
	ActorID    string          `db:"actor_id" json:"actorId"`
	ActorEmail string          `db:"actor_email" json:"actorEmail,omitempty"`
	Action     Action          `db:"action" json:"action"`
	EntityType string          `db:"entity_type" json:"entityType"`
	EntityID   id.ID           `db:"entity_id" json:"entityId"`
	EntityRepr string          `db:"entity_repr" json:"entityRepr,omitempty"`
	Changes    json.RawMessage `db:"changes" json:"changes,omitempty"`
	IPAddress  string          `db:"ip_address" json:"ipAddress,omitempty"`
	UserAgent  string          `db:"user_agent" json:"userAgent,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// Validate checks the entry before it is persisted.
func (e *Entry) Validate() error {
	if !ValidAction(e.Action) {
		return apperror.NewValidation("invalid audit action").
			WithDetail("field", "action").
			WithDetail("value", string(e.Action))
	}
	if e.EntityType == "" {
		return apperror.NewValidation("entity type is required").
			WithDetail("field", "entityType")
	}
	return nil
}

// Diff calculates the field-level difference between two record states.
// Each changed key maps to {"old": ..., "new": ...}.
func Diff(oldState, newState map[string]any) map[string]any {
	changes := make(map[string]any)

	for key, newVal := range newState {
		oldVal, exists := oldState[key]
		if !exists {
			changes[key] = map[string]any{"old": nil, "new": newVal}
		} else if !equal(oldVal, newVal) {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}

	for key, oldVal := range oldState {
		if _, exists := newState[key]; !exists {
			changes[key] = map[string]any{"old": oldVal, "new": nil}
		}
	}

	return changes
}

func equal(a, b any) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}
