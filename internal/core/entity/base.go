package entity

import (
	"context"
	"time"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Status is the lifecycle state shared by all records.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusPending   Status = "pending"
	StatusSuspended Status = "suspended"
	StatusArchived  Status = "archived"
)

// ValidStatus reports whether s is a known status value.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending, StatusSuspended, StatusArchived:
		return true
	}
	return false
}

///////////////////
// Base Record   //
///////////////////

// Record contains common fields for all persisted entities: UUIDv7 primary
// key, creation/update timestamps, status tracking, soft delete and an
// optimistic lock counter.
//
// Status and deletion changes go through the explicit methods below; there
// are no implicit save hooks. Services call these before persisting.
type Record struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Status with the timestamp of its last transition
	Status          Status    `db:"status" json:"status"`
	StatusChangedAt time.Time `db:"status_changed_at" json:"statusChangedAt"`

	// Soft delete
	IsDeleted bool       `db:"is_deleted" json:"isDeleted"`
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`
}

// NewRecord creates a new Record with generated ID and timestamps.
func NewRecord() Record {
	now := time.Now().UTC()
	return Record{
		ID:              id.New(),
		CreatedAt:       now,
		UpdatedAt:       now,
		Status:          StatusActive,
		StatusChangedAt: now,
		Version:         1,
	}
}

// Touch updates the UpdatedAt timestamp and increments version.
func (r *Record) Touch() {
	r.UpdatedAt = time.Now().UTC()
	r.Version++
}

// SetStatus transitions the record to a new status, stamping
// StatusChangedAt only when the status actually changes.
func (r *Record) SetStatus(s Status) error {
	if !ValidStatus(s) {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(s))
	}
	if r.Status != s {
		r.Status = s
		r.StatusChangedAt = time.Now().UTC()
	}
	return nil
}

// MarkDeleted soft-deletes the record.
func (r *Record) MarkDeleted() {
	now := time.Now().UTC()
	r.IsDeleted = true
	r.DeletedAt = &now
}

// Restore clears the soft-delete flag.
func (r *Record) Restore() {
	r.IsDeleted = false
	r.DeletedAt = nil
}

// SetVersion updates the version number (used by repository after sync).
func (r *Record) SetVersion(v int) {
	r.Version = v
}
