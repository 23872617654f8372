// Package notification provides in-app user notifications: creation,
// read tracking and expiry-driven cleanup.
package notification

import (
	"context"
	"time"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/entity"
)

// Type classifies a notification for presentation.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
	TypeAlert   Type = "alert"
)

// Priority orders notifications within a recipient's feed.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Notification is a message addressed to one user.
type Notification struct {
	entity.Record
	entity.RelatedRef

	// RecipientID identifies the addressed user (external identity provider id)
	RecipientID string `db:"recipient_id" json:"recipientId"`

	Title   string `db:"title" json:"title"`
	Message string `db:"message" json:"message"`

	Type     Type     `db:"type" json:"type"`
	Priority Priority `db:"priority" json:"priority"`

	// Read tracking; ReadAt is set exactly once, on the first mark-read
	IsRead bool       `db:"is_read" json:"isRead"`
	ReadAt *time.Time `db:"read_at" json:"readAt,omitempty"`

	// ActionURL is an optional deep link shown with the notification
	ActionURL string `db:"action_url" json:"actionUrl,omitempty"`

	// ExpiresAt makes the notification eligible for the purge sweep
	ExpiresAt *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
}

// New creates a notification with defaults applied.
func New(recipientID, title, message string) *Notification {
	return &Notification{
		Record:      entity.NewRecord(),
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        TypeInfo,
		Priority:    PriorityMedium,
	}
}

// Validate implements entity.Validatable.
func (n *Notification) Validate(ctx context.Context) error {
	if n.RecipientID == "" {
		return apperror.NewValidation("recipient is required").
			WithDetail("field", "recipientId")
	}
	if n.Title == "" {
		return apperror.NewValidation("title is required").
			WithDetail("field", "title")
	}
	if !validType(n.Type) {
		return apperror.NewValidation("invalid notification type").
			WithDetail("field", "type").
			WithDetail("value", string(n.Type))
	}
	if !validPriority(n.Priority) {
		return apperror.NewValidation("invalid notification priority").
			WithDetail("field", "priority").
			WithDetail("value", string(n.Priority))
	}
	return nil
}

// MarkRead sets the read flag, stamping ReadAt on the first call only.
func (n *Notification) MarkRead(at time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	at = at.UTC()
	n.ReadAt = &at
}

// Expired reports whether the notification is past its expiry.
func (n *Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && n.ExpiresAt.Before(now)
}

func validType(t Type) bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError, TypeAlert:
		return true
	}
	return false
}

func validPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
