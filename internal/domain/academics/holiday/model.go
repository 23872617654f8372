// Package holiday provides the school holiday calendar within an
// academic session.
package holiday

import (
	"context"
	"time"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/entity"
	"campuscore/internal/core/id"
)

// Holiday is one non-working day (or named day) in a session's calendar.
type Holiday struct {
	entity.Record

	Name string `db:"name" json:"name"`

	// Date of the holiday; unique together with SessionID
	Date time.Time `db:"date" json:"date"`

	// SessionID is the owning academic session
	SessionID id.ID `db:"session_id" json:"sessionId"`

	// Recurring marks holidays that repeat every year (national days)
	Recurring bool `db:"recurring" json:"recurring"`

	Description string `db:"description" json:"description,omitempty"`
}

// New creates a holiday within a session.
func New(name string, date time.Time, sessionID id.ID) *Holiday {
	return &Holiday{
		Record:    entity.NewRecord(),
		Name:      name,
		Date:      date,
		SessionID: sessionID,
	}
}

// Validate implements entity.Validatable.
func (h *Holiday) Validate(ctx context.Context) error {
	if h.Name == "" {
		return apperror.NewValidation("holiday name is required").
			WithDetail("field", "name")
	}
	if h.Date.IsZero() {
		return apperror.NewValidation("holiday date is required").
			WithDetail("field", "date")
	}
	if id.IsNil(h.SessionID) {
		return apperror.NewValidation("session is required").
			WithDetail("field", "sessionId")
	}
	return nil
}

// SameDay reports whether the holiday falls on the given calendar day.
func (h *Holiday) SameDay(date time.Time) bool {
	y1, m1, d1 := h.Date.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
