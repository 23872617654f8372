package dto

import (
	"time"

	"campuscore/internal/core/id"
	"campuscore/internal/domain/academics/holiday"
	"campuscore/internal/domain/academics/session"
)

// --- Academic Sessions ---

// CreateSessionRequest for creating academic sessions.
type CreateSessionRequest struct {
	Name             string    `json:"name" binding:"required"`
	SemestersPerYear int       `json:"semestersPerYear"`
	Term             *int      `json:"term"`
	StartDate        time.Time `json:"startDate" binding:"required"`
	EndDate          time.Time `json:"endDate" binding:"required"`
}

// ToEntity converts the request to a session.
func (r CreateSessionRequest) ToEntity() *session.Session {
	s := session.New(r.Name, r.StartDate, r.EndDate)
	if r.SemestersPerYear != 0 {
		s.SemestersPerYear = r.SemestersPerYear
	}
	s.Term = r.Term
	return s
}

// UpdateSessionRequest for updating academic sessions.
type UpdateSessionRequest struct {
	Name             *string    `json:"name"`
	SemestersPerYear *int       `json:"semestersPerYear"`
	Term             *int       `json:"term"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	Version          int        `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request onto an existing session.
func (r UpdateSessionRequest) ApplyTo(s *session.Session) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.SemestersPerYear != nil {
		s.SemestersPerYear = *r.SemestersPerYear
	}
	if r.Term != nil {
		s.Term = r.Term
	}
	if r.StartDate != nil {
		s.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		s.EndDate = *r.EndDate
	}
	s.SetVersion(r.Version)
}

// --- Holidays ---

// CreateHolidayRequest for creating holidays.
type CreateHolidayRequest struct {
	Name        string    `json:"name" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	SessionID   string    `json:"sessionId" binding:"required"`
	Recurring   bool      `json:"recurring"`
	Description string    `json:"description"`
}

// ToEntity converts the request to a holiday.
func (r CreateHolidayRequest) ToEntity(sessionID id.ID) *holiday.Holiday {
	h := holiday.New(r.Name, r.Date, sessionID)
	h.Recurring = r.Recurring
	h.Description = r.Description
	return h
}

// UpdateHolidayRequest for updating holidays.
type UpdateHolidayRequest struct {
	Name        *string    `json:"name"`
	Date        *time.Time `json:"date"`
	Recurring   *bool      `json:"recurring"`
	Description *string    `json:"description"`
	Version     int        `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the request onto an existing holiday.
func (r UpdateHolidayRequest) ApplyTo(h *holiday.Holiday) {
	if r.Name != nil {
		h.Name = *r.Name
	}
	if r.Date != nil {
		h.Date = *r.Date
	}
	if r.Recurring != nil {
		h.Recurring = *r.Recurring
	}
	if r.Description != nil {
		h.Description = *r.Description
	}
	h.SetVersion(r.Version)
}
