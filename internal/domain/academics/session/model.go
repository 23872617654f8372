// Package session provides academic sessions (school years and their terms).
package session

import (
	"context"
	"fmt"
	"time"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/entity"
)

// Session is one academic year, optionally narrowed to a term.
type Session struct {
	entity.Record

	// Name like "2026/2027" or "2026/2027 Term 1"
	Name string `db:"name" json:"name"`

	// SemestersPerYear is 2 or 3 depending on the school calendar
	SemestersPerYear int `db:"semesters_per_year" json:"semestersPerYear"`

	// Term narrows the session to one term when set (1..SemestersPerYear)
	Term *int `db:"term" json:"term,omitempty"`

	StartDate time.Time `db:"start_date" json:"startDate"`
	EndDate   time.Time `db:"end_date" json:"endDate"`

	// IsCurrent marks the single active session; changed only through
	// Service.SetCurrent
	IsCurrent bool `db:"is_current" json:"isCurrent"`
}

// New creates a session covering the given dates.
func New(name string, start, end time.Time) *Session {
	return &Session{
		Record:           entity.NewRecord(),
		Name:             name,
		SemestersPerYear: 2,
		StartDate:        start,
		EndDate:          end,
	}
}

// Validate implements entity.Validatable.
func (s *Session) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("session name is required").
			WithDetail("field", "name")
	}
	if s.SemestersPerYear != 2 && s.SemestersPerYear != 3 {
		return apperror.NewValidation("semesters per year must be 2 or 3").
			WithDetail("field", "semestersPerYear").
			WithDetail("value", s.SemestersPerYear)
	}
	if s.StartDate.IsZero() || s.EndDate.IsZero() {
		return apperror.NewValidation("start and end dates are required").
			WithDetail("field", "startDate")
	}
	if !s.EndDate.After(s.StartDate) {
		return apperror.NewValidation("end date must be after start date").
			WithDetail("startDate", s.StartDate.Format("2006-01-02")).
			WithDetail("endDate", s.EndDate.Format("2006-01-02"))
	}
	if s.Term != nil && (*s.Term < 1 || *s.Term > s.SemestersPerYear) {
		return apperror.NewValidation(
			fmt.Sprintf("term must be between 1 and %d", s.SemestersPerYear)).
			WithDetail("field", "term").
			WithDetail("value", *s.Term)
	}
	return nil
}

// Contains reports whether the date falls within the session.
func (s *Session) Contains(date time.Time) bool {
	return !date.Before(s.StartDate) && !date.After(s.EndDate)
}
