// Package sequence provides collision-free generation of formatted
// identifiers (student IDs, invoice numbers) from named counters.
package sequence

import (
	"context"
	"fmt"
	"time"

	"campuscore/internal/core/apperror"
)

// Kind identifies the category of number being generated.
type Kind string

const (
	KindStudentID    Kind = "student_id"
	KindEmployeeID   Kind = "employee_id"
	KindInvoice      Kind = "invoice"
	KindReceipt      Kind = "receipt"
	KindLibraryBook  Kind = "library_book"
	KindTransportBus Kind = "transport_bus"
)

// AllKinds lists every known sequence kind, in seed order.
func AllKinds() []Kind {
	return []Kind{
		KindStudentID,
		KindEmployeeID,
		KindInvoice,
		KindReceipt,
		KindLibraryBook,
		KindTransportBus,
	}
}

// ValidKind reports whether k names a known sequence kind.
func ValidKind(k Kind) bool {
	switch k {
	case KindStudentID, KindEmployeeID, KindInvoice, KindReceipt,
		KindLibraryBook, KindTransportBus:
		return true
	}
	return false
}

// ResetFrequency controls when a counter restarts from zero.
type ResetFrequency string

const (
	ResetNever   ResetFrequency = "never"
	ResetYearly  ResetFrequency = "yearly"
	ResetMonthly ResetFrequency = "monthly"
	ResetDaily   ResetFrequency = "daily"
)

// ValidResetFrequency reports whether f is a known reset frequency.
func ValidResetFrequency(f ResetFrequency) bool {
	switch f {
	case ResetNever, ResetYearly, ResetMonthly, ResetDaily:
		return true
	}
	return false
}

// Counter is the persisted state of one sequence kind. One row per kind,
// created at setup time (or lazily) and mutated in place on every
// allocation; never deleted.
type Counter struct {
	Kind           Kind           `db:"kind" json:"kind"`
	Prefix         string         `db:"prefix" json:"prefix"`
	Suffix         string         `db:"suffix" json:"suffix"`
	LastNumber     uint64         `db:"last_number" json:"lastNumber"`
	Padding        int            `db:"padding" json:"padding"`
	ResetFrequency ResetFrequency `db:"reset_frequency" json:"resetFrequency"`

	// LastAllocatedAt records when the counter last moved. Reset-boundary
	// detection compares this against the start of the current period;
	// without it a restart after midnight/new year would be undetectable.
	LastAllocatedAt *time.Time `db:"last_allocated_at" json:"lastAllocatedAt,omitempty"`

	// Version for optimistic locking in the compare-and-swap discipline
	Version int `db:"version" json:"version"`
}

// NewCounter creates a counter with defaults matching setup seeding.
func NewCounter(kind Kind) *Counter {
	return &Counter{
		Kind:           kind,
		Padding:        6,
		ResetFrequency: ResetNever,
		Version:        1,
	}
}

// Validate implements entity.Validatable.
func (c *Counter) Validate(ctx context.Context) error {
	if !ValidKind(c.Kind) {
		return apperror.NewValidation("unknown sequence kind").
			WithDetail("field", "kind").
			WithDetail("value", string(c.Kind))
	}
	if c.Padding < 1 || c.Padding > 10 {
		return apperror.NewValidation("padding must be between 1 and 10").
			WithDetail("field", "padding").
			WithDetail("value", c.Padding)
	}
	if !ValidResetFrequency(c.ResetFrequency) {
		return apperror.NewValidation("invalid reset frequency").
			WithDetail("field", "resetFrequency").
			WithDetail("value", string(c.ResetFrequency))
	}
	return nil
}

// Format renders a raw counter value as the externally visible identifier.
func (c *Counter) Format(n uint64) string {
	return fmt.Sprintf("%s%0*d%s", c.Prefix, c.Padding, n, c.Suffix)
}

// periodStart returns the beginning of the period containing t, or the zero
// time for counters that never reset.
func periodStart(freq ResetFrequency, t time.Time) time.Time {
	switch freq {
	case ResetYearly:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
	case ResetMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case ResetDaily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	default:
		return time.Time{}
	}
}

// needsReset reports whether a reset boundary was crossed since the last
// allocation. A counter that never allocated keeps its stored LastNumber.
func (c *Counter) needsReset(now time.Time) bool {
	if c.ResetFrequency == ResetNever || c.LastAllocatedAt == nil {
		return false
	}
	return c.LastAllocatedAt.Before(periodStart(c.ResetFrequency, now))
}
