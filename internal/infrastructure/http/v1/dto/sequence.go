package dto

import (
	"time"

	"campuscore/internal/domain/sequence"
)

// AllocateRequest selects the locking discipline for an allocation.
type AllocateRequest struct {
	// Mode is "row_lock" (default) or "optimistic".
	Mode       string `json:"mode"`
	MaxRetries int    `json:"maxRetries" binding:"omitempty,min=1,max=20"`
}

// AllocateResponse carries the freshly formatted identifier.
type AllocateResponse struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// SetLastRequest moves a counter to a new last-allocated number.
type SetLastRequest struct {
	LastNumber uint64 `json:"lastNumber"`
}

// CounterResponse describes a counter without advancing it.
type CounterResponse struct {
	Kind            string     `json:"kind"`
	Prefix          string     `json:"prefix,omitempty"`
	Suffix          string     `json:"suffix,omitempty"`
	LastNumber      uint64     `json:"lastNumber"`
	Padding         int        `json:"padding"`
	ResetFrequency  string     `json:"resetFrequency"`
	LastAllocatedAt *time.Time `json:"lastAllocatedAt,omitempty"`
	NextValue       string     `json:"nextValue"`
}

// FromCounter creates CounterResponse from sequence.Counter.
func FromCounter(c *sequence.Counter) CounterResponse {
	return CounterResponse{
		Kind:            string(c.Kind),
		Prefix:          c.Prefix,
		Suffix:          c.Suffix,
		LastNumber:      c.LastNumber,
		Padding:         c.Padding,
		ResetFrequency:  string(c.ResetFrequency),
		LastAllocatedAt: c.LastAllocatedAt,
		NextValue:       c.Format(c.LastNumber + 1),
	}
}
