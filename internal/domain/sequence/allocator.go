package sequence

import (
	"context"
	"fmt"
	"time"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/tx"
)

// Mode defines the serialization discipline for an allocation.
type Mode int

const (
	// ModeRowLock takes a row-level exclusive lock for the duration of the
	// read-increment-write. Allocations for one kind queue on the lock;
	// different kinds do not interfere.
	ModeRowLock Mode = iota

	// ModeOptimistic re-reads and retries on version conflict instead of
	// locking. Faster under low contention; fails with a conflict error
	// when the retry budget is exhausted.
	ModeOptimistic
)

// Options configures allocation behavior.
type Options struct {
	// Mode to use for serializing concurrent allocations
	Mode Mode
	// MaxRetries bounds the CAS loop in ModeOptimistic. Default is 5.
	MaxRetries int
}

// DefaultOptions returns standard options (row lock).
func DefaultOptions() *Options {
	return &Options{
		Mode: ModeRowLock,
	}
}

// Allocator produces the next formatted identifier for a sequence kind.
//
// Allocations for the same kind are linearized: each call observes a
// strictly greater counter value than every call that completed before it
// started, and no value is issued twice until a reset boundary is crossed.
type Allocator struct {
	repo      Repository
	txManager tx.Manager

	// now is overridable in tests for reset-boundary checks
	now func() time.Time
}

// NewAllocator creates an allocator backed by the given repository.
func NewAllocator(repo Repository, txManager tx.Manager) *Allocator {
	return &Allocator{
		repo:      repo,
		txManager: txManager,
		now:       time.Now,
	}
}

// Allocate reserves the next number for kind and returns it formatted as
// prefix + zero-padded number + suffix.
//
// Fails with a not-found error when kind has no configured counter, and
// with a conflict error when the optimistic retry budget is exhausted;
// the caller may retry with backoff. A failed persist never leaves a
// visible increment behind.
func (a *Allocator) Allocate(ctx context.Context, kind Kind, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	switch opts.Mode {
	case ModeOptimistic:
		return a.allocateOptimistic(ctx, kind, opts)
	case ModeRowLock:
		fallthrough
	default:
		return a.allocateRowLock(ctx, kind)
	}
}

// allocateRowLock performs the read-increment-write under a row lock.
func (a *Allocator) allocateRowLock(ctx context.Context, kind Kind) (string, error) {
	var formatted string

	err := a.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := a.repo.GetForUpdate(ctx, kind)
		if err != nil {
			return err
		}

		a.advance(c)

		if err := a.repo.Update(ctx, c); err != nil {
			return fmt.Errorf("persist counter %s: %w", kind, err)
		}

		formatted = c.Format(c.LastNumber)
		return nil
	})
	if err != nil {
		return "", err
	}

	return formatted, nil
}

// allocateOptimistic performs a bounded compare-and-swap retry loop.
func (a *Allocator) allocateOptimistic(ctx context.Context, kind Kind, opts *Options) (string, error) {
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = 5
	}

	for attempt := 0; attempt < retries; attempt++ {
		c, err := a.repo.Get(ctx, kind)
		if err != nil {
			return "", err
		}

		a.advance(c)

		swapped, err := a.repo.CompareAndSwap(ctx, c)
		if err != nil {
			return "", fmt.Errorf("persist counter %s: %w", kind, err)
		}
		if swapped {
			return c.Format(c.LastNumber), nil
		}
	}

	return "", apperror.NewConcurrentModification("sequence_counter", string(kind)).
		WithDetail("retries", retries)
}

// advance applies the reset boundary, increments and stamps the counter.
func (a *Allocator) advance(c *Counter) {
	now := a.now().UTC()
	if c.needsReset(now) {
		c.LastNumber = 0
	}
	c.LastNumber++
	c.LastAllocatedAt = &now
}

// Peek returns the counter state for kind without mutating it.
func (a *Allocator) Peek(ctx context.Context, kind Kind) (*Counter, error) {
	return a.repo.Get(ctx, kind)
}

// SetLast overrides the stored counter value; the next allocation returns
// last+1. Intended for migrations and administrative corrections.
func (a *Allocator) SetLast(ctx context.Context, kind Kind, last uint64) error {
	return a.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := a.repo.GetForUpdate(ctx, kind)
		if err != nil {
			return err
		}
		now := a.now().UTC()
		c.LastNumber = last
		c.LastAllocatedAt = &now
		return a.repo.Update(ctx, c)
	})
}

// List returns all configured counters.
func (a *Allocator) List(ctx context.Context) ([]*Counter, error) {
	return a.repo.List(ctx)
}

// Ensure creates the counter for kind if it does not exist yet.
// Used by setup seeding; existing counters are left untouched.
func (a *Allocator) Ensure(ctx context.Context, c *Counter) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	_, err := a.repo.Get(ctx, c.Kind)
	if err == nil {
		return nil
	}
	if !apperror.IsNotFound(err) {
		return err
	}
	return a.repo.Create(ctx, c)
}
