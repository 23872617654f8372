package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"campuscore/internal/core/apperror"
	"campuscore/internal/domain/sequence"
)

const sequenceTable = "sequence_counters"

// SequenceRepo implements sequence.Repository on PostgreSQL. Counters are
// keyed by kind; the version column carries the optimistic lock for the
// compare-and-swap discipline.
type SequenceRepo struct {
	txm *TxManager
}

var _ sequence.Repository = (*SequenceRepo)(nil)

// NewSequenceRepo creates a new sequence counter repository.
func NewSequenceRepo(txm *TxManager) *SequenceRepo {
	return &SequenceRepo{txm: txm}
}

func (r *SequenceRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *SequenceRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select("kind", "prefix", "suffix", "last_number", "padding",
			"reset_frequency", "last_allocated_at", "version").
		From(sequenceTable)
}

// Get retrieves the counter for a kind.
func (r *SequenceRepo) Get(ctx context.Context, kind sequence.Kind) (*sequence.Counter, error) {
	return r.get(ctx, kind, false)
}

// GetForUpdate retrieves the counter with a row lock. Must be called
// inside a transaction.
func (r *SequenceRepo) GetForUpdate(ctx context.Context, kind sequence.Kind) (*sequence.Counter, error) {
	return r.get(ctx, kind, true)
}

func (r *SequenceRepo) get(ctx context.Context, kind sequence.Kind, forUpdate bool) (*sequence.Counter, error) {
	q := r.baseSelect().Where(squirrel.Eq{"kind": kind})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c sequence.Counter
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sequence_counter", string(kind))
		}
		return nil, fmt.Errorf("get counter %s: %w", kind, err)
	}
	return &c, nil
}

// Update writes the counter unconditionally. Used under the row-lock
// discipline, where the lock already serializes writers.
func (r *SequenceRepo) Update(ctx context.Context, c *sequence.Counter) error {
	sql, args, err := r.builder().
		Update(sequenceTable).
		Set("prefix", c.Prefix).
		Set("suffix", c.Suffix).
		Set("last_number", c.LastNumber).
		Set("padding", c.Padding).
		Set("reset_frequency", c.ResetFrequency).
		Set("last_allocated_at", c.LastAllocatedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"kind": c.Kind}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update counter %s: %w", c.Kind, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sequence_counter", string(c.Kind))
	}
	return nil
}

// CompareAndSwap writes the counter only when the stored version still
// matches c.Version. On success the stored version advances and c.Version
// is synced; a false return with nil error means another writer won.
func (r *SequenceRepo) CompareAndSwap(ctx context.Context, c *sequence.Counter) (bool, error) {
	sql, args, err := r.builder().
		Update(sequenceTable).
		Set("last_number", c.LastNumber).
		Set("last_allocated_at", c.LastAllocatedAt).
		Set("version", c.Version+1).
		Where(squirrel.Eq{"kind": c.Kind}).
		Where(squirrel.Eq{"version": c.Version}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build cas update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("cas counter %s: %w", c.Kind, err)
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}
	c.Version++
	return true, nil
}

// Create inserts a new counter.
func (r *SequenceRepo) Create(ctx context.Context, c *sequence.Counter) error {
	sql, args, err := r.builder().
		Insert(sequenceTable).
		Columns("kind", "prefix", "suffix", "last_number", "padding",
			"reset_frequency", "last_allocated_at", "version").
		Values(c.Kind, c.Prefix, c.Suffix, c.LastNumber, c.Padding,
			c.ResetFrequency, c.LastAllocatedAt, c.Version).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert counter %s: %w", c.Kind, err)
	}
	return nil
}

// List returns all counters ordered by kind.
func (r *SequenceRepo) List(ctx context.Context) ([]*sequence.Counter, error) {
	sql, args, err := r.baseSelect().OrderBy("kind ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var counters []*sequence.Counter
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &counters, sql, args...); err != nil {
		return nil, fmt.Errorf("list counters: %w", err)
	}
	return counters, nil
}
