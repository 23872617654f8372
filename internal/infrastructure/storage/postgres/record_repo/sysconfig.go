package record_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"campuscore/internal/domain/sysconfig"
	"campuscore/internal/infrastructure/storage/postgres"
)

// ConfigRepo implements sysconfig.Repository.
type ConfigRepo struct {
	*BaseRecordRepo[*sysconfig.Config]
}

var _ sysconfig.Repository = (*ConfigRepo)(nil)

// NewConfigRepo creates a new system configuration repository.
func NewConfigRepo(txm *postgres.TxManager) *ConfigRepo {
	return &ConfigRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txm,
			"system_configs",
			postgres.ExtractDBColumns[sysconfig.Config](),
			[]string{"key", "description"},
			func() *sysconfig.Config { return &sysconfig.Config{} },
		),
	}
}

// GetByKey returns the entry for the unique key.
func (r *ConfigRepo) GetByKey(ctx context.Context, key string) (*sysconfig.Config, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"key": key}).
		Where(squirrel.Eq{"is_deleted": false}).
		Limit(1)
	return r.FindOne(ctx, q)
}

// ListByCategory returns entries in one category, ordered by key.
func (r *ConfigRepo) ListByCategory(ctx context.Context, category sysconfig.Category) ([]*sysconfig.Config, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"category": category}).
		Where(squirrel.Eq{"is_deleted": false}).
		OrderBy("key ASC")
	return r.FindMany(ctx, q)
}

// ListPublic returns entries readable without authentication.
func (r *ConfigRepo) ListPublic(ctx context.Context) ([]*sysconfig.Config, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"is_public": true}).
		Where(squirrel.Eq{"is_deleted": false}).
		OrderBy("key ASC")
	return r.FindMany(ctx, q)
}
