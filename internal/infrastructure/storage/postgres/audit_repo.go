package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	"campuscore/internal/core/id"
	"campuscore/internal/domain/audit"
)

const auditTable = "audit_log"

// compressionAlgo marks how the changes payload is stored.
type compressionAlgo string

const (
	compressionNone compressionAlgo = "none"
	compressionZstd compressionAlgo = "zstd"
)

// defaultCompressThreshold is the changes-payload size above which rows
// are stored zstd-compressed.
const defaultCompressThreshold = 10 * 1024

// AuditRepo implements audit.Repository. Large change payloads are stored
// zstd-compressed and decompressed transparently on read.
type AuditRepo struct {
	txm               *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ audit.Repository = (*AuditRepo)(nil)

// NewAuditRepo creates a new audit log repository.
func NewAuditRepo(txm *TxManager) (*AuditRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditRepo{
		txm:               txm,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: defaultCompressThreshold,
	}, nil
}

func (r *AuditRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Insert appends an entry, compressing the changes payload when large.
func (r *AuditRepo) Insert(ctx context.Context, entry *audit.Entry) error {
	changes := []byte(entry.Changes)
	var compressed []byte
	algo := compressionNone
	if len(changes) > r.compressThreshold {
		compressed = r.encoder.EncodeAll(changes, nil)
		changes = nil
		algo = compressionZstd
	}

	sql, args, err := r.builder().
		Insert(auditTable).
		Columns("id", "actor_id", "actor_email", "action",
			"entity_type", "entity_id", "entity_repr",
			"changes", "changes_compressed", "compression_algo",
			"ip_address", "user_agent", "created_at").
		Values(entry.ID, entry.ActorID, entry.ActorEmail, entry.Action,
			entry.EntityType, entry.EntityID, entry.EntityRepr,
			changes, compressed, algo,
			entry.IPAddress, entry.UserAgent, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List returns entries matching the filter, newest first.
func (r *AuditRepo) List(ctx context.Context, f audit.Filter) ([]*audit.Entry, error) {
	q := r.baseSelect()

	if f.ActorID != "" {
		q = q.Where(squirrel.Eq{"actor_id": f.ActorID})
	}
	if f.EntityType != "" {
		q = q.Where(squirrel.Eq{"entity_type": f.EntityType})
	}
	if !id.IsNil(f.EntityID) {
		q = q.Where(squirrel.Eq{"entity_id": f.EntityID})
	}
	if f.Action != "" {
		q = q.Where(squirrel.Eq{"action": f.Action})
	}
	if !f.From.IsZero() {
		q = q.Where(squirrel.GtOrEq{"created_at": f.From})
	}
	if !f.To.IsZero() {
		q = q.Where(squirrel.Lt{"created_at": f.To})
	}

	q = q.OrderBy("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	return r.queryEntries(ctx, q)
}

// EntityHistory returns the change history for one record, newest first.
func (r *AuditRepo) EntityHistory(ctx context.Context, entityType string, entityID id.ID, limit int) ([]*audit.Entry, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"entity_type": entityType}).
		Where(squirrel.Eq{"entity_id": entityID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	return r.queryEntries(ctx, q)
}

// DeleteBefore removes entries created before the cutoff.
func (r *AuditRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	sql, args, err := r.builder().
		Delete(auditTable).
		Where(squirrel.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete audit entries: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *AuditRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select("id", "actor_id", "actor_email", "action",
			"entity_type", "entity_id", "entity_repr",
			"changes", "changes_compressed", "compression_algo",
			"ip_address", "user_agent", "created_at").
		From(auditTable)
}

func (r *AuditRepo) queryEntries(ctx context.Context, q squirrel.SelectBuilder) ([]*audit.Entry, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		var (
			e          audit.Entry
			compressed []byte
			algo       compressionAlgo
		)
		err := rows.Scan(
			&e.ID, &e.ActorID, &e.ActorEmail, &e.Action,
			&e.EntityType, &e.EntityID, &e.EntityRepr,
			&e.Changes, &compressed, &algo,
			&e.IPAddress, &e.UserAgent, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		if algo == compressionZstd && len(compressed) > 0 {
			decompressed, err := r.decoder.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress audit changes: %w", err)
			}
			e.Changes = decompressed
		}

		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
