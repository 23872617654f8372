package record_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"campuscore/internal/domain/attachment"
	"campuscore/internal/infrastructure/storage/postgres"
)

// AttachmentRepo implements attachment.Repository.
type AttachmentRepo struct {
	*BaseRecordRepo[*attachment.Attachment]
}

var _ attachment.Repository = (*AttachmentRepo)(nil)

// NewAttachmentRepo creates a new attachment metadata repository.
func NewAttachmentRepo(txm *postgres.TxManager) *AttachmentRepo {
	return &AttachmentRepo{
		BaseRecordRepo: NewBaseRecordRepo(
			txm,
			"file_attachments",
			postgres.ExtractDBColumns[attachment.Attachment](),
			[]string{"name", "description"},
			func() *attachment.Attachment { return &attachment.Attachment{} },
		),
	}
}

// ListForRelated returns attachments pointing at one record, newest first.
func (r *AttachmentRepo) ListForRelated(ctx context.Context, relatedModel, relatedObjectID string) ([]*attachment.Attachment, error) {
	q := r.BaseSelect().
		Where(squirrel.Eq{"related_model": relatedModel}).
		Where(squirrel.Eq{"related_object_id": relatedObjectID}).
		Where(squirrel.Eq{"is_deleted": false}).
		OrderBy("created_at DESC")
	return r.FindMany(ctx, q)
}
