package attachment

import (
	"context"
	"io"

	"campuscore/internal/domain"
)

// BlobStore abstracts where file bytes live. The service only sees opaque
// keys; the local-disk implementation is in internal/infrastructure/blob.
type BlobStore interface {
	// Put stores the stream under key and returns the byte count written.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open returns a reader for the stored bytes.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes the stored bytes. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Repository defines the interface for attachment metadata persistence.
type Repository interface {
	domain.RecordRepository[*Attachment]

	// ListForRelated returns attachments pointing at one record, newest first.
	ListForRelated(ctx context.Context, relatedModel, relatedObjectID string) ([]*Attachment, error)
}
