package attachment

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	appctx "campuscore/internal/core/context"
	"campuscore/internal/core/entity"
	"campuscore/internal/core/id"
	"campuscore/internal/core/tx"
	"campuscore/internal/domain"
	"campuscore/pkg/logger"
)

// UploadInput carries everything needed to store a new attachment.
type UploadInput struct {
	Name        string
	MimeType    string
	Description string
	Related     entity.RelatedRef
	Content     io.Reader
}

// Service provides business logic for attachments.
type Service struct {
	*domain.RecordService[*Attachment]
	repo  Repository
	blobs BlobStore
}

// NewService creates a new attachment service.
func NewService(repo Repository, blobs BlobStore, txManager tx.Manager) *Service {
	base := domain.NewRecordService(domain.RecordServiceConfig[*Attachment]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "attachment",
	})

	return &Service{
		RecordService: base,
		repo:          repo,
		blobs:         blobs,
	}
}

// Upload stores the file bytes and creates the metadata record.
// On a metadata failure the stored blob is removed again.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*Attachment, error) {
	key := storageKey(in.Name)

	size, err := s.blobs.Put(ctx, key, in.Content)
	if err != nil {
		return nil, fmt.Errorf("store attachment bytes: %w", err)
	}

	a := &Attachment{
		Record:      entity.NewRecord(),
		RelatedRef:  in.Related,
		Name:        in.Name,
		StorageKey:  key,
		FileType:    ClassifyMime(in.MimeType),
		MimeType:    in.MimeType,
		Size:        size,
		Description: in.Description,
		UploadedBy:  appctx.GetActorID(ctx),
	}

	if err := s.Create(ctx, a); err != nil {
		if rmErr := s.blobs.Remove(ctx, key); rmErr != nil {
			logger.Warn(ctx, "orphaned blob after failed upload", "key", key, "error", rmErr)
		}
		return nil, err
	}

	return a, nil
}

// Download returns the metadata and a reader over the stored bytes.
// The caller closes the reader.
func (s *Service) Download(ctx context.Context, attachmentID id.ID) (*Attachment, io.ReadCloser, error) {
	a, err := s.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(ctx, a.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open attachment bytes: %w", err)
	}
	return a, rc, nil
}

// Remove soft-deletes the metadata record and drops the stored bytes.
func (s *Service) Remove(ctx context.Context, attachmentID id.ID) error {
	a, err := s.GetByID(ctx, attachmentID)
	if err != nil {
		return err
	}
	if err := s.Delete(ctx, attachmentID); err != nil {
		return err
	}
	if err := s.blobs.Remove(ctx, a.StorageKey); err != nil {
		// Metadata delete already committed. Blob cleanup can be retried
		// out of band, so only log.
		logger.Warn(ctx, "failed to remove attachment blob", "key", a.StorageKey, "error", err)
	}
	return nil
}

// ListForRelated returns attachments pointing at one record.
func (s *Service) ListForRelated(ctx context.Context, relatedModel, relatedObjectID string) ([]*Attachment, error) {
	return s.repo.ListForRelated(ctx, relatedModel, relatedObjectID)
}

// storageKey builds an opaque blob key, keeping the original extension so
// stored files remain inspectable on disk.
func storageKey(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return id.New().String() + ext
}
