// Package blob provides the local-disk implementation of the attachment
// byte store.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"campuscore/internal/core/apperror"
	"campuscore/internal/domain/attachment"
)

// FilesystemStore stores blobs as files under a root directory. Keys are
// opaque names issued by the attachment service; anything resembling a
// path is rejected.
type FilesystemStore struct {
	root string
}

var _ attachment.BlobStore = (*FilesystemStore)(nil)

// NewFilesystemStore creates the root directory if needed.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &FilesystemStore{root: root}, nil
}

// Put stores the stream under key. The write goes to a temp file first so
// a partial upload never becomes visible under the final key.
func (s *FilesystemStore) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	path, err := s.path(key)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	size, err := io.Copy(tmp, r)
	if cErr := tmp.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		return 0, fmt.Errorf("write blob %s: %w", key, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("finalize blob %s: %w", key, err)
	}
	return size, nil
}

// Open returns a reader for the stored bytes.
func (s *FilesystemStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperror.NewNotFound("blob", key)
		}
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}
	return f, nil
}

// Remove deletes the stored bytes. A missing key is not an error.
func (s *FilesystemStore) Remove(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob %s: %w", key, err)
	}
	return nil
}

func (s *FilesystemStore) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", apperror.NewValidation("invalid blob key").WithDetail("key", key)
	}
	return filepath.Join(s.root, key), nil
}
