// Package attachment manages file attachments: metadata rows in Postgres,
// bytes behind an opaque blob store key.
package attachment

import (
	"context"
	"fmt"
	"strings"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/entity"
)

// FileType is a coarse classification used for listing and icons.
type FileType string

const (
	FileTypeDocument     FileType = "document"
	FileTypeImage        FileType = "image"
	FileTypePDF          FileType = "pdf"
	FileTypeSpreadsheet  FileType = "spreadsheet"
	FileTypePresentation FileType = "presentation"
	FileTypeArchive      FileType = "archive"
	FileTypeOther        FileType = "other"
)

// Attachment is the metadata record for one stored file.
type Attachment struct {
	entity.Record
	entity.RelatedRef

	// Name is the original client-supplied file name
	Name string `db:"name" json:"name"`

	// StorageKey is the opaque key in the blob store; never exposed as a path
	StorageKey string `db:"storage_key" json:"-"`

	FileType FileType `db:"file_type" json:"fileType"`
	MimeType string   `db:"mime_type" json:"mimeType"`

	// Size in bytes
	Size int64 `db:"size" json:"size"`

	Description string `db:"description" json:"description,omitempty"`

	// UploadedBy identifies the uploading user
	UploadedBy string `db:"uploaded_by" json:"uploadedBy"`
}

// Validate implements entity.Validatable.
func (a *Attachment) Validate(ctx context.Context) error {
	if a.Name == "" {
		return apperror.NewValidation("file name is required").
			WithDetail("field", "name")
	}
	if a.StorageKey == "" {
		return apperror.NewValidation("storage key is required").
			WithDetail("field", "storageKey")
	}
	if a.Size < 0 {
		return apperror.NewValidation("size must not be negative").
			WithDetail("field", "size")
	}
	if !validFileType(a.FileType) {
		return apperror.NewValidation("invalid file type").
			WithDetail("field", "fileType").
			WithDetail("value", string(a.FileType))
	}
	return nil
}

// ClassifyMime maps a MIME type to the coarse FileType.
func ClassifyMime(mimeType string) FileType {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	switch {
	case mt == "application/pdf":
		return FileTypePDF
	case strings.HasPrefix(mt, "image/"):
		return FileTypeImage
	}

	switch mt {
	case "application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.oasis.opendocument.spreadsheet",
		"text/csv":
		return FileTypeSpreadsheet
	case "application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/vnd.oasis.opendocument.presentation":
		return FileTypePresentation
	case "application/zip",
		"application/gzip",
		"application/x-tar",
		"application/x-7z-compressed",
		"application/x-rar-compressed":
		return FileTypeArchive
	case "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.oasis.opendocument.text",
		"application/rtf",
		"text/plain":
		return FileTypeDocument
	}

	return FileTypeOther
}

// HumanSize renders the byte size for display (B, KB, MB, GB).
func (a *Attachment) HumanSize() string {
	const unit = 1024
	size := float64(a.Size)
	switch {
	case a.Size < unit:
		return fmt.Sprintf("%d B", a.Size)
	case a.Size < unit*unit:
		return fmt.Sprintf("%.1f KB", size/unit)
	case a.Size < unit*unit*unit:
		return fmt.Sprintf("%.1f MB", size/(unit*unit))
	default:
		return fmt.Sprintf("%.1f GB", size/(unit*unit*unit))
	}
}

func validFileType(t FileType) bool {
	switch t {
	case FileTypeDocument, FileTypeImage, FileTypePDF, FileTypeSpreadsheet,
		FileTypePresentation, FileTypeArchive, FileTypeOther:
		return true
	}
	return false
}
