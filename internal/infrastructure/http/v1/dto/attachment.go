package dto

import (
	"time"

	"campuscore/internal/domain/attachment"
)

// AttachmentResponse describes an uploaded file. The storage key stays
// server-side; downloads go through the download endpoint.
type AttachmentResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	FileType        string    `json:"fileType"`
	MimeType        string    `json:"mimeType"`
	Size            int64     `json:"size"`
	HumanSize       string    `json:"humanSize"`
	Description     string    `json:"description,omitempty"`
	UploadedBy      string    `json:"uploadedBy,omitempty"`
	RelatedModel    string    `json:"relatedModel,omitempty"`
	RelatedObjectID string    `json:"relatedObjectId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FromAttachment creates AttachmentResponse from attachment.Attachment.
func FromAttachment(a *attachment.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:              a.ID.String(),
		Name:            a.Name,
		FileType:        string(a.FileType),
		MimeType:        a.MimeType,
		Size:            a.Size,
		HumanSize:       a.HumanSize(),
		Description:     a.Description,
		UploadedBy:      a.UploadedBy,
		RelatedModel:    a.RelatedModel,
		RelatedObjectID: a.RelatedObjectID,
		CreatedAt:       a.CreatedAt,
	}
}
