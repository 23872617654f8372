package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/entity"
	"campuscore/internal/core/id"
	"campuscore/internal/domain/attachment"
	"campuscore/internal/infrastructure/http/v1/dto"
)

// maxUploadSize bounds multipart uploads (32 MiB).
const maxUploadSize = 32 << 20

// AttachmentHandler exposes file attachment operations.
type AttachmentHandler struct {
	*BaseHandler
	service *attachment.Service
}

// NewAttachmentHandler creates a new attachment handler.
func NewAttachmentHandler(base *BaseHandler, service *attachment.Service) *AttachmentHandler {
	return &AttachmentHandler{BaseHandler: base, service: service}
}

// Upload handles POST /attachments (multipart/form-data).
func (h *AttachmentHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("file form field is required").WithDetail("error", err.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	defer file.Close()

	name := c.PostForm("name")
	if name == "" {
		name = fileHeader.Filename
	}

	a, err := h.service.Upload(ctx, attachment.UploadInput{
		Name:        name,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Description: c.PostForm("description"),
		Related: entity.RelatedRef{
			RelatedModel:    c.PostForm("relatedModel"),
			RelatedObjectID: c.PostForm("relatedObjectId"),
		},
		Content: file,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromAttachment(a))
}

// Get handles GET /attachments/:id (metadata only).
func (h *AttachmentHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	attachmentID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	a, err := h.service.GetByID(ctx, attachmentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromAttachment(a))
}

// Download handles GET /attachments/:id/download, streaming the bytes.
func (h *AttachmentHandler) Download(c *gin.Context) {
	ctx := c.Request.Context()

	attachmentID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	a, rc, err := h.service.Download(ctx, attachmentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
	c.DataFromReader(http.StatusOK, a.Size, a.MimeType, rc, nil)
}

// Delete handles DELETE /attachments/:id.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	attachmentID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Remove(ctx, attachmentID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ListForRelated handles GET /attachments?relatedModel=...&relatedObjectId=...
func (h *AttachmentHandler) ListForRelated(c *gin.Context) {
	ctx := c.Request.Context()

	relatedModel := c.Query("relatedModel")
	relatedObjectID := c.Query("relatedObjectId")
	if relatedModel == "" || relatedObjectID == "" {
		h.Error(c, apperror.NewValidation("relatedModel and relatedObjectId query parameters are required"))
		return
	}

	attachments, err := h.service.ListForRelated(ctx, relatedModel, relatedObjectID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.AttachmentResponse, len(attachments))
	for i, a := range attachments {
		items[i] = dto.FromAttachment(a)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      len(items),
	})
}
