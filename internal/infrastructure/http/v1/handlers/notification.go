package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/id"
	"campuscore/internal/domain/notification"
	"campuscore/internal/infrastructure/http/v1/dto"
)

// NotificationHandler exposes notification operations. Listing and read
// tracking always act on the authenticated recipient's own inbox.
type NotificationHandler struct {
	*BaseHandler
	service *notification.Service
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(base *BaseHandler, service *notification.Service) *NotificationHandler {
	return &NotificationHandler{BaseHandler: base, service: service}
}

// Create handles POST /notifications.
func (h *NotificationHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateNotificationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	n := req.ToEntity()
	if err := h.service.Notify(ctx, n); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, n)
}

// List handles GET /notifications for the authenticated recipient.
func (h *NotificationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	recipientID := h.GetUserID(c)
	if recipientID == "" {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	unreadOnly := c.Query("unread") == "true"
	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	items, err := h.service.ListForRecipient(ctx, recipientID, unreadOnly, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      limit,
		Offset:     offset,
	})
}

// UnreadCount handles GET /notifications/unread-count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	ctx := c.Request.Context()

	recipientID := h.GetUserID(c)
	if recipientID == "" {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	count, err := h.service.CountUnread(ctx, recipientID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

// MarkRead handles POST /notifications/:id/read. Re-reading an already
// read notification succeeds and keeps the original read timestamp.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	ctx := c.Request.Context()

	notificationID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	recipientID := h.GetUserID(c)
	if recipientID == "" {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	n, err := h.service.MarkRead(ctx, notificationID, recipientID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, n)
}

// MarkAllRead handles POST /notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	ctx := c.Request.Context()

	recipientID := h.GetUserID(c)
	if recipientID == "" {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	count, err := h.service.MarkAllRead(ctx, recipientID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}
