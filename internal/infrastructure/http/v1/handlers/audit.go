package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/id"
	"campuscore/internal/domain/audit"
	"campuscore/internal/infrastructure/http/v1/dto"
)

// AuditHandler exposes read access to the audit log.
type AuditHandler struct {
	*BaseHandler
	service *audit.Service
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, service *audit.Service) *AuditHandler {
	return &AuditHandler{BaseHandler: base, service: service}
}

// List handles GET /audit with filter query parameters.
func (h *AuditHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	f := audit.Filter{
		ActorID:    c.Query("actorId"),
		EntityType: c.Query("entityType"),
		Action:     audit.Action(c.Query("action")),
		Limit:      h.ParseIntQuery(c, "limit", 50),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	}

	if f.Action != "" && !audit.ValidAction(f.Action) {
		h.Error(c, apperror.NewValidation("unknown action").WithDetail("action", string(f.Action)))
		return
	}

	if raw := c.Query("entityId"); raw != "" {
		entityID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid entityId format"))
			return
		}
		f.EntityID = entityID
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("from must be RFC 3339"))
			return
		}
		f.From = from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("to must be RFC 3339"))
			return
		}
		f.To = to
	}

	entries, err := h.service.List(ctx, f)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      entries,
		TotalCount: int64(len(entries)),
		Limit:      f.Limit,
		Offset:     f.Offset,
	})
}

// EntityHistory handles GET /audit/:entityType/:id.
func (h *AuditHandler) EntityHistory(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.service.EntityHistory(ctx, c.Param("entityType"), entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      entries,
		TotalCount: int64(len(entries)),
		Limit:      limit,
	})
}
