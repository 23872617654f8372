package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/id"
	"campuscore/internal/domain/academics/session"
	"campuscore/internal/infrastructure/http/v1/dto"
)

// SessionHandler exposes academic session operations.
type SessionHandler struct {
	*RecordHandler[*session.Session, dto.CreateSessionRequest, dto.UpdateSessionRequest]
	service *session.Service
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(base *BaseHandler, service *session.Service) *SessionHandler {
	crud := NewRecordHandler(base, RecordHandlerConfig[*session.Session, dto.CreateSessionRequest, dto.UpdateSessionRequest]{
		Service:    service.RecordService,
		EntityName: "academic_session",
		MapCreateDTO: func(req dto.CreateSessionRequest) (*session.Session, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateSessionRequest, existing *session.Session) *session.Session {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(s *session.Session) any { return s },
	})

	return &SessionHandler{RecordHandler: crud, service: service}
}

// Current handles GET /academic-sessions/current.
func (h *SessionHandler) Current(c *gin.Context) {
	ctx := c.Request.Context()

	s, err := h.service.Current(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}

// SetCurrent handles POST /academic-sessions/:id/current. Exactly one
// session is current afterwards.
func (h *SessionHandler) SetCurrent(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	s, err := h.service.SetCurrent(ctx, sessionID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}

// ForDate handles GET /academic-sessions/for-date?date=2026-09-01.
func (h *SessionHandler) ForDate(c *gin.Context) {
	ctx := c.Request.Context()

	raw := c.Query("date")
	if raw == "" {
		h.Error(c, apperror.NewValidation("date query parameter is required"))
		return
	}

	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("date must be formatted as YYYY-MM-DD"))
		return
	}

	s, err := h.service.ForDate(ctx, date)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, s)
}
