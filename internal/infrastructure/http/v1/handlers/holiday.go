package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/id"
	"campuscore/internal/domain/academics/holiday"
	"campuscore/internal/infrastructure/http/v1/dto"
)

// HolidayHandler exposes holiday operations.
type HolidayHandler struct {
	*RecordHandler[*holiday.Holiday, dto.CreateHolidayRequest, dto.UpdateHolidayRequest]
	service *holiday.Service
}

// NewHolidayHandler creates a new holiday handler.
func NewHolidayHandler(base *BaseHandler, service *holiday.Service) *HolidayHandler {
	crud := NewRecordHandler(base, RecordHandlerConfig[*holiday.Holiday, dto.CreateHolidayRequest, dto.UpdateHolidayRequest]{
		Service:    service.RecordService,
		EntityName: "holiday",
		MapCreateDTO: func(req dto.CreateHolidayRequest) (*holiday.Holiday, error) {
			sessionID, err := id.Parse(req.SessionID)
			if err != nil {
				return nil, apperror.NewValidation("invalid sessionId format")
			}
			return req.ToEntity(sessionID), nil
		},
		MapUpdateDTO: func(req dto.UpdateHolidayRequest, existing *holiday.Holiday) *holiday.Holiday {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(h *holiday.Holiday) any { return h },
	})

	return &HolidayHandler{RecordHandler: crud, service: service}
}

// ListForSession handles GET /academic-sessions/:id/holidays.
func (h *HolidayHandler) ListForSession(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	holidays, err := h.service.ListForSession(ctx, sessionID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      holidays,
		TotalCount: int64(len(holidays)),
		Limit:      len(holidays),
	})
}

// Check handles GET /academic-sessions/:id/holidays/check?date=2026-12-25.
func (h *HolidayHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

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

	isHoliday, err := h.service.IsHoliday(ctx, sessionID, date)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": raw, "isHoliday": isHoliday})
}
