package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"campuscore/internal/core/apperror"
	"campuscore/internal/core/entity"
	"campuscore/internal/domain/sysconfig"
	"campuscore/internal/infrastructure/http/v1/dto"
)

// ConfigHandler exposes system configuration operations.
type ConfigHandler struct {
	*BaseHandler
	service *sysconfig.Service
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(base *BaseHandler, service *sysconfig.Service) *ConfigHandler {
	return &ConfigHandler{BaseHandler: base, service: service}
}

// decodeValue turns raw request JSON into a native value so validation
// rules see numbers and strings, not encoded bytes.
func decodeValue(raw json.RawMessage) (any, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, apperror.NewValidation("value is not valid JSON")
	}
	return value, nil
}

// Define handles POST /config.
func (h *ConfigHandler) Define(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.DefineConfigRequest
	if !h.BindJSON(c, &req) {
		return
	}

	value, err := decodeValue(req.Value)
	if err != nil {
		h.Error(c, err)
		return
	}

	cfg := &sysconfig.Config{
		Record:         entity.NewRecord(),
		Key:            req.Key,
		Category:       sysconfig.Category(req.Category),
		Description:    req.Description,
		IsPublic:       req.IsPublic,
		IsEncrypted:    req.IsEncrypted,
		ValidationRule: req.ValidationRule,
	}

	if err := h.service.Define(ctx, cfg, value); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromConfig(cfg))
}

// SetValue handles PUT /config/:key.
func (h *ConfigHandler) SetValue(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SetConfigValueRequest
	if !h.BindJSON(c, &req) {
		return
	}

	value, err := decodeValue(req.Value)
	if err != nil {
		h.Error(c, err)
		return
	}

	cfg, err := h.service.SetValue(ctx, c.Param("key"), value)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromConfig(cfg))
}

// Get handles GET /config/:key. Encrypted values arrive unsealed, which
// is why these routes sit behind the admin gate.
func (h *ConfigHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	cfg, err := h.service.Get(ctx, c.Param("key"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromConfig(cfg))
}

// ListByCategory handles GET /config?category=finance.
func (h *ConfigHandler) ListByCategory(c *gin.Context) {
	ctx := c.Request.Context()

	category := sysconfig.Category(c.Query("category"))
	if category == "" {
		h.Error(c, apperror.NewValidation("category query parameter is required"))
		return
	}

	configs, err := h.service.ListByCategory(ctx, category)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ConfigResponse, len(configs))
	for i, cfg := range configs {
		items[i] = dto.FromConfig(cfg)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      len(items),
	})
}

// ListPublic handles GET /config/public. No auth required; encrypted
// entries never appear here.
func (h *ConfigHandler) ListPublic(c *gin.Context) {
	ctx := c.Request.Context()

	configs, err := h.service.ListPublic(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ConfigResponse, len(configs))
	for i, cfg := range configs {
		items[i] = dto.FromConfig(cfg)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      len(items),
	})
}
