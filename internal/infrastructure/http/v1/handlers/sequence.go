package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuscore/internal/core/apperror"
	"campuscore/internal/domain/sequence"
	"campuscore/internal/infrastructure/http/v1/dto"
)

// SequenceHandler exposes sequence counter operations.
type SequenceHandler struct {
	*BaseHandler
	allocator *sequence.Allocator
}

// NewSequenceHandler creates a new sequence handler.
func NewSequenceHandler(base *BaseHandler, allocator *sequence.Allocator) *SequenceHandler {
	return &SequenceHandler{BaseHandler: base, allocator: allocator}
}

func (h *SequenceHandler) kind(c *gin.Context) (sequence.Kind, bool) {
	k := sequence.Kind(c.Param("kind"))
	if !sequence.ValidKind(k) {
		h.Error(c, apperror.NewValidation("unknown sequence kind").WithDetail("kind", string(k)))
		return "", false
	}
	return k, true
}

// Allocate handles POST /sequences/:kind/allocate.
func (h *SequenceHandler) Allocate(c *gin.Context) {
	ctx := c.Request.Context()

	k, ok := h.kind(c)
	if !ok {
		return
	}

	opts := sequence.DefaultOptions()
	if c.Request.ContentLength > 0 {
		var req dto.AllocateRequest
		if !h.BindJSON(c, &req) {
			return
		}
		switch req.Mode {
		case "", "row_lock":
		case "optimistic":
			opts.Mode = sequence.ModeOptimistic
		default:
			h.Error(c, apperror.NewValidation("mode must be row_lock or optimistic"))
			return
		}
		if req.MaxRetries > 0 {
			opts.MaxRetries = req.MaxRetries
		}
	}

	value, err := h.allocator.Allocate(ctx, k, opts)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AllocateResponse{Kind: string(k), Value: value})
}

// Get handles GET /sequences/:kind, a read without side effects.
func (h *SequenceHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	k, ok := h.kind(c)
	if !ok {
		return
	}

	counter, err := h.allocator.Peek(ctx, k)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCounter(counter))
}

// List handles GET /sequences.
func (h *SequenceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	counters, err := h.allocator.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.CounterResponse, len(counters))
	for i, counter := range counters {
		items[i] = dto.FromCounter(counter)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      len(items),
	})
}

// SetLast handles PUT /sequences/:kind/next. The counter is moved so the
// next allocation returns lastNumber+1.
func (h *SequenceHandler) SetLast(c *gin.Context) {
	ctx := c.Request.Context()

	k, ok := h.kind(c)
	if !ok {
		return
	}

	var req dto.SetLastRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.allocator.SetLast(ctx, k, req.LastNumber); err != nil {
		h.Error(c, err)
		return
	}

	counter, err := h.allocator.Peek(ctx, k)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCounter(counter))
}
