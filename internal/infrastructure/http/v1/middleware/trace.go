package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appctx "campuscore/internal/core/context"
)

const (
	// HeaderRequestID is the inbound/outbound request ID header.
	HeaderRequestID = "X-Request-ID"
	// HeaderTraceID is the inbound/outbound trace ID header.
	HeaderTraceID = "X-Trace-ID"
)

// Trace middleware establishes request tracing context. Inbound IDs are
// honored so callers can correlate across services; missing ones are minted.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		traceID := c.GetHeader(HeaderTraceID)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		trace := &appctx.TraceContext{
			TraceID:   traceID,
			SpanID:    uuid.New().String()[:16],
			RequestID: requestID,
		}

		ctx := appctx.WithTrace(c.Request.Context(), trace)
		c.Request = c.Request.WithContext(ctx)

		c.Set("request_id", requestID)
		c.Set("trace_id", traceID)

		c.Header(HeaderRequestID, requestID)
		c.Header(HeaderTraceID, traceID)

		c.Next()
	}
}
