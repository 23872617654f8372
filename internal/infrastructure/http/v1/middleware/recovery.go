package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"campuscore/internal/core/apperror"
	appctx "campuscore/internal/core/context"
	"campuscore/pkg/logger"
)

// Recovery middleware recovers from panics and converts them to internal errors.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ctx := c.Request.Context()
				logger.Error(ctx, "panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"stack", string(debug.Stack()),
				)

				_ = c.Error(
					apperror.NewInternal(fmt.Errorf("panic: %v", err)).
						WithDetail("request_id", appctx.GetRequestID(ctx)),
				)
				c.Abort()
			}
		}()

		c.Next()
	}
}
