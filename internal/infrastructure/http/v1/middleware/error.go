package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campuscore/internal/core/apperror"
	appctx "campuscore/internal/core/context"
	"campuscore/internal/infrastructure/http/v1/dto"
	"campuscore/pkg/logger"
)

// ErrorHandler middleware converts errors registered on the Gin context into
// JSON responses. Handlers call c.Error and abort; this is the single place
// that shapes the error body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		ctx := c.Request.Context()

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Error(ctx, "request failed",
					"code", appErr.Code,
					"error", appErr.Error(),
					"path", c.Request.URL.Path,
				)
			} else {
				logger.Debug(ctx, "request rejected",
					"code", appErr.Code,
					"error", appErr.Error(),
					"path", c.Request.URL.Path,
				)
			}

			c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			})
			return
		}

		// Unknown error, do not leak internals to the client.
		logger.Error(ctx, "unhandled error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
		)

		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    apperror.CodeInternal,
			Message: "internal server error",
			Details: map[string]any{"request_id": appctx.GetRequestID(ctx)},
		})
	}
}
