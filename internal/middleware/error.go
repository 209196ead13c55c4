package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/logger"
)

// ErrorHandler turns the last error attached to the context into the
// {"error": {code, message}} response. Binding errors become INVALID_INPUT,
// other non-AppErrors become INTERNAL_ERROR with the details only logged.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		log := logger.Get().With(
			"request_id", RequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		var appErr *apperrors.AppError
		switch {
		case errors.As(last.Err, &appErr):
			if appErr.Internal != nil {
				log.Errorw("app error", "code", appErr.Code, "message", appErr.Message, "internal", appErr.Internal.Error())
			}
		case last.IsType(gin.ErrorTypeBind):
			appErr = apperrors.WithMessage(apperrors.ErrInvalidInput, last.Error())
		default:
			log.Errorw("unexpected error", "error", last.Error())
			appErr = apperrors.ErrInternalServer
		}

		if c.Writer.Written() {
			// A handler already answered; the error is only recorded.
			return
		}
		writeError(c, appErr)
	}
}

// writeError aborts the chain with the JSON error body for appErr.
func writeError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
