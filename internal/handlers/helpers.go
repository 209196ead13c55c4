package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/logger"
	"pocketbook/internal/month"
)

// now is the clock used for defaulting the month query parameter.
var now = time.Now

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return uint(id), nil
}

// monthQuery returns the normalised "month" query parameter, defaulting
// to the current month.
func monthQuery(c *gin.Context) (string, error) {
	key := c.Query("month")
	if key == "" {
		return month.Current(now()).String(), nil
	}
	m, err := month.Parse(key)
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidMonth, "invalid month "+strconv.Quote(key)+": must be YYYY-MM")
	}
	return m.String(), nil
}

// bindingError maps a request binding failure onto an AppError. Failures
// of the domain validators get their own codes; the rest are INVALID_INPUT.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Tag() {
		case "transaction_type":
			return apperrors.ErrInvalidTransactionType
		case "month_key":
			return apperrors.ErrInvalidMonth
		}
		if verrs[0].Field() == "Amount" {
			return apperrors.WithMessage(apperrors.ErrInvalidAmount, err.Error())
		}
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
