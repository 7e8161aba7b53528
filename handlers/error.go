package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hostel-analytics/services"
	"hostel-analytics/utils"
)

// ErrorResponse defines the structure of error responses.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware that turns panics into a structured 500.
func ErrorHandler(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("[http] Unhandled panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError logs and sends a standardized JSON error response.
func JSONError(c *gin.Context, logger *utils.Logger, status int, message, details string) {
	logger.Warn("[http] %d %s: %s (%s)", status, c.Request.URL.Path, message, details)
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// batchErrorStatus maps a rejected batch to its HTTP status.
func batchErrorStatus(err error) int {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusUnprocessableEntity
	}
}

// batchErrorMessage returns the operator-facing message for a rejected batch.
func batchErrorMessage(err error) string {
	for _, sentinel := range []error{
		services.ErrNoSpreadsheets,
		services.ErrEmptyPaste,
		services.ErrPropertyUndetected,
		services.ErrNoReservations,
		services.ErrPeriodUndetermined,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "Error processing data"
}
