package serviceutils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/locvowork/sales_commission/internal/logger"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ResponseError logs err against the request context and writes the error
// envelope. Server-side failures are logged at error level, client mistakes
// at warn.
func ResponseError(c echo.Context, status int, message string, err error) error {
	ctx := c.Request().Context()
	resp := APIResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
		if status >= http.StatusInternalServerError {
			logger.ErrorLog(ctx, err, "%s", message)
		} else {
			logger.WarnLog(ctx, "%s: %v", message, err)
		}
	}
	return c.JSON(status, resp)
}

// StatusFromError maps domain errors to HTTP status codes, defaulting to 500.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidDateRange), errors.Is(err, domain.ErrInvalidRecord):
		// provider-side invalid records arrive wrapped in ErrDataUnavailable
		if errors.Is(err, domain.ErrDataUnavailable) {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDataUnavailable), errors.Is(err, domain.ErrArchiveDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrReadOnlyProvider):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
