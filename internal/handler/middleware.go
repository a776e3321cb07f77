package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/sales_commission/internal/logger"
)

// RequestLogger stores a request-scoped logger in the request context and
// logs each completed request. It must run after middleware.RequestID.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			ctx := logger.WithLogger(req.Context(), map[string]interface{}{
				"request_id": requestID,
				"method":     req.Method,
				"path":       req.URL.Path,
			})
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.InfoLog(ctx, "%s %s -> %d in %s", req.Method, req.URL.Path,
				c.Response().Status, time.Since(start))
			return nil
		}
	}
}
