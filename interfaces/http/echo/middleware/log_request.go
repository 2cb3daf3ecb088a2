package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octabyte/bm-tasksubmit/utils/logger"
)

// LogRequest writes one structured line per request.
func LogRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let echo resolve the status before it is logged.
				c.Error(err)
			}

			requestID, _ := c.Get(RequestIDKey).(string)
			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("request_id", requestID),
			}

			if c.Response().Status >= 500 {
				logger.LogError("request failed", append(fields, zap.Error(err))...)
			} else {
				logger.LogInfo("request served", fields...)
			}

			return nil
		}
	}
}
