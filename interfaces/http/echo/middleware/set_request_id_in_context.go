package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octabyte/bm-tasksubmit/utils"
	ctxutil "github.com/octabyte/bm-tasksubmit/utils/context"
)

const maxRequestIDLength = 64

// SetRequestIDInContext reuses the caller's X-Request-ID or generates one,
// echoes it back, and stores it both in the echo context and as the request
// context's correlation id.
func SetRequestIDInContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := utils.SanitizeForLog(c.Request().Header.Get(RequestIDHeader))
			if id == "" || len(id) > maxRequestIDLength {
				id = uuid.NewString()
			}

			c.Set(RequestIDKey, id)
			c.Response().Header().Set(RequestIDHeader, id)

			req := c.Request()
			c.SetRequest(req.WithContext(ctxutil.WithCorrelationID(req.Context(), id)))

			return next(c)
		}
	}
}
