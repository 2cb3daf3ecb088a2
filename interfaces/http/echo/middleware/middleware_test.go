package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	ctxutil "github.com/octabyte/bm-tasksubmit/utils/context"
)

func TestSetRequestIDInContext(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expectID func(t *testing.T, id string)
	}{
		{"reuses caller id", "abc-123", func(t *testing.T, id string) {
			assert.Equal(t, "abc-123", id)
		}},
		{"generates when missing", "", func(t *testing.T, id string) {
			assert.Len(t, id, 36)
		}},
		{"replaces oversized id", strings.Repeat("x", 200), func(t *testing.T, id string) {
			assert.Len(t, id, 36)
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			var fromEcho, fromCtx string
			e.Use(SetRequestIDInContext())
			e.GET("/", func(c echo.Context) error {
				fromEcho, _ = c.Get(RequestIDKey).(string)
				fromCtx = ctxutil.GetCorrelationIDFromContext(c.Request().Context())
				return c.NoContent(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(RequestIDHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			tc.expectID(t, fromEcho)
			assert.Equal(t, fromEcho, fromCtx)
			assert.Equal(t, fromEcho, rec.Header().Get(RequestIDHeader))
		})
	}
}

func TestLogRequest(t *testing.T) {
	original := zap.L()
	defer zap.ReplaceGlobals(original)

	core, logs := observer.New(zap.DebugLevel)
	zap.ReplaceGlobals(zap.New(core))

	e := echo.New()
	e.Use(SetRequestIDInContext())
	e.Use(LogRequest())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "broker unavailable")
	})

	for _, path := range []string{"/ok", "/fail"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		e.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "request served", entries[0].Message)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])

	assert.Equal(t, "request failed", entries[1].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusServiceUnavailable), entries[1].ContextMap()["status"])
}
