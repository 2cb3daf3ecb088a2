package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octabyte/bm-tasksubmit/interfaces/http/echo/middleware"
	"github.com/octabyte/bm-tasksubmit/queue"
	"github.com/octabyte/bm-tasksubmit/task"
	"github.com/octabyte/bm-tasksubmit/utils"
	"github.com/octabyte/bm-tasksubmit/utils/logger"
)

const (
	IdempotencyKeyHeader    = "Idempotency-Key"
	maxIdempotencyKeyLength = 128
)

// TaskSubmitter is implemented by *submitter.Submitter.
type TaskSubmitter interface {
	Submit(ctx context.Context, d task.Descriptor, target queue.Config) error
}

// IdempotencyGuard is implemented by *redis.IdempotencyStore.
type IdempotencyGuard interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type submitRequest struct {
	Filename string `json:"filename" validate:"required,max=255,filename"`
}

type submitResponse struct {
	Status   string `json:"status"`
	Queue    string `json:"queue"`
	Filename string `json:"filename"`
}

type Tasks struct {
	submitter TaskSubmitter
	target    queue.Config
	guard     IdempotencyGuard
}

func NewTasks(submitter TaskSubmitter, target queue.Config) *Tasks {
	return &Tasks{submitter: submitter, target: target}
}

// WithIdempotency makes requests carrying an Idempotency-Key header publish
// at most once per key.
func (h *Tasks) WithIdempotency(guard IdempotencyGuard) *Tasks {
	h.guard = guard
	return h
}

// NewServer returns an echo instance serving the task routes.
func NewServer(tasks *Tasks) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = newRequestValidator()

	e.Use(middleware.SetRequestIDInContext())
	e.Use(middleware.LogRequest())

	e.GET("/healthz", Health)
	e.POST("/v1/tasks", tasks.Submit)

	return e
}

// Submit handles POST /v1/tasks.
func (h *Tasks) Submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	key, err := h.claim(c)
	if err != nil {
		return err
	}

	if err := h.submitter.Submit(ctx, task.New(req.Filename), h.target); err != nil {
		if key != "" {
			// The task was not confirmed, so the caller must be able to retry.
			if rerr := h.guard.Release(context.WithoutCancel(ctx), key); rerr != nil {
				logger.LogWarn("failed to release idempotency key", zap.String("key", utils.SanitizeForLog(key)), zap.Error(rerr))
			}
		}
		return toHTTPError(err)
	}

	return c.JSON(http.StatusAccepted, submitResponse{
		Status:   "queued",
		Queue:    h.target.Name,
		Filename: req.Filename,
	})
}

// claim returns the claimed idempotency key, or "" when the request has none
// or no guard is configured.
func (h *Tasks) claim(c echo.Context) (string, error) {
	key := c.Request().Header.Get(IdempotencyKeyHeader)
	if h.guard == nil || key == "" {
		return "", nil
	}
	if len(key) > maxIdempotencyKeyLength {
		return "", echo.NewHTTPError(http.StatusBadRequest, "idempotency key is too long")
	}

	first, err := h.guard.Claim(c.Request().Context(), key)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusServiceUnavailable, "idempotency store unavailable").SetInternal(err)
	}
	if !first {
		return "", echo.NewHTTPError(http.StatusConflict, "task with this idempotency key was already submitted")
	}
	return key, nil
}

func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func toHTTPError(err error) *echo.HTTPError {
	var code int
	var msg string

	switch {
	case errors.Is(err, task.ErrInvalidTask), errors.Is(err, task.ErrSerialization):
		code, msg = http.StatusBadRequest, "invalid task"
	case errors.Is(err, queue.ErrConnection):
		code, msg = http.StatusServiceUnavailable, "broker unavailable"
	case errors.Is(err, queue.ErrDeclaration):
		code, msg = http.StatusConflict, "queue declaration rejected by broker"
	case errors.Is(err, queue.ErrPublish):
		code, msg = http.StatusBadGateway, "broker did not confirm the task"
	default:
		code, msg = http.StatusInternalServerError, "task submission failed"
	}

	return echo.NewHTTPError(code, msg).SetInternal(err)
}
