package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/octabyte/bm-tasksubmit/config"
	redisdb "github.com/octabyte/bm-tasksubmit/db/redis"
	"github.com/octabyte/bm-tasksubmit/interfaces/http/echo/handler"
	"github.com/octabyte/bm-tasksubmit/utils/logger"
)

const shutdownTimeout = 15 * time.Second

func serve(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}

	tasks := handler.NewTasks(newSubmitter(cfg), cfg.Target())

	cleanup, err := withIdempotency(c.Context, cfg, tasks)
	if err != nil {
		return err
	}
	defer cleanup()

	e := handler.NewServer(tasks)

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := e.Start(cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.LogInfo("http server started",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("queue", cfg.Queue),
		zap.String("broker", cfg.Connection().Redacted()),
		zap.Bool("idempotency", cfg.Redis.Addr != ""),
	)

	select {
	case err := <-errCh:
		return err
	case <-c.Context.Done():
	}

	logger.LogInfo("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return err
	}
	return <-errCh
}

// withIdempotency attaches a redis backed idempotency guard when redis is
// configured. The returned func closes the redis client.
func withIdempotency(ctx context.Context, cfg config.Config, tasks *handler.Tasks) (func(), error) {
	if cfg.Redis.Addr == "" {
		return func() {}, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Broker.Timeout)
	defer cancel()

	client, err := redisdb.NewClient(pingCtx, cfg.RedisClient())
	if err != nil {
		return nil, err
	}

	tasks.WithIdempotency(redisdb.NewIdempotencyStore(client, cfg.Redis.KeyTTL))
	return func() {
		if err := client.Close(); err != nil {
			logger.LogWarn("failed to close redis client", zap.Error(err))
		}
	}, nil
}
