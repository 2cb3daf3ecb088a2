package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/octabyte/bm-tasksubmit/enums"
	"github.com/octabyte/bm-tasksubmit/management"
	"github.com/octabyte/bm-tasksubmit/queue"
	"github.com/octabyte/bm-tasksubmit/task"
	"github.com/octabyte/bm-tasksubmit/utils/logger"
)

func main() {
	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().RunContext(ctx, os.Args)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

func newApp() *cli.App {
	return &cli.App{
		Name:         "tasksubmit",
		Usage:        "Submit audio removal tasks to RabbitMQ",
		Flags:        globalFlags(),
		OnUsageError: onUsageError,
		Commands: []*cli.Command{
			{
				Name:         "submit",
				Usage:        "Submit one task for the given file",
				ArgsUsage:    "<filename>",
				OnUsageError: onUsageError,
				Action:       submit,
			},
			{
				Name:         "depth",
				Usage:        "Print the depth of the task queue",
				Flags:        depthFlags(),
				OnUsageError: onUsageError,
				Action:       depth,
			},
			{
				Name:         "serve",
				Usage:        "Accept tasks over HTTP",
				Flags:        serveFlags(),
				OnUsageError: onUsageError,
				Action:       serve,
			},
		},
	}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return enums.ExitOK
	case errors.Is(err, errUsage):
		return enums.ExitUsage
	case errors.Is(err, task.ErrInvalidTask), errors.Is(err, task.ErrSerialization):
		return enums.ExitSerialization
	case errors.Is(err, queue.ErrConnection):
		return enums.ExitConnection
	case errors.Is(err, queue.ErrDeclaration), errors.Is(err, management.ErrQueueNotFound):
		return enums.ExitDeclaration
	case errors.Is(err, queue.ErrPublish):
		return enums.ExitPublish
	default:
		return enums.ExitUnexpected
	}
}
