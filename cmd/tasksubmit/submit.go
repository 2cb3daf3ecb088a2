package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/octabyte/bm-tasksubmit/config"
	"github.com/octabyte/bm-tasksubmit/submitter"
	"github.com/octabyte/bm-tasksubmit/task"
)

func newSubmitter(cfg config.Config) *submitter.Submitter {
	return submitter.New(
		submitter.AMQP(cfg.Connection()),
		submitter.WithTimeout(cfg.Broker.Timeout),
		submitter.WithAppID(cfg.Log.ServiceName),
	)
}

func submit(c *cli.Context) error {
	if c.NArg() != 1 {
		return usageErrorf("submit expects exactly one filename, got %d arguments", c.NArg())
	}

	cfg, err := setup(c)
	if err != nil {
		return err
	}

	d := task.New(c.Args().First())
	if err := newSubmitter(cfg).Submit(c.Context, d, cfg.Target()); err != nil {
		return err
	}

	// Cannot fail: Submit already encoded the same descriptor.
	body, _ := task.Encode(d)
	fmt.Fprintf(c.App.Writer, "task submitted: %s\n", body)
	return nil
}
