package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/octabyte/bm-tasksubmit/management"
)

func depth(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}

	client, err := management.New(cfg.ManagementClient())
	if err != nil {
		return usageErrorf("%v", err)
	}

	stats, err := client.QueueStats(c.Context, cfg.VHost(), cfg.Queue)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s: messages=%d ready=%d unacked=%d consumers=%d durable=%t\n",
		stats.Name, stats.Messages, stats.Ready, stats.Unacknowledged, stats.Consumers, stats.Durable)
	return nil
}
