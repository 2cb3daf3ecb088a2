package management

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

var ErrQueueNotFound = errors.New("queue not found")

type Config struct {
	// URL: Base URL of the management plugin, e.g. http://localhost:15672
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

// QueueStats is the subset of GET /api/queues/{vhost}/{name} we report.
type QueueStats struct {
	Name           string
	VHost          string
	Durable        bool
	Messages       int64
	Ready          int64
	Unacknowledged int64
	Consumers      int64
}

type Client struct {
	http *resty.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("management url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.URL).
		SetBasicAuth(cfg.Username, cfg.Password).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: client}, nil
}

// QueueStats fetches the broker's counters for one queue. The counters are
// refreshed by the broker every few seconds, so they may lag a publish.
func (c *Client) QueueStats(ctx context.Context, vhost, name string) (QueueStats, error) {
	if vhost == "" {
		vhost = "/"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"vhost": vhost,
			"name":  name,
		}).
		Get("/api/queues/{vhost}/{name}")
	if err != nil {
		return QueueStats{}, fmt.Errorf("failed to query queue %q: %w", name, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return QueueStats{}, fmt.Errorf("%w: %s on vhost %s", ErrQueueNotFound, name, vhost)
	case resp.StatusCode() != http.StatusOK:
		return QueueStats{}, fmt.Errorf("failed to query queue %q: unexpected status %d", name, resp.StatusCode())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return QueueStats{}, fmt.Errorf("failed to query queue %q: invalid json response", name)
	}

	result := gjson.GetManyBytes(body,
		"name", "vhost", "durable", "messages", "messages_ready", "messages_unacknowledged", "consumers")

	return QueueStats{
		Name:           result[0].String(),
		VHost:          result[1].String(),
		Durable:        result[2].Bool(),
		Messages:       result[3].Int(),
		Ready:          result[4].Int(),
		Unacknowledged: result[5].Int(),
		Consumers:      result[6].Int(),
	}, nil
}
