package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/octabyte/bm-tasksubmit/config"
	"github.com/octabyte/bm-tasksubmit/utils/logger"
)

var errUsage = errors.New("usage error")

func usageErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// onUsageError tags flag parsing failures so they map to the usage exit code
func onUsageError(_ *cli.Context, err error, _ bool) error {
	return fmt.Errorf("%w: %w", errUsage, err)
}

// buildConfig builds a Config from CLI context flags
func buildConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()

	cfg.Broker.URI = c.String("amqp-uri")
	cfg.Broker.Host = c.String("amqp-host")
	cfg.Broker.Port = c.Int("amqp-port")
	cfg.Broker.VHost = c.String("amqp-vhost")
	cfg.Broker.Username = c.String("amqp-user")
	cfg.Broker.Password = c.String("amqp-password")
	cfg.Broker.Timeout = c.Duration("timeout")
	cfg.Queue = c.String("queue")

	cfg.Log.Level = c.String("log-level")
	cfg.Log.Format = c.String("log-format")
	cfg.Log.Env = c.String("env")

	// Command scoped flags are only visible to their own command.
	if v := c.String("management-url"); v != "" {
		cfg.Management.URL = v
	}
	cfg.Management.Username = c.String("management-user")
	cfg.Management.Password = c.String("management-password")
	if v := c.String("http-addr"); v != "" {
		cfg.HTTP.Addr = v
	}
	cfg.Redis.Addr = c.String("redis-addr")
	cfg.Redis.Password = c.String("redis-password")
	cfg.Redis.DB = c.Int("redis-db")
	if v := c.Duration("idempotency-ttl"); v > 0 {
		cfg.Redis.KeyTTL = v
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, usageErrorf("invalid configuration: %v", err)
	}
	return cfg, nil
}

// setup builds the configuration and installs the global logger.
func setup(c *cli.Context) (config.Config, error) {
	cfg, err := buildConfig(c)
	if err != nil {
		return config.Config{}, err
	}
	if err := logger.Init(&cfg.Log); err != nil {
		return config.Config{}, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, nil
}
