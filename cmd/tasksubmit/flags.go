package main

import (
	"github.com/urfave/cli/v2"

	"github.com/octabyte/bm-tasksubmit/config"
	redisdb "github.com/octabyte/bm-tasksubmit/db/redis"
	"github.com/octabyte/bm-tasksubmit/queue"
)

// globalFlags returns the broker and logging flags shared by every command
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "amqp-uri",
			Usage:   "Full AMQP URI; overrides host, port, vhost and credentials",
			EnvVars: []string{"AMQP_URI"},
		},
		&cli.StringFlag{
			Name:    "amqp-host",
			Usage:   "The RabbitMQ host",
			EnvVars: []string{"AMQP_HOST"},
			Value:   config.DefaultHost,
		},
		&cli.IntFlag{
			Name:    "amqp-port",
			Usage:   "The RabbitMQ AMQP port",
			EnvVars: []string{"AMQP_PORT"},
			Value:   queue.DefaultPort,
		},
		&cli.StringFlag{
			Name:    "amqp-vhost",
			Usage:   "The RabbitMQ virtual host",
			EnvVars: []string{"AMQP_VHOST"},
			Value:   config.DefaultVHost,
		},
		&cli.StringFlag{
			Name:    "amqp-user",
			Aliases: []string{"u"},
			Usage:   "The RabbitMQ user",
			EnvVars: []string{"AMQP_USER"},
		},
		&cli.StringFlag{
			Name:    "amqp-password",
			Aliases: []string{"p"},
			Usage:   "The RabbitMQ password",
			EnvVars: []string{"AMQP_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "queue",
			Aliases: []string{"q"},
			Usage:   "The durable queue tasks are submitted to",
			EnvVars: []string{"TASK_QUEUE"},
			Value:   config.DefaultQueue,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Upper bound for one submission, from dial to confirm",
			EnvVars: []string{"AMQP_TIMEOUT"},
			Value:   queue.DefaultTimeout,
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "debug, info, warn or error",
			EnvVars: []string{"LOG_LEVEL"},
			Value:   "info",
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "json or console",
			EnvVars: []string{"LOG_FORMAT"},
			Value:   "json",
		},
		&cli.StringFlag{
			Name:    "env",
			Usage:   "The deployment environment attached to every log line",
			EnvVars: []string{"APP_ENV"},
			Value:   "development",
		},
	}
}

func depthFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "management-url",
			Aliases: []string{"m"},
			Usage:   "Base URL of the RabbitMQ management plugin",
			EnvVars: []string{"RABBITMQ_MANAGEMENT_URL"},
			Value:   config.DefaultManagementURL,
		},
		&cli.StringFlag{
			Name:    "management-user",
			Usage:   "Management API user; defaults to the AMQP user",
			EnvVars: []string{"RABBITMQ_MANAGEMENT_USER"},
		},
		&cli.StringFlag{
			Name:    "management-password",
			Usage:   "Management API password; defaults to the AMQP password",
			EnvVars: []string{"RABBITMQ_MANAGEMENT_PASSWORD"},
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "http-addr",
			Aliases: []string{"a"},
			Usage:   "The address the HTTP server listens on",
			EnvVars: []string{"HTTP_ADDR"},
			Value:   config.DefaultHTTPAddr,
		},
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "Redis host:port for Idempotency-Key support; disabled when empty",
			EnvVars: []string{"REDIS_ADDR"},
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "The Redis password",
			EnvVars: []string{"REDIS_PASSWORD"},
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "The Redis database number",
			EnvVars: []string{"REDIS_DB"},
		},
		&cli.DurationFlag{
			Name:    "idempotency-ttl",
			Usage:   "How long an Idempotency-Key is remembered",
			EnvVars: []string{"IDEMPOTENCY_TTL"},
			Value:   redisdb.DefaultKeyTTL,
		},
	}
}
