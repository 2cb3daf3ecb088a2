package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	amqp "github.com/rabbitmq/amqp091-go"

	redisdb "github.com/octabyte/bm-tasksubmit/db/redis"
	"github.com/octabyte/bm-tasksubmit/management"
	"github.com/octabyte/bm-tasksubmit/queue"
	"github.com/octabyte/bm-tasksubmit/utils/logger"
)

const (
	DefaultQueue         = "audio_removal_queue"
	DefaultHost          = "localhost"
	DefaultVHost         = "/"
	DefaultManagementURL = "http://localhost:15672"
	DefaultHTTPAddr      = ":8080"
	DefaultServiceName   = "tasksubmit"
)

type BrokerConfig struct {
	URI      string `validate:"omitempty,url"`
	Host     string `validate:"required_without=URI"`
	Port     int    `validate:"omitempty,min=1,max=65535"`
	VHost    string
	Username string `validate:"required_without=URI"`
	Password string
	Timeout  time.Duration `validate:"gt=0"`
}

type ManagementConfig struct {
	URL      string `validate:"omitempty,url"`
	Username string
	Password string
}

type HTTPConfig struct {
	Addr string `validate:"required"`
}

// RedisConfig enables idempotency keys on the HTTP surface when Addr is set.
type RedisConfig struct {
	Addr     string `validate:"omitempty,hostname_port"`
	Password string
	DB       int           `validate:"min=0"`
	KeyTTL   time.Duration `validate:"gte=0"`
}

type Config struct {
	Broker     BrokerConfig
	Queue      string `validate:"required,max=255"`
	Log        logger.Config
	Management ManagementConfig
	HTTP       HTTPConfig
	Redis      RedisConfig
}

// Default returns a configuration pointing at a local broker.
func Default() Config {
	return Config{
		Broker: BrokerConfig{
			Host:    DefaultHost,
			Port:    queue.DefaultPort,
			VHost:   DefaultVHost,
			Timeout: queue.DefaultTimeout,
		},
		Queue: DefaultQueue,
		Log: logger.Config{
			Level:       "info",
			Env:         "development",
			ServiceName: DefaultServiceName,
		},
		Management: ManagementConfig{
			URL: DefaultManagementURL,
		},
		HTTP: HTTPConfig{
			Addr: DefaultHTTPAddr,
		},
		Redis: RedisConfig{
			KeyTTL: redisdb.DefaultKeyTTL,
		},
	}
}

func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

// Connection derives the AMQP connection settings.
func (c *Config) Connection() queue.ConnectionConfig {
	return queue.ConnectionConfig{
		URI:            c.Broker.URI,
		Host:           c.Broker.Host,
		Port:           c.Broker.Port,
		VHost:          c.Broker.VHost,
		Username:       c.Broker.Username,
		Password:       c.Broker.Password,
		Timeout:        c.Broker.Timeout,
		ConnectionName: c.Log.ServiceName,
	}
}

// Target is the durable queue tasks are submitted to.
func (c *Config) Target() queue.Config {
	return queue.DurableQueue(c.Queue)
}

// brokerCredentials returns the vhost and PLAIN credentials the broker is
// reached with. A URI, when set, wins over the individual fields.
func (c *Config) brokerCredentials() (vhost, username, password string) {
	vhost, username, password = c.Broker.VHost, c.Broker.Username, c.Broker.Password
	if c.Broker.URI != "" {
		if uri, err := amqp.ParseURI(c.Broker.URI); err == nil {
			vhost, username, password = uri.Vhost, uri.Username, uri.Password
		}
	}
	if vhost == "" {
		vhost = DefaultVHost
	}
	return vhost, username, password
}

// VHost is the virtual host holding the task queue.
func (c *Config) VHost() string {
	vhost, _, _ := c.brokerCredentials()
	return vhost
}

// ManagementClient derives the management API settings. Credentials default
// to the broker's when left empty.
func (c *Config) ManagementClient() management.Config {
	cfg := management.Config{
		URL:      c.Management.URL,
		Username: c.Management.Username,
		Password: c.Management.Password,
		Timeout:  c.Broker.Timeout,
	}
	if cfg.Username == "" {
		_, cfg.Username, cfg.Password = c.brokerCredentials()
	}
	return cfg
}

// RedisClient derives the redis settings backing idempotency keys.
func (c *Config) RedisClient() redisdb.Config {
	return redisdb.Config{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}
