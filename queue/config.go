package queue

import (
	"net/url"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// DefaultTimeout bounds dialing and the AMQP handshake when ConnectionConfig.Timeout is unset.
	DefaultTimeout = 10 * time.Second
	// DefaultHeartbeat matches the amqp091 client default.
	DefaultHeartbeat = 10 * time.Second
	// DefaultPort is the plain AMQP 0-9-1 port.
	DefaultPort = 5672
)

type ConnectionConfig struct {
	// URI: The full RabbitMQ connection URI. When set it takes precedence over the
	// individual Host, Port, VHost, Username and Password fields.
	URI string
	// Host: The broker host name or address.
	Host string
	// Port: The broker port. Zero means DefaultPort.
	Port int
	// VHost: The virtual host. Empty means "/".
	VHost string
	// Username and Password: PLAIN credentials.
	Username string
	Password string
	// Timeout: Upper bound for the TCP dial plus the AMQP handshake.
	Timeout time.Duration
	// Heartbeat: Heartbeat interval negotiated with the server.
	Heartbeat time.Duration
	// ConnectionName: Client-provided connection name shown in the management UI.
	ConnectionName string
}

// URL returns the connection URI, built from the individual fields when URI is empty.
func (c ConnectionConfig) URL() string {
	if c.URI != "" {
		return c.URI
	}

	port := c.Port
	if port == 0 {
		port = DefaultPort
	}

	vhost := c.VHost
	if vhost == "" {
		vhost = "/"
	}

	return amqp.URI{
		Scheme:   "amqp",
		Host:     c.Host,
		Port:     port,
		Username: c.Username,
		Password: c.Password,
		Vhost:    vhost,
	}.String()
}

// Redacted returns URL with the password masked so it can be logged.
func (c ConnectionConfig) Redacted() string {
	u, err := url.Parse(c.URL())
	if err != nil {
		return "amqp://<unparseable>"
	}
	return u.Redacted()
}

func (c ConnectionConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c ConnectionConfig) amqpConfig() amqp.Config {
	heartbeat := c.Heartbeat
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}

	props := amqp.NewConnectionProperties()
	if name := strings.TrimSpace(c.ConnectionName); name != "" {
		props.SetClientConnectionName(name)
	}

	return amqp.Config{
		Heartbeat:  heartbeat,
		Locale:     "en_US",
		Properties: props,
		Dial:       amqp.DefaultDial(c.timeout()),
	}
}

type Config struct {
	// Name: The name of the queue to be declared and used for message exchange.
	Name string
	// Type: The queue type, sent as `x-queue-type` when set.
	Type QueueType
	// Durable: Indicates whether the queue should survive a broker restart.
	Durable bool
	// AutoDelete: Indicates whether the queue should be automatically deleted when it is no longer in use.
	AutoDelete bool
	// Exclusive: Indicates whether the queue should be exclusive to the connection that declares it.
	Exclusive bool
	// NoWait: Indicates whether the queue declaration should not wait for a response from the server.
	NoWait bool
	// Args: Additional declaration arguments such as `x-message-ttl`, `x-max-length`,
	// `x-overflow` or `x-dead-letter-exchange`.
	Args map[string]interface{}
}

// DurableQueue returns the configuration of a durable task queue.
func DurableQueue(name string) Config {
	return Config{
		Name:    name,
		Durable: true,
	}
}

func (c Config) args() amqp.Table {
	if c.Type == "" && len(c.Args) == 0 {
		return nil
	}

	args := make(amqp.Table, len(c.Args)+1)
	for k, v := range c.Args {
		args[k] = v
	}
	if c.Type != "" {
		args["x-queue-type"] = string(c.Type)
	}
	return args
}

type PublishConfig struct {
	// Exchange: The exchange to publish to. Empty is the default exchange.
	Exchange string
	// RoutingKey: The routing key. On the default exchange this is the queue name.
	RoutingKey string
	// ContentType: MIME type of the body, "application/octet-stream" when empty.
	ContentType string
	// DeliveryMode: amqp.Transient (1) or amqp.Persistent (2).
	DeliveryMode uint8
	// Mandatory: Ask the broker to return the message when no queue is bound to the routing key.
	Mandatory bool
	// AppID: Application id stamped on every message.
	AppID string
}

// PersistentJSON returns the publish configuration used for task messages:
// default exchange, routing key = queue name, persistent, mandatory.
func PersistentJSON(queueName string) PublishConfig {
	return PublishConfig{
		Exchange:     "",
		RoutingKey:   queueName,
		ContentType:  ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Mandatory:    true,
	}
}

// See https://www.rabbitmq.com/tutorials/amqp-concepts-tutorial.html
