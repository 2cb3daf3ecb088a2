package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the subset of *amqp.Channel used by this package.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueDeclarePassive(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Confirm(noWait bool) error
	NotifyPublish(confirm chan amqp.Confirmation) chan amqp.Confirmation
	NotifyReturn(c chan amqp.Return) chan amqp.Return
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Get(queue string, autoAck bool) (amqp.Delivery, bool, error)
	IsClosed() bool
	Close() error
}

// Queue is the broker's view of a declared queue.
type Queue struct {
	Name      string
	Messages  int
	Consumers int
}

type Channel struct {
	ch   amqpChannel
	once sync.Once

	mu        sync.Mutex
	confirmer *confirmer
}

func newChannel(ch amqpChannel) *Channel {
	return &Channel{ch: ch}
}

// DeclareQueue declares the queue described by config. Redeclaring an existing
// queue with the same settings is a no-op; conflicting settings fail with
// ErrDeclaration and the broker closes the channel.
func (c *Channel) DeclareQueue(config Config) (Queue, error) {
	if config.Name == "" {
		return Queue{}, declarationError("declare queue", errors.New("queue name is required"))
	}

	q, err := c.ch.QueueDeclare(
		config.Name,
		config.Durable,
		config.AutoDelete,
		config.Exclusive,
		config.NoWait,
		config.args(),
	)
	if err != nil {
		return Queue{}, declarationError(fmt.Sprintf("declare queue %q", config.Name), err)
	}

	return Queue{Name: q.Name, Messages: q.Messages, Consumers: q.Consumers}, nil
}

// Inspect passively declares name and reports its message and consumer counts.
// A missing queue fails with ErrDeclaration (reply code 404).
func (c *Channel) Inspect(name string) (Queue, error) {
	q, err := c.ch.QueueDeclarePassive(name, false, false, false, false, nil)
	if err != nil {
		return Queue{}, declarationError(fmt.Sprintf("inspect queue %q", name), err)
	}
	return Queue{Name: q.Name, Messages: q.Messages, Consumers: q.Consumers}, nil
}

// IsClosed reports whether the broker or the client closed the channel.
func (c *Channel) IsClosed() bool {
	return c.ch.IsClosed()
}

// Close closes the channel. Calling it more than once is safe.
func (c *Channel) Close() error {
	var err error
	c.once.Do(func() {
		if c.ch.IsClosed() {
			return
		}
		if cerr := c.ch.Close(); cerr != nil && !errors.Is(cerr, amqp.ErrClosed) {
			err = fmt.Errorf("failed to close channel: %w", cerr)
		}
	})
	return err
}
