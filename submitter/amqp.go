package submitter

import (
	"context"

	"github.com/octabyte/bm-tasksubmit/queue"
)

type amqpBroker struct {
	config queue.ConnectionConfig
}

// AMQP returns a Broker that opens a fresh RabbitMQ connection and channel
// for every session.
func AMQP(config queue.ConnectionConfig) Broker {
	return amqpBroker{config: config}
}

func (b amqpBroker) Open(ctx context.Context) (Session, error) {
	session, err := queue.Open(ctx, b.config)
	if err != nil {
		return nil, err
	}
	return session, nil
}
