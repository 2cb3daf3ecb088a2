package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Fetch pulls a single message from the queue with basic.get and acknowledges it.
// It returns nil when the queue is empty.
func (c *Channel) Fetch(queueName string) (*amqp.Delivery, error) {
	msg, ok, err := c.ch.Get(queueName, false)
	if err != nil {
		return nil, declarationError(fmt.Sprintf("get from %q", queueName), err)
	}
	if !ok {
		return nil, nil
	}

	if err := msg.Ack(false); err != nil {
		return nil, fmt.Errorf("failed to ack message %d: %w", msg.DeliveryTag, err)
	}

	return &msg, nil
}
