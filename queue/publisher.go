package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Message carries the per-message properties a Publisher sets next to the body.
type Message struct {
	Body          []byte
	MessageID     string
	CorrelationID string
	Timestamp     time.Time
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// confirmer publishes in confirm mode. Publishes are serialized so every
// confirmation belongs to the message that was just sent.
type confirmer struct {
	ch       amqpChannel
	confirms chan amqp.Confirmation
	returns  chan amqp.Return
	mu       sync.Mutex
}

type publisher struct {
	c      *confirmer
	config PublishConfig
}

func (c *Channel) confirmMode() (*confirmer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.confirmer != nil {
		return c.confirmer, nil
	}

	if err := c.ch.Confirm(false); err != nil {
		return nil, publishError("enable publisher confirms", err)
	}

	c.confirmer = &confirmer{
		ch:       c.ch,
		confirms: c.ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		returns:  c.ch.NotifyReturn(make(chan amqp.Return, 1)),
	}
	return c.confirmer, nil
}

// NewPublisher puts the channel in confirm mode and returns a Publisher bound
// to config. Publishers created on the same channel share its confirm stream.
func (c *Channel) NewPublisher(config PublishConfig) (Publisher, error) {
	cm, err := c.confirmMode()
	if err != nil {
		return nil, err
	}
	return &publisher{c: cm, config: config}, nil
}

func (p *publisher) Publish(ctx context.Context, msg Message) error {
	return p.c.publish(ctx, p.config, msg)
}

// publish sends msg and blocks until the broker confirms it, rejects it,
// returns it as unroutable, or ctx is done.
func (c *confirmer) publish(ctx context.Context, config PublishConfig, msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	contentType := config.ContentType
	if contentType == "" {
		contentType = ContentTypeOctetStream
	}

	publishing := amqp.Publishing{
		ContentType:   contentType,
		DeliveryMode:  config.DeliveryMode,
		AppId:         config.AppID,
		MessageId:     msg.MessageID,
		CorrelationId: msg.CorrelationID,
		Timestamp:     msg.Timestamp,
		Body:          msg.Body,
	}

	op := fmt.Sprintf("publish to %q", config.RoutingKey)

	err := c.ch.PublishWithContext(
		ctx,               // context
		config.Exchange,   // exchange
		config.RoutingKey, // routing key
		config.Mandatory,  // mandatory
		false,             // immediate
		publishing,
	)
	if err != nil {
		return publishError(op, err)
	}

	select {
	case confirm, ok := <-c.confirms:
		if !ok {
			return publishError(op, errors.New("channel closed before confirmation"))
		}
		if !confirm.Ack {
			return publishError(op, fmt.Errorf("message %d was nacked by the broker", confirm.DeliveryTag))
		}
	case <-ctx.Done():
		return publishError(op, fmt.Errorf("waiting for confirmation: %w", ctx.Err()))
	}

	// basic.return precedes the ack of an unroutable mandatory message.
	select {
	case ret, ok := <-c.returns:
		if ok {
			return publishError(op, fmt.Errorf("message returned: %d %s", ret.ReplyCode, ret.ReplyText))
		}
	default:
	}

	return nil
}
