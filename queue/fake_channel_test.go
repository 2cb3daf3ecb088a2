package queue

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type publishOutcome int

const (
	outcomeAck publishOutcome = iota
	outcomeNack
	outcomeReturn
	outcomeCloseConfirms
	outcomeSilent
)

// fakeChannel is an in-memory amqpChannel that records calls and answers
// publishes according to outcome.
type fakeChannel struct {
	mu sync.Mutex

	declareErr  error
	passiveErr  error
	confirmErr  error
	publishErr  error
	outcome     publishOutcome
	queues      map[string]amqp.Queue
	getDelivery *amqp.Delivery

	declared  []string
	declArgs  []amqp.Table
	published []amqp.Publishing
	keys      []string
	mandatory []bool
	confirmed bool
	closed    bool
	closes    int
	tag       uint64

	confirms chan amqp.Confirmation
	returns  chan amqp.Return
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{queues: map[string]amqp.Queue{}}
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.declareErr != nil {
		return amqp.Queue{}, f.declareErr
	}
	f.declared = append(f.declared, name)
	f.declArgs = append(f.declArgs, args)
	q, ok := f.queues[name]
	if !ok {
		q = amqp.Queue{Name: name}
		f.queues[name] = q
	}
	return q, nil
}

func (f *fakeChannel) QueueDeclarePassive(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.passiveErr != nil {
		return amqp.Queue{}, f.passiveErr
	}
	q, ok := f.queues[name]
	if !ok {
		return amqp.Queue{}, &amqp.Error{Code: amqp.NotFound, Reason: "NOT_FOUND - no queue '" + name + "'"}
	}
	return q, nil
}

func (f *fakeChannel) Confirm(noWait bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed = true
	return nil
}

func (f *fakeChannel) NotifyPublish(confirm chan amqp.Confirmation) chan amqp.Confirmation {
	f.confirms = confirm
	return confirm
}

func (f *fakeChannel) NotifyReturn(c chan amqp.Return) chan amqp.Return {
	f.returns = c
	return c
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.publishErr != nil {
		return f.publishErr
	}

	f.tag++
	f.published = append(f.published, msg)
	f.keys = append(f.keys, key)
	f.mandatory = append(f.mandatory, mandatory)

	switch f.outcome {
	case outcomeAck:
		f.confirms <- amqp.Confirmation{DeliveryTag: f.tag, Ack: true}
	case outcomeNack:
		f.confirms <- amqp.Confirmation{DeliveryTag: f.tag, Ack: false}
	case outcomeReturn:
		f.returns <- amqp.Return{ReplyCode: amqp.NoRoute, ReplyText: "NO_ROUTE", RoutingKey: key}
		f.confirms <- amqp.Confirmation{DeliveryTag: f.tag, Ack: true}
	case outcomeCloseConfirms:
		close(f.confirms)
	case outcomeSilent:
	}
	return nil
}

func (f *fakeChannel) Get(queue string, autoAck bool) (amqp.Delivery, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getDelivery == nil {
		return amqp.Delivery{}, false, nil
	}
	d := *f.getDelivery
	f.getDelivery = nil
	return d, true, nil
}

func (f *fakeChannel) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.closes++
	return nil
}

// fakeAcknowledger records acks for deliveries returned by Get.
type fakeAcknowledger struct {
	acked []uint64
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error { return nil }

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error { return nil }
