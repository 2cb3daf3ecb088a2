// Package queue wraps the amqp091 client for durable task queues.
//
// A Session is a connection plus a channel scoped to one unit of work.
// Queues are declared before publishing, and every publish runs in
// publisher-confirm mode, so a nil error means the broker accepted the
// message. Failures carry one of ErrConnection, ErrDeclaration or ErrPublish.
package queue
