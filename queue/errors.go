package queue

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrConnection: the broker is unreachable, refused the handshake or the credentials.
	ErrConnection = errors.New("broker connection failed")
	// ErrDeclaration: the queue could not be declared, usually because it already
	// exists with different settings.
	ErrDeclaration = errors.New("queue declaration failed")
	// ErrPublish: the broker rejected the message or acceptance could not be confirmed.
	ErrPublish = errors.New("publish not confirmed")
)

// Error ties a failed broker operation to one of the error kinds above.
// errors.Is matches both the kind and the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func connectionError(op string, err error) error {
	return &Error{Op: op, Kind: ErrConnection, Err: err}
}

func declarationError(op string, err error) error {
	return &Error{Op: op, Kind: ErrDeclaration, Err: err}
}

func publishError(op string, err error) error {
	return &Error{Op: op, Kind: ErrPublish, Err: err}
}

// ReplyCode returns the AMQP reply code carried by err, or 0 when there is none.
// 404 means NOT_FOUND and 406 PRECONDITION_FAILED.
func ReplyCode(err error) int {
	var amqpErr *amqp.Error
	if errors.As(err, &amqpErr) {
		return amqpErr.Code
	}
	return 0
}
