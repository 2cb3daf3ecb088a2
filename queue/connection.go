package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Connection struct {
	conn *amqp.Connection
	once sync.Once
}

type dialResult struct {
	conn *amqp.Connection
	err  error
}

// Dial opens an AMQP connection. It gives up when ctx is done or when the
// configured timeout elapses, whichever comes first.
func Dial(ctx context.Context, config ConnectionConfig) (*Connection, error) {
	ctx, cancel := context.WithTimeout(ctx, config.timeout())
	defer cancel()

	uri := config.URL()
	if _, err := amqp.ParseURI(uri); err != nil {
		return nil, connectionError("dial", fmt.Errorf("invalid uri %s: %w", config.Redacted(), err))
	}

	resCh := make(chan dialResult, 1)
	go func() {
		conn, err := amqp.DialConfig(uri, config.amqpConfig())
		resCh <- dialResult{conn, err}
	}()

	select {
	case res := <-resCh:
		if res.err != nil {
			return nil, connectionError("dial", res.err)
		}
		return &Connection{conn: res.conn}, nil
	case <-ctx.Done():
		// The dial goroutine may still succeed; close whatever it returns.
		go func() {
			if res := <-resCh; res.conn != nil {
				_ = res.conn.Close()
			}
		}()
		return nil, connectionError("dial", ctx.Err())
	}
}

// Channel opens a new channel over the connection.
func (c *Connection) Channel() (*Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, connectionError("open channel", err)
	}
	return newChannel(ch), nil
}

// IsClosed reports whether the underlying connection is closed.
func (c *Connection) IsClosed() bool {
	return c.conn == nil || c.conn.IsClosed()
}

// Close closes the connection. Calling it more than once is safe.
func (c *Connection) Close() error {
	var err error
	c.once.Do(func() {
		if c.conn == nil || c.conn.IsClosed() {
			return
		}
		if cerr := c.conn.Close(); cerr != nil && !errors.Is(cerr, amqp.ErrClosed) {
			err = fmt.Errorf("failed to close connection: %w", cerr)
		}
	})
	return err
}
