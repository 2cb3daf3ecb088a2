package queue

import (
	"context"
	"errors"
)

// Session is one connection plus one channel, scoped to a unit of work.
type Session struct {
	conn *Connection
	ch   *Channel
}

// Open dials the broker and opens a channel. If the channel cannot be opened
// the connection is closed before returning.
func Open(ctx context.Context, config ConnectionConfig) (*Session, error) {
	conn, err := Dial(ctx, config)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Session{conn: conn, ch: ch}, nil
}

// Channel exposes the session's channel.
func (s *Session) Channel() *Channel {
	return s.ch
}

func (s *Session) DeclareQueue(config Config) (Queue, error) {
	return s.ch.DeclareQueue(config)
}

func (s *Session) Inspect(name string) (Queue, error) {
	return s.ch.Inspect(name)
}

// Publish sends msg in confirm mode and waits for the broker's answer.
func (s *Session) Publish(ctx context.Context, config PublishConfig, msg Message) error {
	cm, err := s.ch.confirmMode()
	if err != nil {
		return err
	}
	return cm.publish(ctx, config, msg)
}

// Close releases the channel and then the connection. Calling it more than once is safe.
func (s *Session) Close() error {
	return errors.Join(s.ch.Close(), s.conn.Close())
}
