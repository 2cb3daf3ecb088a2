package context

import (
	"context"
)

type correlationKey struct{}

// WithCorrelationID returns a copy of ctx carrying id. Submitted messages use
// it as their AMQP correlation id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// GetCorrelationIDFromContext returns the id stored by WithCorrelationID, or "".
func GetCorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
