package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationID(t *testing.T) {
	assert.Equal(t, "", GetCorrelationIDFromContext(context.Background()))

	ctx := WithCorrelationID(context.Background(), "req-42")
	assert.Equal(t, "req-42", GetCorrelationIDFromContext(ctx))
}
