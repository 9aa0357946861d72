package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "  req-1 ")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.Equal(t, context.Background(), WithRequestID(context.Background(), ""))
}

func TestActorRoundTrip(t *testing.T) {
	ctx := WithActor(context.Background(), "cashier", "17")
	kind, id := ActorFromContext(ctx)
	assert.Equal(t, "cashier", kind)
	assert.Equal(t, "17", id)

	kind, id = ActorFromContext(WithActor(context.Background(), "", "17"))
	assert.Empty(t, kind)
	assert.Empty(t, id)
}
