package context

import (
	"context"
	"strings"
)

type requestIDKey struct{}

type actorKey struct{}

type actor struct {
	kind string
	id   string
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}

// WithActor records who triggered the request, e.g. ("cashier", "17").
func WithActor(ctx context.Context, actorType, actorID string) context.Context {
	actorType = strings.TrimSpace(actorType)
	if actorType == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actor{kind: actorType, id: strings.TrimSpace(actorID)})
}

func ActorFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	value, ok := ctx.Value(actorKey{}).(actor)
	if !ok {
		return "", ""
	}
	return value.kind, value.id
}
