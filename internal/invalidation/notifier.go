// Package invalidation tells read-side clients which cached views are stale
// after a write commits.
package invalidation

import (
	"context"
	"time"
)

const (
	GroupOrders    = "orders"
	GroupInventory = "inventory"
	GroupPOS       = "pos"
	GroupCustomers = "customers"
)

// Event is published once per Invalidate call.
type Event struct {
	ID            string    `json:"id"`
	Groups        []string  `json:"groups"`
	At            time.Time `json:"at"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	TraceID       string    `json:"trace_id,omitempty"`
}

type Notifier interface {
	Invalidate(ctx context.Context, groups ...string) error
	// Versions returns the current version counter of each group; unknown
	// groups report zero.
	Versions(ctx context.Context, groups ...string) (map[string]int64, error)
}

type noopNotifier struct{}

func NewNoop() Notifier {
	return noopNotifier{}
}

func (noopNotifier) Invalidate(context.Context, ...string) error { return nil }

func (noopNotifier) Versions(_ context.Context, groups ...string) (map[string]int64, error) {
	out := make(map[string]int64, len(groups))
	for _, group := range groups {
		out[group] = 0
	}
	return out, nil
}
