package invalidation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/retailerp/internal/clock"
	"github.com/smallbiznis/retailerp/pkg/telemetry/correlation"
)

const (
	keyGroupVersion = "retailerp:views:%s:version"
	Channel         = "retailerp:views:invalidate"
)

type RedisNotifier struct {
	client *redis.Client
	clock  clock.Clock
}

func NewRedis(client *redis.Client, clk clock.Clock) *RedisNotifier {
	if clk == nil {
		clk = clock.New()
	}
	return &RedisNotifier{client: client, clock: clk}
}

func (n *RedisNotifier) Invalidate(ctx context.Context, groups ...string) error {
	groups = normalizeGroups(groups)
	if len(groups) == 0 {
		return nil
	}
	if n == nil || n.client == nil {
		return errors.New("invalidation redis client not configured")
	}

	ids := correlation.Fields(ctx)
	event := Event{
		ID:            ulid.Make().String(),
		Groups:        groups,
		At:            n.clock.Now().UTC(),
		CorrelationID: ids["correlation_id"],
		TraceID:       ids["trace_id"],
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := n.client.TxPipeline()
	for _, group := range groups {
		pipe.Incr(ctx, fmt.Sprintf(keyGroupVersion, group))
	}
	pipe.Publish(ctx, Channel, payload)
	_, err = pipe.Exec(ctx)
	return err
}

func (n *RedisNotifier) Versions(ctx context.Context, groups ...string) (map[string]int64, error) {
	groups = normalizeGroups(groups)
	out := make(map[string]int64, len(groups))
	if len(groups) == 0 {
		return out, nil
	}
	if n == nil || n.client == nil {
		return nil, errors.New("invalidation redis client not configured")
	}

	keys := make([]string, len(groups))
	for i, group := range groups {
		keys[i] = fmt.Sprintf(keyGroupVersion, group)
	}
	values, err := n.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, group := range groups {
		out[group] = parseVersion(values[i])
	}
	return out, nil
}

func parseVersion(value any) int64 {
	s, ok := value.(string)
	if !ok {
		return 0
	}
	var v int64
	if _, err := fmt.Sscan(s, &v); err != nil {
		return 0
	}
	return v
}

func normalizeGroups(groups []string) []string {
	seen := make(map[string]struct{}, len(groups))
	out := make([]string, 0, len(groups))
	for _, group := range groups {
		group = strings.ToLower(strings.TrimSpace(group))
		if group == "" {
			continue
		}
		if _, ok := seen[group]; ok {
			continue
		}
		seen[group] = struct{}{}
		out = append(out, group)
	}
	sort.Strings(out)
	return out
}

var _ Notifier = (*RedisNotifier)(nil)

// publishTimeout bounds post-commit signalling so a slow Redis cannot hold
// up the caller.
const publishTimeout = 2 * time.Second
