package invalidation

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/retailerp/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Client *redis.Client `optional:"true"`
	Clock  clock.Clock   `optional:"true"`
	Log    *zap.Logger
}

func NewNotifier(p Params) Notifier {
	if p.Client == nil {
		p.Log.Named("invalidation").Info("redis not configured, view invalidation disabled")
		return NewNoop()
	}
	return NewRedis(p.Client, p.Clock)
}

// Signal runs Invalidate detached from the caller's cancellation and only
// logs failures.
func Signal(ctx context.Context, notifier Notifier, log *zap.Logger, groups ...string) {
	if notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := notifier.Invalidate(ctx, groups...); err != nil {
		log.Warn("view invalidation failed", zap.Strings("groups", groups), zap.Error(err))
	}
}

var Module = fx.Module("invalidation",
	fx.Provide(NewNotifier),
)
