package scheduler

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("scheduler",
	fx.Provide(ProvideConfig, New),
	fx.Invoke(Register),
)

// Register starts the cron loop with the app. A disabled scheduler is still
// constructed so RunOnce stays usable from tooling.
func Register(lc fx.Lifecycle, cfg Config, sched *Scheduler) {
	if !cfg.Enabled {
		sched.log.Info("scheduler disabled", zap.String("job", JobPointsExpiry))
		return
	}
	lc.Append(fx.StartStopHook(sched.Start, sched.Stop))
}
