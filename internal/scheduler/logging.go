package scheduler

import (
	"context"
	"time"

	obscontext "github.com/smallbiznis/retailerp/internal/observability/context"
	obslogger "github.com/smallbiznis/retailerp/internal/observability/logger"
	"go.uber.org/zap"
)

type jobRun struct {
	job       string
	runID     string
	startedAt time.Time
	affected  int64
	err       error
}

func (s *Scheduler) newJobRun(ctx context.Context, job string) (context.Context, *jobRun) {
	run := &jobRun{
		job:       job,
		runID:     s.genID.Generate().String(),
		startedAt: time.Now(),
	}
	ctx = obscontext.WithActor(ctx, "system", "scheduler")
	ctx = obscontext.WithRequestID(ctx, run.runID)
	return ctx, run
}

func (s *Scheduler) logger(ctx context.Context) *zap.Logger {
	return obslogger.WithContext(ctx, s.log)
}

func (s *Scheduler) logJobStart(ctx context.Context, run *jobRun) {
	s.logger(ctx).Info("scheduler.job.start",
		zap.String("job", run.job),
		zap.String("run_id", run.runID),
	)
}

func (s *Scheduler) logJobFinish(ctx context.Context, run *jobRun) {
	fields := []zap.Field{
		zap.String("job", run.job),
		zap.String("run_id", run.runID),
		zap.Int64("duration_ms", time.Since(run.startedAt).Milliseconds()),
		zap.Int64("affected", run.affected),
	}
	if run.err != nil {
		s.logger(ctx).Warn("scheduler.job.finish", append(fields, zap.Error(run.err))...)
		return
	}
	s.logger(ctx).Info("scheduler.job.finish", fields...)
}
