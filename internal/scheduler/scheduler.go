package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-co-op/gocron"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/retailerp/internal/clock"
	loyaltydomain "github.com/smallbiznis/retailerp/internal/loyalty/domain"
	"github.com/smallbiznis/retailerp/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const JobPointsExpiry = "points_expiry"

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Params struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Config     Config
	Loyalty    loyaltydomain.Service
	Redis      *redis.Client       `optional:"true"`
	JobMetrics *metrics.JobMetrics `optional:"true"`
}

type Scheduler struct {
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	cfg     Config
	loyalty loyaltydomain.Service
	locker  Locker
	metrics *metrics.JobMetrics

	cron *gocron.Scheduler
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.GenID == nil || p.Loyalty == nil {
		return nil, ErrInvalidConfig
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}

	var locker Locker = localLocker{}
	if p.Redis != nil {
		locker = NewRedisLocker(p.Redis)
	}

	return &Scheduler{
		log:     p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		genID:   p.GenID,
		clock:   clk,
		cfg:     p.Config.withDefaults(),
		loyalty: p.Loyalty,
		locker:  locker,
		metrics: p.JobMetrics,
	}, nil
}

// Start registers the cron jobs and runs them in the background. Every job
// is in singleton mode so a slow run is never overlapped by the next tick.
func (s *Scheduler) Start() error {
	cron := gocron.NewScheduler(s.cfg.Location)
	cron.SingletonModeAll()

	_, err := cron.Cron(s.cfg.PointsExpiryCron).Tag(JobPointsExpiry).Do(func() {
		if err := s.runJob(context.Background(), JobPointsExpiry, s.cfg.JobTimeout, s.PointsExpiryJob); err != nil {
			s.log.Warn("scheduled job failed", zap.String("job", JobPointsExpiry), zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", JobPointsExpiry, err)
	}

	s.cron = cron
	cron.StartAsync()
	s.log.Info("scheduler started",
		zap.String("timezone", s.cfg.Location.String()),
		zap.String("points_expiry_cron", s.cfg.PointsExpiryCron),
	)
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}

// RunOnce runs every job immediately, outside the cron schedule.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return s.runJob(ctx, JobPointsExpiry, s.cfg.JobTimeout, s.PointsExpiryJob)
}

// PointsExpiryJob expires loyalty points whose expiry date has passed.
func (s *Scheduler) PointsExpiryJob(ctx context.Context) (int64, error) {
	result, err := s.loyalty.ExpireDue(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	s.logger(ctx).Info("points expired",
		zap.Int("customers", result.Customers),
		zap.Int64("points", result.Points),
	)
	return result.Points, nil
}

// runJob takes the job lock, bounds fn by timeout and records the outcome.
// A timeout is logged but not returned.
func (s *Scheduler) runJob(parent context.Context, name string, timeout time.Duration, fn func(ctx context.Context) (int64, error)) error {
	ctx, run := s.newJobRun(parent, name)

	lockKey := fmt.Sprintf(keyJobLock, name)
	token, acquired, err := s.locker.TryLock(ctx, lockKey, s.cfg.LockTTL)
	if err != nil {
		s.metrics.IncError(name, err)
		return fmt.Errorf("%s: acquire lock: %w", name, err)
	}
	if !acquired {
		s.metrics.IncSkipped(name)
		s.logger(ctx).Debug("job lock held elsewhere, skipping", zap.String("job", name))
		return nil
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.locker.Release(releaseCtx, lockKey, token); err != nil {
			s.logger(ctx).Warn("job lock release failed", zap.String("job", name), zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logJobStart(ctx, run)
	s.metrics.IncRun(name)

	run.affected, run.err = fn(ctx)
	s.metrics.ObserveDuration(name, time.Since(run.startedAt))
	s.metrics.AddAffected(name, run.affected)
	s.logJobFinish(ctx, run)

	if run.err == nil {
		return nil
	}
	s.metrics.IncError(name, run.err)

	if errors.Is(run.err, context.DeadlineExceeded) || errors.Is(run.err, context.Canceled) {
		s.logger(ctx).Warn("job timed out", zap.String("job", name), zap.Duration("timeout", timeout))
		return nil
	}
	return fmt.Errorf("%s: %w", name, run.err)
}
