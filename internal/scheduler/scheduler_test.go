package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/smallbiznis/retailerp/internal/clock"
	loyaltydomain "github.com/smallbiznis/retailerp/internal/loyalty/domain"
	obsmetrics "github.com/smallbiznis/retailerp/internal/observability/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLoyalty struct {
	loyaltydomain.Service
	asOf   time.Time
	result loyaltydomain.ExpireResult
	err    error
	block  bool
}

func (f *fakeLoyalty) ExpireDue(ctx context.Context, asOf time.Time) (loyaltydomain.ExpireResult, error) {
	f.asOf = asOf
	if f.block {
		<-ctx.Done()
		return loyaltydomain.ExpireResult{}, ctx.Err()
	}
	return f.result, f.err
}

type fakeLocker struct {
	held     bool
	released []string
}

func (l *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	if l.held {
		return "", false, nil
	}
	return "token-" + key, true, nil
}

func (l *fakeLocker) Release(_ context.Context, key, token string) error {
	l.released = append(l.released, key+"="+token)
	return nil
}

func newTestScheduler(t *testing.T, loyalty *fakeLoyalty, locker Locker, cfg Config) (*Scheduler, *prometheus.Registry) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	registry := prometheus.NewRegistry()

	s, err := New(Params{
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.NewFakeClock(time.Date(2024, 3, 1, 2, 15, 0, 0, time.UTC)),
		Config:     cfg,
		Loyalty:    loyalty,
		JobMetrics: obsmetrics.NewJobMetrics(registry, obsmetrics.Config{ServiceName: "retailerp", Environment: "test"}),
	})
	require.NoError(t, err)
	s.locker = locker
	return s, registry
}

func TestRunOnceExpiresPoints(t *testing.T) {
	loyalty := &fakeLoyalty{result: loyaltydomain.ExpireResult{Customers: 2, Points: 70}}
	locker := &fakeLocker{}
	s, registry := newTestScheduler(t, loyalty, locker, DefaultConfig())

	require.NoError(t, s.RunOnce(context.Background()))

	assert.Equal(t, time.Date(2024, 3, 1, 2, 15, 0, 0, time.UTC), loyalty.asOf)
	assert.Equal(t, []string{"retailerp:scheduler:lock:points_expiry=token-retailerp:scheduler:lock:points_expiry"}, locker.released)

	labels := map[string]string{"service": "retailerp", "env": "test", "job": JobPointsExpiry}
	assert.Equal(t, float64(1), getCounterValue(t, registry, "retailerp_job_runs_total", labels))
	assert.Equal(t, float64(70), getCounterValue(t, registry, "retailerp_job_affected_total", labels))
}

func TestRunJobSkipsWhenLockHeld(t *testing.T) {
	loyalty := &fakeLoyalty{}
	s, registry := newTestScheduler(t, loyalty, &fakeLocker{held: true}, DefaultConfig())

	require.NoError(t, s.RunOnce(context.Background()))

	assert.True(t, loyalty.asOf.IsZero())
	labels := map[string]string{"service": "retailerp", "env": "test", "job": JobPointsExpiry}
	assert.Equal(t, float64(1), getCounterValue(t, registry, "retailerp_job_skipped_total", labels))
}

func TestRunJobTimeoutIsNotReturned(t *testing.T) {
	loyalty := &fakeLoyalty{block: true}
	s, registry := newTestScheduler(t, loyalty, &fakeLocker{}, DefaultConfig())

	err := s.runJob(context.Background(), JobPointsExpiry, 5*time.Millisecond, s.PointsExpiryJob)
	require.NoError(t, err)

	labels := map[string]string{
		"service": "retailerp",
		"env":     "test",
		"job":     JobPointsExpiry,
		"reason":  obsmetrics.ReasonDeadlineExceeded,
	}
	assert.Equal(t, float64(1), getCounterValue(t, registry, "retailerp_job_errors_total", labels))
}

func TestRunJobReturnsFailures(t *testing.T) {
	loyalty := &fakeLoyalty{err: errors.New("boom")}
	s, _ := newTestScheduler(t, loyalty, &fakeLocker{}, DefaultConfig())

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "points_expiry: boom")
}

func TestStartRejectsInvalidCron(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PointsExpiryCron = "not a cron"
	s, _ := newTestScheduler(t, &fakeLoyalty{}, &fakeLocker{}, cfg)

	assert.Error(t, s.Start())
	s.Stop()
}

func TestStartSchedulesInBusinessTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Location = loc
	s, _ := newTestScheduler(t, &fakeLoyalty{}, &fakeLocker{}, cfg)

	require.NoError(t, s.Start())
	defer s.Stop()

	jobs := s.cron.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, []string{JobPointsExpiry}, jobs[0].Tags())
	assert.Equal(t, loc, s.cron.Location())
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{JobTimeout: time.Hour}.withDefaults()
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "15 2 * * *", cfg.PointsExpiryCron)
	assert.Equal(t, time.Hour+time.Minute, cfg.LockTTL)
}

func getCounterValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	metricFamilies, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range metricFamilies {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.Metric {
			if !labelsMatch(metric, labels) {
				continue
			}
			require.NotNil(t, metric.Counter, "metric %s is not a counter", name)
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.Label) != len(labels) {
		return false
	}
	for _, label := range metric.Label {
		if labels[label.GetName()] != label.GetValue() {
			return false
		}
	}
	return true
}
