package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassifyFailureReason(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"deadline", fmt.Errorf("commit: %w", context.DeadlineExceeded), ReasonDeadlineExceeded},
		{"lock_timeout", &pgconn.PgError{Code: "55P03"}, ReasonDBLockTimeout},
		{"statement_timeout", &pgconn.PgError{Code: "57014"}, ReasonDBLockTimeout},
		{"serialization", &pgconn.PgError{Code: "40001"}, ReasonSerializationFailure},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, ReasonSerializationFailure},
		{"unique", gorm.ErrDuplicatedKey, ReasonUniqueViolation},
		{"unknown", errors.New("boom"), ReasonUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyFailureReason(tc.err))
		})
	}
}

func TestObserveCheckoutCountsFailures(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewCheckoutMetrics(registry, Config{ServiceName: "retailerp", Environment: "test"})

	m.ObserveCheckout(OutcomeSuccess, "", 20*time.Millisecond)
	m.ObserveCheckout(OutcomeRejected, ReasonInsufficientStock, time.Millisecond)
	m.ObserveCheckout(OutcomeRejected, ReasonInsufficientStock, time.Millisecond)
	m.ObserveCheckout(OutcomeFailed, "", time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.failures.WithLabelValues(ReasonInsufficientStock)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.failures.WithLabelValues(ReasonUnknown)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.failures))
}

func TestJobMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewJobMetrics(registry, Config{})

	m.IncRun("points_expiry")
	m.AddAffected("points_expiry", 70)
	m.IncError("points_expiry", &pgconn.PgError{Code: "55P03"})
	m.IncSkipped("points_expiry")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.runs.WithLabelValues("points_expiry")))
	assert.Equal(t, float64(70), testutil.ToFloat64(m.affected.WithLabelValues("points_expiry")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.errors.WithLabelValues("points_expiry", ReasonDBLockTimeout)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.skipped.WithLabelValues("points_expiry")))
}
