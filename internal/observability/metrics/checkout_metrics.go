package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/retailerp/pkg/db"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

const (
	ReasonValidation           = "validation"
	ReasonInsufficientStock    = "insufficient_stock"
	ReasonInsufficientPayment  = "insufficient_payment"
	ReasonNumbering            = "numbering"
	ReasonDeadlineExceeded     = "deadline_exceeded"
	ReasonDBLockTimeout        = "db_lock_timeout"
	ReasonSerializationFailure = "serialization_failure"
	ReasonUniqueViolation      = "unique_violation"
	ReasonUnknown              = "unknown"
)

// CheckoutMetrics tracks checkout latency and why checkouts fail.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
	items    prometheus.Histogram
}

// JobMetrics tracks scheduled job runs.
type JobMetrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	affected *prometheus.CounterVec
}

var (
	checkoutMetricsOnce sync.Once
	checkoutMetrics     *CheckoutMetrics
	jobMetricsOnce      sync.Once
	jobMetrics          *JobMetrics
)

// CheckoutWithConfig returns the process-wide checkout metrics registered on
// the default registerer.
func CheckoutWithConfig(cfg Config) *CheckoutMetrics {
	checkoutMetricsOnce.Do(func() {
		checkoutMetrics = NewCheckoutMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return checkoutMetrics
}

// JobsWithConfig returns the process-wide job metrics.
func JobsWithConfig(cfg Config) *JobMetrics {
	jobMetricsOnce.Do(func() {
		jobMetrics = NewJobMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return jobMetrics
}

func constLabels(cfg Config) prometheus.Labels {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "retailerp"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	return prometheus.Labels{"service": serviceName, "env": environment}
}

func NewCheckoutMetrics(registerer prometheus.Registerer, cfg Config) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	labels := constLabels(cfg)

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "retailerp_checkout_duration_seconds",
		Help:        "Checkout latency by outcome.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		ConstLabels: labels,
	}, []string{"outcome"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "retailerp_checkout_failures_total",
		Help:        "Checkouts that created no order, by low-cardinality reason.",
		ConstLabels: labels,
	}, []string{"reason"})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "retailerp_checkout_items",
		Help:        "Line items per committed order.",
		Buckets:     []float64{1, 2, 3, 5, 8, 13, 21, 34, 55},
		ConstLabels: labels,
	})

	registerer.MustRegister(duration, failures, items)
	return &CheckoutMetrics{duration: duration, failures: failures, items: items}
}

func NewJobMetrics(registerer prometheus.Registerer, cfg Config) *JobMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	labels := constLabels(cfg)

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "retailerp_job_runs_total",
		Help:        "Scheduled job runs by name.",
		ConstLabels: labels,
	}, []string{"job"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "retailerp_job_duration_seconds",
		Help:        "Scheduled job latency.",
		Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		ConstLabels: labels,
	}, []string{"job"})
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "retailerp_job_errors_total",
		Help:        "Scheduled job errors by low-cardinality reason.",
		ConstLabels: labels,
	}, []string{"job", "reason"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "retailerp_job_skipped_total",
		Help:        "Job runs skipped because another instance held the lock.",
		ConstLabels: labels,
	}, []string{"job"})
	affected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "retailerp_job_affected_total",
		Help:        "Records changed by scheduled jobs.",
		ConstLabels: labels,
	}, []string{"job"})

	registerer.MustRegister(runs, duration, errs, skipped, affected)
	return &JobMetrics{runs: runs, duration: duration, errors: errs, skipped: skipped, affected: affected}
}

// ObserveCheckout records one checkout. reason is ignored on success.
func (m *CheckoutMetrics) ObserveCheckout(outcome, reason string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if outcome != OutcomeSuccess {
		if reason == "" {
			reason = ReasonUnknown
		}
		m.failures.WithLabelValues(reason).Inc()
	}
}

func (m *CheckoutMetrics) ObserveItems(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.items.Observe(float64(count))
}

func (m *JobMetrics) IncRun(job string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(job).Inc()
}

func (m *JobMetrics) ObserveDuration(job string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(job).Observe(elapsed.Seconds())
}

func (m *JobMetrics) IncError(job string, err error) {
	if m == nil || err == nil {
		return
	}
	m.errors.WithLabelValues(job, ClassifyFailureReason(err)).Inc()
}

func (m *JobMetrics) IncSkipped(job string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(job).Inc()
}

func (m *JobMetrics) AddAffected(job string, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.affected.WithLabelValues(job).Add(float64(count))
}

// ClassifyFailureReason maps infrastructure errors to a metric reason.
// Business failures are labelled by the caller.
func ClassifyFailureReason(err error) string {
	switch {
	case err == nil:
		return ReasonUnknown
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ReasonDeadlineExceeded
	case db.IsLockTimeout(err):
		return ReasonDBLockTimeout
	case db.IsSerializationFailure(err):
		return ReasonSerializationFailure
	case db.IsDuplicateKeyErr(err):
		return ReasonUniqueViolation
	default:
		return ReasonUnknown
	}
}
