package scheduler

import (
	"strings"
	"time"

	"github.com/smallbiznis/retailerp/internal/config"
)

// Config controls which jobs run and how long each may take.
type Config struct {
	Enabled          bool
	Location         *time.Location
	PointsExpiryCron string
	JobTimeout       time.Duration
	LockTTL          time.Duration
}

func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		Location:         time.UTC,
		PointsExpiryCron: "15 2 * * *",
		JobTimeout:       10 * time.Minute,
		LockTTL:          15 * time.Minute,
	}
}

func ProvideConfig(cfg config.Config) Config {
	out := DefaultConfig()
	out.Enabled = cfg.SchedulerEnabled
	out.Location = cfg.Location()
	if expr := strings.TrimSpace(cfg.PointsExpiryCron); expr != "" {
		out.PointsExpiryCron = expr
	}
	return out
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Location == nil {
		c.Location = defaults.Location
	}
	if strings.TrimSpace(c.PointsExpiryCron) == "" {
		c.PointsExpiryCron = defaults.PointsExpiryCron
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	// the lock must outlive the job it guards
	if c.LockTTL < c.JobTimeout {
		c.LockTTL = c.JobTimeout + time.Minute
	}
	return c
}
