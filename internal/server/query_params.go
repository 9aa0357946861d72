package server

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

const dateOnlyLayout = "2006-01-02"

func parseOptionalSnowflakeID(value string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(trimmed)
	if err != nil || parsed <= 0 {
		return nil, errors.New("invalid_snowflake_id")
	}
	return &parsed, nil
}

// parseOptionalTime accepts RFC3339 or a bare date. Bare dates are calendar
// days in loc, widened to the end of the day when endOfDay is set.
func parseOptionalTime(value string, endOfDay bool, loc *time.Location) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	parsed, err := time.ParseInLocation(dateOnlyLayout, trimmed, loc)
	if err != nil {
		return nil, errors.New("invalid_time")
	}
	if endOfDay {
		parsed = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &parsed, nil
}
