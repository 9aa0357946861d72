package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/internal/numbering/format"
)

type DateFormat string

const (
	DateFormatNone     DateFormat = format.DateNone
	DateFormatYYYYMMDD DateFormat = format.DateYYYYMMDD
	DateFormatYYYYMM   DateFormat = format.DateYYYYMM
	DateFormatYYYY     DateFormat = format.DateYYYY
)

type ResetPeriod string

const (
	ResetDaily   ResetPeriod = "DAILY"
	ResetMonthly ResetPeriod = "MONTHLY"
	ResetYearly  ResetPeriod = "YEARLY"
	ResetNever   ResetPeriod = "NEVER"
)

func (p ResetPeriod) Valid() bool {
	switch p {
	case ResetDaily, ResetMonthly, ResetYearly, ResetNever:
		return true
	default:
		return false
	}
}

// NumberingRule is the persistent counter behind one document type.
type NumberingRule struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	Code            string       `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`
	Name            string       `gorm:"type:varchar(128);not null" json:"name"`
	Prefix          string       `gorm:"type:varchar(32);not null" json:"prefix"`
	DateFormat      DateFormat   `gorm:"type:varchar(16);not null" json:"date_format"`
	Separator       string       `gorm:"column:seq_separator;type:varchar(8);not null" json:"separator"`
	SequenceLength  int          `gorm:"not null" json:"sequence_length"`
	ResetPeriod     ResetPeriod  `gorm:"type:varchar(16);not null" json:"reset_period"`
	CurrentSequence int64        `gorm:"not null" json:"current_sequence"`
	LastResetAt     *time.Time   `json:"last_reset_at,omitempty"`
	IsActive        bool         `gorm:"not null" json:"is_active"`
	CreatedAt       time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null" json:"updated_at"`
}

func (NumberingRule) TableName() string { return "numbering_rules" }

func (r NumberingRule) Pattern() format.Pattern {
	return format.Pattern{
		Prefix:         r.Prefix,
		DateFormat:     string(r.DateFormat),
		Separator:      r.Separator,
		SequenceLength: r.SequenceLength,
	}
}

// ResetDue reports whether now falls in a later reset period than
// LastResetAt, comparing calendar dates in loc. A rule that was never reset
// is due unless it never resets.
func (r NumberingRule) ResetDue(now time.Time, loc *time.Location) bool {
	if r.ResetPeriod == ResetNever {
		return false
	}
	if r.LastResetAt == nil || r.LastResetAt.IsZero() {
		return true
	}
	if loc == nil {
		loc = time.UTC
	}
	return periodKey(now.In(loc), r.ResetPeriod) > periodKey(r.LastResetAt.In(loc), r.ResetPeriod)
}

// Next returns the sequence the rule would issue at now.
func (r NumberingRule) Next(now time.Time, loc *time.Location) (seq int64, reset bool) {
	if r.ResetDue(now, loc) {
		return 1, true
	}
	return r.CurrentSequence + 1, false
}

func periodKey(t time.Time, period ResetPeriod) int {
	switch period {
	case ResetDaily:
		return t.Year()*10000 + int(t.Month())*100 + t.Day()
	case ResetMonthly:
		return t.Year()*100 + int(t.Month())
	case ResetYearly:
		return t.Year()
	default:
		return 0
	}
}
