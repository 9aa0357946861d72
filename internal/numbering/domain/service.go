package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CreateRuleRequest struct {
	Code           string      `json:"code"`
	Name           string      `json:"name"`
	Prefix         string      `json:"prefix"`
	DateFormat     DateFormat  `json:"date_format"`
	Separator      string      `json:"separator"`
	SequenceLength int         `json:"sequence_length"`
	ResetPeriod    ResetPeriod `json:"reset_period"`
	IsActive       *bool       `json:"is_active,omitempty"`
}

type Service interface {
	// GenerateNext issues the next number for code. When tx is non-nil the
	// counter update joins that transaction and is rolled back with it.
	GenerateNext(ctx context.Context, tx *gorm.DB, code string) (string, error)
	// PreviewNext returns the number GenerateNext would issue now without
	// reserving it.
	PreviewNext(ctx context.Context, code string) (string, error)

	CreateRule(ctx context.Context, req CreateRuleRequest) (NumberingRule, error)
	GetRule(ctx context.Context, code string) (NumberingRule, error)
	ListRules(ctx context.Context) ([]NumberingRule, error)
	SetActive(ctx context.Context, code string, active bool) (NumberingRule, error)
}

var (
	ErrInvalidCode           = errors.New("invalid_code")
	ErrInvalidName           = errors.New("invalid_name")
	ErrInvalidDateFormat     = errors.New("invalid_date_format")
	ErrInvalidResetPeriod    = errors.New("invalid_reset_period")
	ErrInvalidSequenceLength = errors.New("invalid_sequence_length")
	ErrRuleNotFound          = errors.New("rule_not_found")
	ErrRuleInactive          = errors.New("rule_inactive")
	ErrRuleExists            = errors.New("rule_exists")
)
