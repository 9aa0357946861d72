package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ListAuditLogRequest filters the trail, e.g. one cashier's shift or the
// history of a single order.
type ListAuditLogRequest struct {
	Action     string
	TargetType string
	TargetID   string
	ActorID    string
	From       *time.Time
	To         *time.Time
	Limit      int
}

type Service interface {
	AuditLog(ctx context.Context, actorType string, actorID *string, action string, targetType string, targetID *string, metadata map[string]any) error
	List(ctx context.Context, req ListAuditLogRequest) ([]AuditLog, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*AuditLog, error)
}

var (
	ErrInvalidAction = errors.New("invalid_action")
	ErrInvalidRange  = errors.New("invalid_range")
)
