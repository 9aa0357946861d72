package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type ActorType string

const (
	ActorTypeSystem  ActorType = "system"
	ActorTypeCashier ActorType = "cashier"
)

type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	ActorType  string            `gorm:"type:varchar(32);not null" json:"actor_type"`
	ActorID    *string           `gorm:"type:varchar(64)" json:"actor_id,omitempty"`
	Action     string            `gorm:"type:varchar(64);not null;index" json:"action"`
	TargetType string            `gorm:"type:varchar(64);not null" json:"target_type"`
	TargetID   *string           `gorm:"type:varchar(64);index" json:"target_id,omitempty"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	IPAddress  *string           `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	UserAgent  *string           `json:"user_agent,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// ListFilter narrows the trail. From is inclusive, To exclusive.
type ListFilter struct {
	Action     string
	TargetType string
	TargetID   string
	ActorID    string
	From       *time.Time
	To         *time.Time
	Limit      int
}
