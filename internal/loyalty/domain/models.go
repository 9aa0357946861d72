package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type PointsType string

const (
	PointsEarn   PointsType = "EARN"
	PointsSpend  PointsType = "SPEND"
	PointsExpire PointsType = "EXPIRE"
)

// PointsLog is an append-only ledger row. Points is signed and Balance is
// the member's available points after the row was applied.
type PointsLog struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	CustomerID  snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	OrderID     *snowflake.ID `gorm:"index" json:"order_id,omitempty"`
	Type        PointsType    `gorm:"type:varchar(16);not null" json:"type"`
	Points      int64         `gorm:"not null" json:"points"`
	Balance     int64         `gorm:"not null" json:"balance"`
	ExpiryDate  *time.Time    `gorm:"index" json:"expiry_date,omitempty"`
	Description string        `gorm:"type:varchar(255)" json:"description,omitempty"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
}

func (PointsLog) TableName() string { return "points_logs" }
