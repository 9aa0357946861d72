package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Customer is a loyalty member. The point and spend aggregates are only
// changed through loyalty accrual and expiry.
type Customer struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"type:varchar(128);not null" json:"name"`
	Phone           string          `gorm:"type:varchar(32);index" json:"phone,omitempty"`
	Email           string          `gorm:"type:varchar(255)" json:"email,omitempty"`
	TotalPoints     int64           `gorm:"not null" json:"total_points"`
	AvailablePoints int64           `gorm:"not null" json:"available_points"`
	TotalSpent      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_spent"`
	OrderCount      int64           `gorm:"not null" json:"order_count"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
