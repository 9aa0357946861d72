package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"gorm.io/gorm"
)

type AccrueRequest struct {
	CustomerID  snowflake.ID
	OrderID     snowflake.ID
	OrderNo     string
	TotalAmount decimal.Decimal
}

type AccrueResult struct {
	Points  int64 `json:"points"`
	Balance int64 `json:"balance"`
}

type ListLogsRequest struct {
	CustomerID snowflake.ID
	pagination.Pagination
}

type ListLogsResponse struct {
	pagination.PageInfo
	Logs []PointsLog `json:"logs"`
}

type ExpireResult struct {
	Customers int   `json:"customers"`
	Points    int64 `json:"points"`
}

type Service interface {
	// PointsFor converts a purchase total into whole points.
	PointsFor(total decimal.Decimal) int64
	// Accrue awards points for a completed order inside tx and updates the
	// member aggregates.
	Accrue(ctx context.Context, tx *gorm.DB, req AccrueRequest) (AccrueResult, error)
	ListLogs(ctx context.Context, req ListLogsRequest) (ListLogsResponse, error)
	// ExpireDue expires points earned with an expiry date at or before asOf
	// that have not been consumed yet, oldest first.
	ExpireDue(ctx context.Context, asOf time.Time) (ExpireResult, error)
}

type Repository interface {
	InsertLog(ctx context.Context, db *gorm.DB, log *PointsLog) error
	ListLogs(ctx context.Context, db *gorm.DB, customerID snowflake.ID, pos *pagination.Position, limit int) ([]*PointsLog, error)
	CustomersWithExpiredEarnings(ctx context.Context, db *gorm.DB, asOf time.Time) ([]snowflake.ID, error)
	// SumPoints totals the absolute points of one type, optionally limited to
	// rows expiring at or before expiringBy.
	SumPoints(ctx context.Context, db *gorm.DB, customerID snowflake.ID, kind PointsType, expiringBy *time.Time) (int64, error)
}

var (
	ErrInvalidCustomer  = errors.New("invalid_customer")
	ErrCustomerNotFound = errors.New("customer_not_found")
	ErrInvalidAmount    = errors.New("invalid_amount")
)
