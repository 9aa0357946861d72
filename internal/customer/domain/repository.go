package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListCustomerFilter, pos *pagination.Position, limit int) ([]*Customer, error)
	// ApplyPurchase increments the aggregates in place.
	ApplyPurchase(ctx context.Context, db *gorm.DB, id snowflake.ID, points int64, spent decimal.Decimal, updatedAt time.Time) error
	// DeductAvailable lowers available points when enough remain and
	// reports rows affected.
	DeductAvailable(ctx context.Context, db *gorm.DB, id snowflake.ID, points int64, updatedAt time.Time) (int64, error)
}
