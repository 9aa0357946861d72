package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertIfAbsent creates the row unless the product already has one.
	InsertIfAbsent(ctx context.Context, db *gorm.DB, inv *Inventory) error
	FindByProductID(ctx context.Context, db *gorm.DB, productID snowflake.ID) (*Inventory, error)
	// ApplyDelta adds delta to quantity and available_qty only when the
	// result keeps available_qty non-negative. It returns rows affected.
	ApplyDelta(ctx context.Context, db *gorm.DB, productID snowflake.ID, delta int64, updatedAt time.Time) (int64, error)
	UpdateReorder(ctx context.Context, db *gorm.DB, productID snowflake.ID, reorderPoint, reorderQty int64, updatedAt time.Time) (int64, error)
	ListBelowReorderPoint(ctx context.Context, db *gorm.DB, limit int) ([]*Inventory, error)

	InsertMovement(ctx context.Context, db *gorm.DB, movement *InventoryMovement) error
	ListMovements(ctx context.Context, db *gorm.DB, productID snowflake.ID, pos *pagination.Position, limit int) ([]*InventoryMovement, error)
}
