package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"gorm.io/gorm"
)

type DecrementRequest struct {
	ProductID     snowflake.ID
	Quantity      int64
	ReferenceType string
	ReferenceID   string
}

type ReceiveRequest struct {
	ProductID snowflake.ID `json:"-"`
	Quantity  int64        `json:"quantity"`
	Note      string       `json:"note"`
}

type ReceiveResult struct {
	Inventory Inventory `json:"inventory"`
	ReceiptNo string    `json:"receipt_no,omitempty"`
}

type AdjustRequest struct {
	ProductID snowflake.ID `json:"-"`
	Delta     int64        `json:"delta"`
	Reason    string       `json:"reason"`
}

type SetReorderPointRequest struct {
	ProductID    snowflake.ID `json:"-"`
	ReorderPoint int64        `json:"reorder_point"`
	ReorderQty   int64        `json:"reorder_qty"`
}

type ListMovementsRequest struct {
	ProductID snowflake.ID
	pagination.Pagination
}

type ListMovementsResponse struct {
	pagination.PageInfo
	Movements []InventoryMovement `json:"movements"`
}

type Service interface {
	// CheckAvailability is advisory; Decrement re-validates under the
	// transaction.
	CheckAvailability(ctx context.Context, productID snowflake.ID, qty int64) error
	// Decrement removes qty from available stock or fails without touching
	// the row. When tx is non-nil it joins that transaction.
	Decrement(ctx context.Context, tx *gorm.DB, req DecrementRequest) error

	Receive(ctx context.Context, req ReceiveRequest) (ReceiveResult, error)
	Adjust(ctx context.Context, req AdjustRequest) (Inventory, error)
	Get(ctx context.Context, productID snowflake.ID) (Inventory, error)
	ListMovements(ctx context.Context, req ListMovementsRequest) (ListMovementsResponse, error)
	SetReorderPoint(ctx context.Context, req SetReorderPointRequest) (Inventory, error)
	PurchaseSuggestions(ctx context.Context, limit int) ([]PurchaseSuggestion, error)
}
