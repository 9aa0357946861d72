package domain

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidProductID    = errors.New("invalid_product_id")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidReason       = errors.New("invalid_reason")
	ErrInvalidReorderPoint = errors.New("invalid_reorder_point")
	ErrNoInventoryRecord   = errors.New("no_inventory_record")
	ErrInsufficientStock   = errors.New("insufficient_stock")
)

// InsufficientStockError names the product and what was left when a
// request could not be served.
type InsufficientStockError struct {
	ProductID snowflake.ID
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient_stock: product %s requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// NoInventoryRecord wraps ErrNoInventoryRecord with the product id.
func NoInventoryRecord(productID snowflake.ID) error {
	return fmt.Errorf("%w: product %s", ErrNoInventoryRecord, productID)
}
