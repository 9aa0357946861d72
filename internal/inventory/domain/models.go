package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Inventory is the stock record of one product. AvailableQty is stored and
// maintained together with Quantity so that it can be guarded by a single
// conditional UPDATE.
type Inventory struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	ProductID    snowflake.ID `gorm:"not null;uniqueIndex" json:"product_id"`
	Quantity     int64        `gorm:"not null" json:"quantity"`
	ReservedQty  int64        `gorm:"not null" json:"reserved_qty"`
	AvailableQty int64        `gorm:"not null" json:"available_qty"`
	ReorderPoint int64        `gorm:"not null" json:"reorder_point"`
	ReorderQty   int64        `gorm:"not null" json:"reorder_qty"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
}

func (Inventory) TableName() string { return "inventories" }

type MovementType string

const (
	MovementSale       MovementType = "SALE"
	MovementReceipt    MovementType = "RECEIPT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// InventoryMovement is an append-only stock ledger entry.
type InventoryMovement struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	InventoryID    snowflake.ID `gorm:"not null;index" json:"inventory_id"`
	ProductID      snowflake.ID `gorm:"not null;index" json:"product_id"`
	Type           MovementType `gorm:"type:varchar(16);not null" json:"type"`
	QuantityChange int64        `gorm:"not null" json:"quantity_change"`
	QuantityAfter  int64        `gorm:"not null" json:"quantity_after"`
	AvailableAfter int64        `gorm:"not null" json:"available_after"`
	ReferenceType  string       `gorm:"type:varchar(32)" json:"reference_type,omitempty"`
	ReferenceID    string       `gorm:"type:varchar(64)" json:"reference_id,omitempty"`
	Note           string       `gorm:"type:text" json:"note,omitempty"`
	CreatedAt      time.Time    `gorm:"not null" json:"created_at"`
}

func (InventoryMovement) TableName() string { return "inventory_movements" }

type PurchaseSuggestion struct {
	ProductID    snowflake.ID `json:"product_id"`
	AvailableQty int64        `json:"available_qty"`
	ReorderPoint int64        `json:"reorder_point"`
	SuggestedQty int64        `json:"suggested_qty"`
}
