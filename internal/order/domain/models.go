package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// Order is one completed sale. It is written together with its items and
// payments and never edited afterwards.
type Order struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrderNo       string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_no"`
	Status        OrderStatus     `gorm:"type:varchar(16);not null" json:"status"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(16);not null" json:"payment_status"`
	CustomerID    *snowflake.ID   `gorm:"index" json:"customer_id,omitempty"`
	CashierID     string          `gorm:"type:varchar(64)" json:"cashier_id,omitempty"`
	PromotionID   string          `gorm:"type:varchar(64)" json:"promotion_id,omitempty"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"paid_amount"`
	ChangeAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"change_amount"`
	EarnedPoints  int64           `gorm:"not null" json:"earned_points"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	OrderDate     time.Time       `gorm:"not null;index" json:"order_date"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`

	Items    []OrderItem `gorm:"-" json:"items,omitempty"`
	Payments []Payment   `gorm:"-" json:"payments,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots the product as sold.
type OrderItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrderID     snowflake.ID    `gorm:"not null;index" json:"order_id"`
	ProductID   snowflake.ID    `gorm:"not null;index" json:"product_id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductSKU  string          `gorm:"type:varchar(64)" json:"product_sku,omitempty"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }

type Payment struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrderID         snowflake.ID    `gorm:"not null;index" json:"order_id"`
	PaymentMethodID snowflake.ID    `gorm:"not null" json:"payment_method_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status          PaymentStatus   `gorm:"type:varchar(16);not null" json:"status"`
	Reference       string          `gorm:"type:varchar(128)" json:"reference,omitempty"`
	PaidAt          time.Time       `gorm:"not null" json:"paid_at"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

type PaymentMethod struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	Name      string       `gorm:"type:varchar(64);not null" json:"name"`
	IsActive  bool         `gorm:"not null" json:"is_active"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }
