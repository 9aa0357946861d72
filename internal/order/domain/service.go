package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
)

type OrderItemRequest struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
}

type PaymentRequest struct {
	PaymentMethodID string          `json:"payment_method_id"`
	Amount          decimal.Decimal `json:"amount"`
	Reference       string          `json:"reference"`
}

type CreateOrderRequest struct {
	Items       []OrderItemRequest `json:"items"`
	Payments    []PaymentRequest   `json:"payments"`
	CustomerID  string             `json:"customer_id"`
	PromotionID string             `json:"promotion_id"`
	Notes       string             `json:"notes"`
}

// Result is the checkout outcome returned to the point of sale.
type Result struct {
	Success bool                `json:"success"`
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message"`
	Data    *ResultData         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type ResultData struct {
	OrderID      string          `json:"order_id"`
	OrderNo      string          `json:"order_no"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ChangeAmount decimal.Decimal `json:"change_amount"`
	EarnedPoints int64           `json:"earned_points"`
}

const (
	ResultCodeValidation          = "validation_error"
	ResultCodeInsufficientStock   = "insufficient_stock"
	ResultCodeInsufficientPayment = "insufficient_payment"
	ResultCodeNumbering           = "numbering_unavailable"
	ResultCodeInternal            = "internal_error"
)

type ListOrderRequest struct {
	pagination.Pagination
	Status     string
	CustomerID string
	From       *time.Time
	To         *time.Time
}

type ListOrderFilter struct {
	Status     OrderStatus
	CustomerID *snowflake.ID
	From       *time.Time
	To         *time.Time
}

type ListOrderResponse struct {
	pagination.PageInfo
	Orders []Order `json:"orders"`
}

type Service interface {
	// CreateOrder validates and commits a sale atomically. Failures are one
	// of ValidationErrors, *StockShortageError, *InsufficientPaymentError,
	// a numbering error or *TransactionFailedError.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error)
	// Checkout wraps CreateOrder into a Result for the point of sale.
	Checkout(ctx context.Context, req CreateOrderRequest) Result

	GetByID(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, req ListOrderRequest) (ListOrderResponse, error)
	ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error)
}
