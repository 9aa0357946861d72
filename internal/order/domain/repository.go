package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	InsertOrder(ctx context.Context, db *gorm.DB, order *Order) error
	InsertItems(ctx context.Context, db *gorm.DB, items []OrderItem) error
	InsertPayments(ctx context.Context, db *gorm.DB, payments []Payment) error
	UpdateEarnedPoints(ctx context.Context, db *gorm.DB, orderID snowflake.ID, points int64, updatedAt time.Time) error

	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	ListItems(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]OrderItem, error)
	ListPayments(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]Payment, error)
	List(ctx context.Context, db *gorm.DB, filter ListOrderFilter, pos *pagination.Position, limit int) ([]*Order, error)

	ListPaymentMethods(ctx context.Context, db *gorm.DB, activeOnly bool) ([]PaymentMethod, error)
	InsertPaymentMethodIfAbsent(ctx context.Context, db *gorm.DB, method *PaymentMethod) error
}
