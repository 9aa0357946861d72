package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/internal/order/domain"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertOrder(ctx context.Context, db *gorm.DB, o *domain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (
			id, order_no, status, payment_status, customer_id, cashier_id, promotion_id,
			subtotal, tax_amount, total_amount, paid_amount, change_amount, earned_points,
			notes, order_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID,
		o.OrderNo,
		o.Status,
		o.PaymentStatus,
		o.CustomerID,
		o.CashierID,
		o.PromotionID,
		o.Subtotal,
		o.TaxAmount,
		o.TotalAmount,
		o.PaidAmount,
		o.ChangeAmount,
		o.EarnedPoints,
		o.Notes,
		o.OrderDate,
		o.CreatedAt,
		o.UpdatedAt,
	).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func (r *repo) InsertPayments(ctx context.Context, db *gorm.DB, payments []domain.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&payments).Error
}

func (r *repo) UpdateEarnedPoints(ctx context.Context, db *gorm.DB, orderID snowflake.ID, points int64, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE orders SET earned_points = ?, updated_at = ? WHERE id = ?`,
		points,
		updatedAt,
		orderID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListPayments(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListOrderFilter, pos *pagination.Position, limit int) ([]*domain.Order, error) {
	stmt := db.WithContext(ctx).Model(&domain.Order{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		stmt = stmt.Where("order_date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("order_date < ?", *filter.To)
	}

	var orders []*domain.Order
	if err := pagination.Apply(stmt, pos, limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) ListPaymentMethods(ctx context.Context, db *gorm.DB, activeOnly bool) ([]domain.PaymentMethod, error) {
	stmt := db.WithContext(ctx).Model(&domain.PaymentMethod{})
	if activeOnly {
		stmt = stmt.Where("is_active = ?", true)
	}

	var methods []domain.PaymentMethod
	if err := stmt.Order("code asc").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *repo) InsertPaymentMethodIfAbsent(ctx context.Context, db *gorm.DB, method *domain.PaymentMethod) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).
		Create(method).Error
}
