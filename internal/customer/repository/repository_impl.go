package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailerp/internal/customer/domain"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (
			id, name, phone, email, total_points, available_points, total_spent,
			order_count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.TotalPoints,
		customer.AvailablePoints,
		customer.TotalSpent,
		customer.OrderCount,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	return r.findByID(db.WithContext(ctx), id)
}

func (r *repo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	return r.findByID(db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repo) findByID(stmt *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := stmt.Model(&domain.Customer{}).
		Where("id = ?", id).
		Limit(1).
		Find(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCustomerFilter, pos *pagination.Position, limit int) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	stmt := db.WithContext(ctx).Model(&domain.Customer{})
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Phone != "" {
		stmt = stmt.Where("phone = ?", filter.Phone)
	}
	if filter.Email != "" {
		stmt = stmt.Where("email = ?", filter.Email)
	}
	if err := pagination.Apply(stmt, pos, limit).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) ApplyPurchase(ctx context.Context, db *gorm.DB, id snowflake.ID, points int64, spent decimal.Decimal, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers
		 SET total_points = total_points + ?,
		     available_points = available_points + ?,
		     total_spent = total_spent + ?,
		     order_count = order_count + 1,
		     updated_at = ?
		 WHERE id = ?`,
		points,
		points,
		spent,
		updatedAt,
		id,
	).Error
}

func (r *repo) DeductAvailable(ctx context.Context, db *gorm.DB, id snowflake.ID, points int64, updatedAt time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE customers
		 SET available_points = available_points - ?, updated_at = ?
		 WHERE id = ? AND available_points >= ?`,
		points,
		updatedAt,
		id,
		points,
	)
	return res.RowsAffected, res.Error
}
