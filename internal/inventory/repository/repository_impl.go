package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/internal/inventory/domain"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertIfAbsent(ctx context.Context, db *gorm.DB, inv *domain.Inventory) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoNothing: true,
		}).
		Create(inv).Error
}

func (r *repo) FindByProductID(ctx context.Context, db *gorm.DB, productID snowflake.ID) (*domain.Inventory, error) {
	var inv domain.Inventory
	err := db.WithContext(ctx).Raw(
		`SELECT id, product_id, quantity, reserved_qty, available_qty, reorder_point, reorder_qty, created_at, updated_at
		 FROM inventories WHERE product_id = ?`,
		productID,
	).Scan(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == 0 {
		return nil, nil
	}
	return &inv, nil
}

func (r *repo) ApplyDelta(ctx context.Context, db *gorm.DB, productID snowflake.ID, delta int64, updatedAt time.Time) (int64, error) {
	floor := int64(0)
	if delta < 0 {
		floor = -delta
	}
	res := db.WithContext(ctx).Exec(
		`UPDATE inventories
		 SET quantity = quantity + ?, available_qty = available_qty + ?, updated_at = ?
		 WHERE product_id = ? AND available_qty >= ?`,
		delta,
		delta,
		updatedAt,
		productID,
		floor,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) UpdateReorder(ctx context.Context, db *gorm.DB, productID snowflake.ID, reorderPoint, reorderQty int64, updatedAt time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE inventories SET reorder_point = ?, reorder_qty = ?, updated_at = ? WHERE product_id = ?`,
		reorderPoint,
		reorderQty,
		updatedAt,
		productID,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) ListBelowReorderPoint(ctx context.Context, db *gorm.DB, limit int) ([]*domain.Inventory, error) {
	var items []*domain.Inventory
	err := db.WithContext(ctx).
		Model(&domain.Inventory{}).
		Where("reorder_point > 0 AND available_qty <= reorder_point").
		Order("(reorder_point - available_qty) desc, product_id asc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertMovement(ctx context.Context, db *gorm.DB, m *domain.InventoryMovement) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO inventory_movements (
			id, inventory_id, product_id, type, quantity_change, quantity_after,
			available_after, reference_type, reference_id, note, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.InventoryID,
		m.ProductID,
		m.Type,
		m.QuantityChange,
		m.QuantityAfter,
		m.AvailableAfter,
		m.ReferenceType,
		m.ReferenceID,
		m.Note,
		m.CreatedAt,
	).Error
}

func (r *repo) ListMovements(ctx context.Context, db *gorm.DB, productID snowflake.ID, pos *pagination.Position, limit int) ([]*domain.InventoryMovement, error) {
	var items []*domain.InventoryMovement
	stmt := db.WithContext(ctx).
		Model(&domain.InventoryMovement{}).
		Where("product_id = ?", productID)
	if err := pagination.Apply(stmt, pos, limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
