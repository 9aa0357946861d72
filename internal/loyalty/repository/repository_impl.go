package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/internal/loyalty/domain"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertLog(ctx context.Context, db *gorm.DB, log *domain.PointsLog) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO points_logs (id, customer_id, order_id, type, points, balance, expiry_date, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		log.CustomerID,
		log.OrderID,
		log.Type,
		log.Points,
		log.Balance,
		log.ExpiryDate,
		log.Description,
		log.CreatedAt,
	).Error
}

func (r *repo) ListLogs(ctx context.Context, db *gorm.DB, customerID snowflake.ID, pos *pagination.Position, limit int) ([]*domain.PointsLog, error) {
	var logs []*domain.PointsLog
	stmt := db.WithContext(ctx).
		Model(&domain.PointsLog{}).
		Where("customer_id = ?", customerID)
	if err := pagination.Apply(stmt, pos, limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repo) CustomersWithExpiredEarnings(ctx context.Context, db *gorm.DB, asOf time.Time) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).
		Model(&domain.PointsLog{}).
		Distinct("customer_id").
		Where("type = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", domain.PointsEarn, asOf).
		Order("customer_id asc").
		Pluck("customer_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) SumPoints(ctx context.Context, db *gorm.DB, customerID snowflake.ID, kind domain.PointsType, expiringBy *time.Time) (int64, error) {
	var total int64
	stmt := db.WithContext(ctx).
		Model(&domain.PointsLog{}).
		Select("COALESCE(SUM(ABS(points)), 0)").
		Where("customer_id = ? AND type = ?", customerID, kind)
	if expiringBy != nil {
		stmt = stmt.Where("expiry_date IS NOT NULL AND expiry_date <= ?", *expiringBy)
	}
	if err := stmt.Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
