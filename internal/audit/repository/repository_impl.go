package repository

import (
	"context"

	"github.com/smallbiznis/retailerp/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.AuditLog, error) {
	stmt := db.WithContext(ctx).Model(&domain.AuditLog{})

	exact := map[string]string{
		"action":      filter.Action,
		"target_type": filter.TargetType,
		"target_id":   filter.TargetID,
		"actor_id":    filter.ActorID,
	}
	for column, value := range exact {
		if value != "" {
			stmt = stmt.Where(column+" = ?", value)
		}
	}
	if filter.From != nil {
		stmt = stmt.Where("created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		stmt = stmt.Where("created_at < ?", filter.To.UTC())
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}

	var logs []*domain.AuditLog
	if err := stmt.Order("created_at desc, id desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
