package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rule *NumberingRule) error
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*NumberingRule, error)
	FindByCodeForUpdate(ctx context.Context, db *gorm.DB, code string) (*NumberingRule, error)
	UpdateSequence(ctx context.Context, db *gorm.DB, id snowflake.ID, seq int64, lastResetAt *time.Time, updatedAt time.Time) error
	UpdateActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool, updatedAt time.Time) error
	List(ctx context.Context, db *gorm.DB) ([]*NumberingRule, error)
}
