package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/internal/numbering/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rule *domain.NumberingRule) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO numbering_rules (
			id, code, name, prefix, date_format, seq_separator, sequence_length,
			reset_period, current_sequence, last_reset_at, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.ID,
		rule.Code,
		rule.Name,
		rule.Prefix,
		rule.DateFormat,
		rule.Separator,
		rule.SequenceLength,
		rule.ResetPeriod,
		rule.CurrentSequence,
		rule.LastResetAt,
		rule.IsActive,
		rule.CreatedAt,
		rule.UpdatedAt,
	).Error
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.NumberingRule, error) {
	return r.findByCode(db.WithContext(ctx), code)
}

// FindByCodeForUpdate holds the row lock until the surrounding transaction
// ends, serializing concurrent generators of the same rule.
func (r *repo) FindByCodeForUpdate(ctx context.Context, db *gorm.DB, code string) (*domain.NumberingRule, error) {
	return r.findByCode(db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), code)
}

func (r *repo) findByCode(stmt *gorm.DB, code string) (*domain.NumberingRule, error) {
	var rule domain.NumberingRule
	err := stmt.Model(&domain.NumberingRule{}).
		Where("code = ?", code).
		Limit(1).
		Find(&rule).Error
	if err != nil {
		return nil, err
	}
	if rule.ID == 0 {
		return nil, nil
	}
	return &rule, nil
}

func (r *repo) UpdateSequence(ctx context.Context, db *gorm.DB, id snowflake.ID, seq int64, lastResetAt *time.Time, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE numbering_rules
		 SET current_sequence = ?, last_reset_at = ?, updated_at = ?
		 WHERE id = ?`,
		seq,
		lastResetAt,
		updatedAt,
		id,
	).Error
}

func (r *repo) UpdateActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE numbering_rules SET is_active = ?, updated_at = ? WHERE id = ?`,
		active,
		updatedAt,
		id,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.NumberingRule, error) {
	var rules []*domain.NumberingRule
	if err := db.WithContext(ctx).Order("code asc").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}
