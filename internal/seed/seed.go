package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	numberingdomain "github.com/smallbiznis/retailerp/internal/numbering/domain"
	orderdomain "github.com/smallbiznis/retailerp/internal/order/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultNumberingRules are the document series a fresh store starts with.
// ORDER renders as ORD-20240115-0001, RECEIPT as GRN-202401-00001.
func DefaultNumberingRules() []numberingdomain.NumberingRule {
	return []numberingdomain.NumberingRule{
		{
			Code:           "ORDER",
			Name:           "Sales Order",
			Prefix:         "ORD-",
			DateFormat:     numberingdomain.DateFormatYYYYMMDD,
			Separator:      "-",
			SequenceLength: 4,
			ResetPeriod:    numberingdomain.ResetDaily,
			IsActive:       true,
		},
		{
			Code:           "RECEIPT",
			Name:           "Goods Receipt",
			Prefix:         "GRN-",
			DateFormat:     numberingdomain.DateFormatYYYYMM,
			Separator:      "-",
			SequenceLength: 5,
			ResetPeriod:    numberingdomain.ResetMonthly,
			IsActive:       true,
		},
	}
}

func DefaultPaymentMethods() []orderdomain.PaymentMethod {
	return []orderdomain.PaymentMethod{
		{Code: "CASH", Name: "Cash", IsActive: true},
		{Code: "CARD", Name: "Debit / Credit Card", IsActive: true},
		{Code: "TRANSFER", Name: "Bank Transfer", IsActive: true},
	}
}

// EnsureDefaults inserts the default numbering rules and payment methods.
// Existing rows, including ones an operator edited or deactivated, are left
// alone, so it is safe to run on every start.
func EnsureDefaults(ctx context.Context, db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	now := time.Now().UTC()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rule := range DefaultNumberingRules() {
			rule.ID = node.Generate()
			rule.CreatedAt = now
			rule.UpdatedAt = now
			if err := insertIfAbsent(tx, &rule); err != nil {
				return err
			}
		}
		for _, method := range DefaultPaymentMethods() {
			method.ID = node.Generate()
			method.CreatedAt = now
			method.UpdatedAt = now
			if err := insertIfAbsent(tx, &method); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertIfAbsent(tx *gorm.DB, row any) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(row).Error
}
