package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/retailerp/internal/audit/domain"
	"github.com/smallbiznis/retailerp/internal/clock"
	"github.com/smallbiznis/retailerp/internal/config"
	customerdomain "github.com/smallbiznis/retailerp/internal/customer/domain"
	"github.com/smallbiznis/retailerp/internal/loyalty/domain"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	RetailCfg    *config.RetailConfigHolder
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	AuditSvc     auditdomain.Service `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	retailCfg    *config.RetailConfigHolder
	repo         domain.Repository
	customerRepo customerdomain.Repository
	auditSvc     auditdomain.Service
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("loyalty.service"),
		genID:        p.GenID,
		clock:        clk,
		retailCfg:    p.RetailCfg,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		auditSvc:     p.AuditSvc,
	}
}

func (s *Service) PointsFor(total decimal.Decimal) int64 {
	ratio := s.retailCfg.Get().PointsRatioDecimal()
	if !total.IsPositive() || !ratio.IsPositive() {
		return 0
	}
	return total.Div(ratio).Floor().IntPart()
}

func (s *Service) Accrue(ctx context.Context, tx *gorm.DB, req domain.AccrueRequest) (domain.AccrueResult, error) {
	if req.CustomerID == 0 {
		return domain.AccrueResult{}, domain.ErrInvalidCustomer
	}
	if req.TotalAmount.IsNegative() {
		return domain.AccrueResult{}, domain.ErrInvalidAmount
	}
	if tx == nil {
		tx = s.db
	}

	customer, err := s.customerRepo.FindByIDForUpdate(ctx, tx, req.CustomerID)
	if err != nil {
		return domain.AccrueResult{}, err
	}
	if customer == nil {
		return domain.AccrueResult{}, domain.ErrCustomerNotFound
	}

	now := s.clock.Now().UTC()
	points := s.PointsFor(req.TotalAmount)
	balance := customer.AvailablePoints + points

	// Orders too small to earn still count toward spend and order count.
	if points > 0 {
		expiry := now.AddDate(0, 0, s.retailCfg.Get().PointsExpiryDays)
		entry := &domain.PointsLog{
			ID:          s.genID.Generate(),
			CustomerID:  req.CustomerID,
			Type:        domain.PointsEarn,
			Points:      points,
			Balance:     balance,
			ExpiryDate:  &expiry,
			Description: "order " + req.OrderNo,
			CreatedAt:   now,
		}
		if req.OrderID != 0 {
			orderID := req.OrderID
			entry.OrderID = &orderID
		}
		if err := s.repo.InsertLog(ctx, tx, entry); err != nil {
			return domain.AccrueResult{}, err
		}
	}

	if err := s.customerRepo.ApplyPurchase(ctx, tx, req.CustomerID, points, req.TotalAmount, now); err != nil {
		return domain.AccrueResult{}, err
	}

	return domain.AccrueResult{Points: points, Balance: balance}, nil
}

func (s *Service) ListLogs(ctx context.Context, req domain.ListLogsRequest) (domain.ListLogsResponse, error) {
	if req.CustomerID == 0 {
		return domain.ListLogsResponse{}, domain.ErrInvalidCustomer
	}
	pos, err := req.Position()
	if err != nil {
		return domain.ListLogsResponse{}, err
	}

	limit := req.Limit()
	items, err := s.repo.ListLogs(ctx, s.db, req.CustomerID, pos, limit)
	if err != nil {
		return domain.ListLogsResponse{}, err
	}
	items, pageInfo := pagination.Page(items, limit, func(l *domain.PointsLog) (snowflake.ID, time.Time) {
		return l.ID, l.CreatedAt
	})

	logs := make([]domain.PointsLog, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		logs = append(logs, *item)
	}
	return domain.ListLogsResponse{PageInfo: pageInfo, Logs: logs}, nil
}

func (s *Service) ExpireDue(ctx context.Context, asOf time.Time) (domain.ExpireResult, error) {
	asOf = asOf.UTC()
	customerIDs, err := s.repo.CustomersWithExpiredEarnings(ctx, s.db, asOf)
	if err != nil {
		return domain.ExpireResult{}, err
	}

	var result domain.ExpireResult
	for _, customerID := range customerIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		expired, err := s.expireCustomer(ctx, customerID, asOf)
		if err != nil {
			s.log.Error("points expiry failed",
				zap.String("customer_id", customerID.String()),
				zap.Error(err),
			)
			continue
		}
		if expired == 0 {
			continue
		}
		result.Customers++
		result.Points += expired
	}

	if result.Points > 0 {
		s.log.Info("points expired",
			zap.Int("customers", result.Customers),
			zap.Int64("points", result.Points),
			zap.Time("as_of", asOf),
		)
	}
	return result, nil
}

// expireCustomer expires whatever part of the matured earnings has not been
// consumed by spends or earlier expiries. Spends are assumed to draw on the
// oldest earnings first.
func (s *Service) expireCustomer(ctx context.Context, customerID snowflake.ID, asOf time.Time) (int64, error) {
	var expired int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customerRepo.FindByIDForUpdate(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return nil
		}

		matured, err := s.repo.SumPoints(ctx, tx, customerID, domain.PointsEarn, &asOf)
		if err != nil {
			return err
		}
		spent, err := s.repo.SumPoints(ctx, tx, customerID, domain.PointsSpend, nil)
		if err != nil {
			return err
		}
		alreadyExpired, err := s.repo.SumPoints(ctx, tx, customerID, domain.PointsExpire, nil)
		if err != nil {
			return err
		}

		due := matured - spent - alreadyExpired
		if due > customer.AvailablePoints {
			due = customer.AvailablePoints
		}
		if due <= 0 {
			return nil
		}

		now := s.clock.Now().UTC()
		rows, err := s.customerRepo.DeductAvailable(ctx, tx, customerID, due, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}

		if err := s.repo.InsertLog(ctx, tx, &domain.PointsLog{
			ID:          s.genID.Generate(),
			CustomerID:  customerID,
			Type:        domain.PointsExpire,
			Points:      -due,
			Balance:     customer.AvailablePoints - due,
			Description: "expired as of " + asOf.Format("2006-01-02"),
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		expired = due
		return nil
	})
	if err != nil {
		return 0, err
	}

	if expired > 0 && s.auditSvc != nil {
		targetID := customerID.String()
		_ = s.auditSvc.AuditLog(ctx, "", nil, "points.expire", "customer", &targetID, map[string]any{
			"points": expired,
			"as_of":  asOf.Format(time.RFC3339),
		})
	}
	return expired, nil
}
