package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/retailerp/internal/audit/domain"
	"github.com/smallbiznis/retailerp/internal/clock"
	"github.com/smallbiznis/retailerp/internal/config"
	"github.com/smallbiznis/retailerp/internal/inventory/domain"
	numberingdomain "github.com/smallbiznis/retailerp/internal/numbering/domain"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxSuggestions = 500

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	RetailCfg *config.RetailConfigHolder `optional:"true"`
	Numbering numberingdomain.Service    `optional:"true"`
	AuditSvc  auditdomain.Service        `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	retailCfg *config.RetailConfigHolder
	numbering numberingdomain.Service
	auditSvc  auditdomain.Service
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("inventory.service"),
		genID:     p.GenID,
		clock:     clk,
		repo:      p.Repo,
		retailCfg: p.RetailCfg,
		numbering: p.Numbering,
		auditSvc:  p.AuditSvc,
	}
}

func (s *Service) CheckAvailability(ctx context.Context, productID snowflake.ID, qty int64) error {
	if productID == 0 {
		return domain.ErrInvalidProductID
	}
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	inv, err := s.repo.FindByProductID(ctx, s.db, productID)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.NoInventoryRecord(productID)
	}
	if inv.AvailableQty < qty {
		return &domain.InsufficientStockError{
			ProductID: productID,
			Requested: qty,
			Available: inv.AvailableQty,
		}
	}
	return nil
}

func (s *Service) Decrement(ctx context.Context, tx *gorm.DB, req domain.DecrementRequest) error {
	if req.ProductID == 0 {
		return domain.ErrInvalidProductID
	}
	if req.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	if tx != nil {
		_, err := s.applyDelta(ctx, tx, req.ProductID, -req.Quantity, movement{
			kind:          domain.MovementSale,
			referenceType: req.ReferenceType,
			referenceID:   req.ReferenceID,
		})
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.applyDelta(ctx, tx, req.ProductID, -req.Quantity, movement{
			kind:          domain.MovementSale,
			referenceType: req.ReferenceType,
			referenceID:   req.ReferenceID,
		})
		return err
	})
}

func (s *Service) Receive(ctx context.Context, req domain.ReceiveRequest) (domain.ReceiveResult, error) {
	if req.ProductID == 0 {
		return domain.ReceiveResult{}, domain.ErrInvalidProductID
	}
	if req.Quantity <= 0 {
		return domain.ReceiveResult{}, domain.ErrInvalidQuantity
	}

	var result domain.ReceiveResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock.Now().UTC()
		if err := s.repo.InsertIfAbsent(ctx, tx, &domain.Inventory{
			ID:        s.genID.Generate(),
			ProductID: req.ProductID,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return err
		}

		receiptNo, err := s.receiptNumber(ctx, tx)
		if err != nil {
			return err
		}

		inv, err := s.applyDelta(ctx, tx, req.ProductID, req.Quantity, movement{
			kind:          domain.MovementReceipt,
			referenceType: "goods_receipt",
			referenceID:   receiptNo,
			note:          strings.TrimSpace(req.Note),
		})
		if err != nil {
			return err
		}

		result = domain.ReceiveResult{Inventory: *inv, ReceiptNo: receiptNo}
		return nil
	})
	if err != nil {
		return domain.ReceiveResult{}, err
	}

	s.emitAudit(ctx, "inventory.receive", req.ProductID, map[string]any{
		"quantity":   req.Quantity,
		"receipt_no": result.ReceiptNo,
	})
	return result, nil
}

func (s *Service) Adjust(ctx context.Context, req domain.AdjustRequest) (domain.Inventory, error) {
	if req.ProductID == 0 {
		return domain.Inventory{}, domain.ErrInvalidProductID
	}
	if req.Delta == 0 {
		return domain.Inventory{}, domain.ErrInvalidQuantity
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return domain.Inventory{}, domain.ErrInvalidReason
	}

	var updated domain.Inventory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := s.applyDelta(ctx, tx, req.ProductID, req.Delta, movement{
			kind: domain.MovementAdjustment,
			note: reason,
		})
		if err != nil {
			return err
		}
		updated = *inv
		return nil
	})
	if err != nil {
		return domain.Inventory{}, err
	}

	s.emitAudit(ctx, "inventory.adjust", req.ProductID, map[string]any{
		"delta":  req.Delta,
		"reason": reason,
	})
	return updated, nil
}

func (s *Service) Get(ctx context.Context, productID snowflake.ID) (domain.Inventory, error) {
	if productID == 0 {
		return domain.Inventory{}, domain.ErrInvalidProductID
	}
	inv, err := s.repo.FindByProductID(ctx, s.db, productID)
	if err != nil {
		return domain.Inventory{}, err
	}
	if inv == nil {
		return domain.Inventory{}, domain.NoInventoryRecord(productID)
	}
	return *inv, nil
}

func (s *Service) ListMovements(ctx context.Context, req domain.ListMovementsRequest) (domain.ListMovementsResponse, error) {
	if req.ProductID == 0 {
		return domain.ListMovementsResponse{}, domain.ErrInvalidProductID
	}
	pos, err := req.Position()
	if err != nil {
		return domain.ListMovementsResponse{}, err
	}

	limit := req.Limit()
	items, err := s.repo.ListMovements(ctx, s.db, req.ProductID, pos, limit)
	if err != nil {
		return domain.ListMovementsResponse{}, err
	}

	items, pageInfo := pagination.Page(items, limit, func(m *domain.InventoryMovement) (snowflake.ID, time.Time) {
		return m.ID, m.CreatedAt
	})

	movements := make([]domain.InventoryMovement, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		movements = append(movements, *item)
	}
	return domain.ListMovementsResponse{PageInfo: pageInfo, Movements: movements}, nil
}

func (s *Service) SetReorderPoint(ctx context.Context, req domain.SetReorderPointRequest) (domain.Inventory, error) {
	if req.ProductID == 0 {
		return domain.Inventory{}, domain.ErrInvalidProductID
	}
	if req.ReorderPoint < 0 || req.ReorderQty < 0 {
		return domain.Inventory{}, domain.ErrInvalidReorderPoint
	}

	rows, err := s.repo.UpdateReorder(ctx, s.db, req.ProductID, req.ReorderPoint, req.ReorderQty, s.clock.Now().UTC())
	if err != nil {
		return domain.Inventory{}, err
	}
	if rows == 0 {
		return domain.Inventory{}, domain.NoInventoryRecord(req.ProductID)
	}
	return s.Get(ctx, req.ProductID)
}

func (s *Service) PurchaseSuggestions(ctx context.Context, limit int) ([]domain.PurchaseSuggestion, error) {
	if limit <= 0 || limit > maxSuggestions {
		limit = maxSuggestions
	}

	items, err := s.repo.ListBelowReorderPoint(ctx, s.db, limit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.PurchaseSuggestion, 0, len(items))
	for _, inv := range items {
		if inv == nil {
			continue
		}
		qty := inv.ReorderPoint - inv.AvailableQty
		if inv.ReorderQty > qty {
			qty = inv.ReorderQty
		}
		suggestions = append(suggestions, domain.PurchaseSuggestion{
			ProductID:    inv.ProductID,
			AvailableQty: inv.AvailableQty,
			ReorderPoint: inv.ReorderPoint,
			SuggestedQty: qty,
		})
	}
	return suggestions, nil
}

type movement struct {
	kind          domain.MovementType
	referenceType string
	referenceID   string
	note          string
}

// applyDelta runs the guarded update and records the movement. A rejected
// update is re-read to tell a missing row from a shortage.
func (s *Service) applyDelta(ctx context.Context, tx *gorm.DB, productID snowflake.ID, delta int64, m movement) (*domain.Inventory, error) {
	now := s.clock.Now().UTC()

	rows, err := s.repo.ApplyDelta(ctx, tx, productID, delta, now)
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.FindByProductID(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NoInventoryRecord(productID)
	}
	if rows == 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: -delta,
			Available: inv.AvailableQty,
		}
	}

	if err := s.repo.InsertMovement(ctx, tx, &domain.InventoryMovement{
		ID:             s.genID.Generate(),
		InventoryID:    inv.ID,
		ProductID:      productID,
		Type:           m.kind,
		QuantityChange: delta,
		QuantityAfter:  inv.Quantity,
		AvailableAfter: inv.AvailableQty,
		ReferenceType:  m.referenceType,
		ReferenceID:    m.referenceID,
		Note:           m.note,
		CreatedAt:      now,
	}); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) receiptNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	if s.numbering == nil || s.retailCfg == nil {
		return "", nil
	}
	code := strings.TrimSpace(s.retailCfg.Get().ReceiptRuleCode)
	if code == "" {
		return "", nil
	}

	number, err := s.numbering.GenerateNext(ctx, tx, code)
	if errors.Is(err, numberingdomain.ErrRuleNotFound) || errors.Is(err, numberingdomain.ErrRuleInactive) {
		s.log.Debug("receipt numbering unavailable", zap.String("code", code), zap.Error(err))
		return "", nil
	}
	return number, err
}

func (s *Service) emitAudit(ctx context.Context, action string, productID snowflake.ID, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	targetID := productID.String()
	_ = s.auditSvc.AuditLog(ctx, "", nil, action, "inventory", &targetID, metadata)
}
