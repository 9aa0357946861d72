package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	auditdomain "github.com/smallbiznis/retailerp/internal/audit/domain"
	"github.com/smallbiznis/retailerp/internal/clock"
	"github.com/smallbiznis/retailerp/internal/config"
	"github.com/smallbiznis/retailerp/internal/numbering/domain"
	"github.com/smallbiznis/retailerp/internal/numbering/format"
	"github.com/smallbiznis/retailerp/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxSequenceLength = 12

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	Repo     domain.Repository
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	loc      *time.Location
	repo     domain.Repository
	auditSvc auditdomain.Service
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("numbering.service"),
		genID:    p.GenID,
		clock:    clk,
		loc:      p.Cfg.Location(),
		repo:     p.Repo,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) GenerateNext(ctx context.Context, tx *gorm.DB, code string) (string, error) {
	code = normalizeCode(code)
	if code == "" {
		return "", domain.ErrInvalidCode
	}

	if tx != nil {
		return s.generateNext(ctx, tx, code)
	}

	var number string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		number, err = s.generateNext(ctx, tx, code)
		return err
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

func (s *Service) generateNext(ctx context.Context, tx *gorm.DB, code string) (string, error) {
	rule, err := s.repo.FindByCodeForUpdate(ctx, tx, code)
	if err != nil {
		return "", err
	}
	if err := ensureUsable(rule, code); err != nil {
		return "", err
	}

	now := s.clock.Now().UTC()
	seq, reset := rule.Next(now, s.loc)
	lastResetAt := rule.LastResetAt
	if reset {
		lastResetAt = &now
	}

	number, err := format.Number(rule.Pattern(), now.In(s.loc), seq)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateSequence(ctx, tx, rule.ID, seq, lastResetAt, now); err != nil {
		return "", err
	}

	if reset {
		s.log.Debug("numbering sequence reset",
			zap.String("code", code),
			zap.String("reset_period", string(rule.ResetPeriod)),
		)
	}
	return number, nil
}

func (s *Service) PreviewNext(ctx context.Context, code string) (string, error) {
	code = normalizeCode(code)
	if code == "" {
		return "", domain.ErrInvalidCode
	}

	rule, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return "", err
	}
	if err := ensureUsable(rule, code); err != nil {
		return "", err
	}

	now := s.clock.Now().UTC()
	seq, _ := rule.Next(now, s.loc)
	return format.Number(rule.Pattern(), now.In(s.loc), seq)
}

func (s *Service) CreateRule(ctx context.Context, req domain.CreateRuleRequest) (domain.NumberingRule, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.NumberingRule{}, domain.ErrInvalidName
	}

	code := normalizeCode(req.Code)
	if code == "" {
		code = codeFromName(name)
	}
	if code == "" {
		return domain.NumberingRule{}, domain.ErrInvalidCode
	}

	dateFormat := domain.DateFormat(strings.ToUpper(strings.TrimSpace(string(req.DateFormat))))
	if dateFormat == "" {
		dateFormat = domain.DateFormatNone
	}
	if !format.ValidDateFormat(string(dateFormat)) {
		return domain.NumberingRule{}, domain.ErrInvalidDateFormat
	}

	resetPeriod := domain.ResetPeriod(strings.ToUpper(strings.TrimSpace(string(req.ResetPeriod))))
	if resetPeriod == "" {
		resetPeriod = domain.ResetNever
	}
	if !resetPeriod.Valid() {
		return domain.NumberingRule{}, domain.ErrInvalidResetPeriod
	}

	if req.SequenceLength < 1 || req.SequenceLength > maxSequenceLength {
		return domain.NumberingRule{}, domain.ErrInvalidSequenceLength
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := s.clock.Now().UTC()
	rule := domain.NumberingRule{
		ID:             s.genID.Generate(),
		Code:           code,
		Name:           name,
		Prefix:         req.Prefix,
		DateFormat:     dateFormat,
		Separator:      req.Separator,
		SequenceLength: req.SequenceLength,
		ResetPeriod:    resetPeriod,
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &rule); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.NumberingRule{}, domain.ErrRuleExists
		}
		return domain.NumberingRule{}, err
	}

	s.emitAudit(ctx, "numbering_rule.create", rule)
	return rule, nil
}

func (s *Service) GetRule(ctx context.Context, code string) (domain.NumberingRule, error) {
	code = normalizeCode(code)
	if code == "" {
		return domain.NumberingRule{}, domain.ErrInvalidCode
	}

	rule, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return domain.NumberingRule{}, err
	}
	if rule == nil {
		return domain.NumberingRule{}, domain.ErrRuleNotFound
	}
	return *rule, nil
}

func (s *Service) ListRules(ctx context.Context) ([]domain.NumberingRule, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	rules := make([]domain.NumberingRule, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		rules = append(rules, *item)
	}
	return rules, nil
}

func (s *Service) SetActive(ctx context.Context, code string, active bool) (domain.NumberingRule, error) {
	rule, err := s.GetRule(ctx, code)
	if err != nil {
		return domain.NumberingRule{}, err
	}
	if rule.IsActive == active {
		return rule, nil
	}

	now := s.clock.Now().UTC()
	if err := s.repo.UpdateActive(ctx, s.db, rule.ID, active, now); err != nil {
		return domain.NumberingRule{}, err
	}
	rule.IsActive = active
	rule.UpdatedAt = now

	action := "numbering_rule.deactivate"
	if active {
		action = "numbering_rule.activate"
	}
	s.emitAudit(ctx, action, rule)
	return rule, nil
}

func (s *Service) emitAudit(ctx context.Context, action string, rule domain.NumberingRule) {
	if s.auditSvc == nil {
		return
	}
	targetID := rule.Code
	_ = s.auditSvc.AuditLog(ctx, "", nil, action, "numbering_rule", &targetID, map[string]any{
		"rule_id":      rule.ID.String(),
		"prefix":       rule.Prefix,
		"date_format":  string(rule.DateFormat),
		"reset_period": string(rule.ResetPeriod),
		"is_active":    rule.IsActive,
	})
}

func ensureUsable(rule *domain.NumberingRule, code string) error {
	if rule == nil {
		return fmt.Errorf("%w: %s", domain.ErrRuleNotFound, code)
	}
	if !rule.IsActive {
		return fmt.Errorf("%w: %s", domain.ErrRuleInactive, code)
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// codeFromName turns "Sales Order" into "SALES_ORDER".
func codeFromName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(slug.Make(name), "-", "_"))
}
