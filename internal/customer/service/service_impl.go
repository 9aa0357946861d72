package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailerp/internal/clock"
	"github.com/smallbiznis/retailerp/internal/customer/domain"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		clock: clk,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return domain.Customer{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now().UTC()
	customer := domain.Customer{
		ID:         s.genID.Generate(),
		Name:       name,
		Phone:      strings.TrimSpace(req.Phone),
		Email:      email,
		TotalSpent: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	pos, err := req.Position()
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	filter := domain.ListCustomerFilter{
		Name:  strings.ToLower(strings.TrimSpace(req.Name)),
		Phone: strings.TrimSpace(req.Phone),
		Email: strings.TrimSpace(req.Email),
	}

	limit := req.Limit()
	items, err := s.repo.List(ctx, s.db, filter, pos, limit)
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	items, pageInfo := pagination.Page(items, limit, func(c *domain.Customer) (snowflake.ID, time.Time) {
		return c.ID, c.CreatedAt
	})

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	return domain.ListCustomerResponse{PageInfo: pageInfo, Customers: customers}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	customerID, err := ParseID(id)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func ParseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
