package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailerp/internal/clock"
	"github.com/smallbiznis/retailerp/internal/config"
	customerdomain "github.com/smallbiznis/retailerp/internal/customer/domain"
	customerrepo "github.com/smallbiznis/retailerp/internal/customer/repository"
	"github.com/smallbiznis/retailerp/internal/loyalty/domain"
	"github.com/smallbiznis/retailerp/internal/loyalty/repository"
	"github.com/smallbiznis/retailerp/pkg/db/dbtest"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc       *Service
	db        *gorm.DB
	clock     *clock.FakeClock
	customers customerdomain.Repository
	node      *snowflake.Node
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := dbtest.Open(t, &customerdomain.Customer{}, &domain.PointsLog{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))
	customers := customerrepo.Provide()

	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        node,
		Clock:        clk,
		RetailCfg:    config.NewStaticRetailConfig(config.DefaultRetailConfig()),
		Repo:         repository.Provide(),
		CustomerRepo: customers,
	}).(*Service)

	return fixture{svc: svc, db: db, clock: clk, customers: customers, node: node}
}

func (f fixture) member(t *testing.T, availablePoints int64) snowflake.ID {
	t.Helper()
	now := f.clock.Now()
	c := &customerdomain.Customer{
		ID:              f.node.Generate(),
		Name:            "Member",
		TotalPoints:     availablePoints,
		AvailablePoints: availablePoints,
		TotalSpent:      decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, f.customers.Insert(context.Background(), f.db, c))
	return c.ID
}

func TestPointsFor(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, int64(25), f.svc.PointsFor(decimal.RequireFromString("252.00")))
	assert.Equal(t, int64(0), f.svc.PointsFor(decimal.RequireFromString("9.99")))
	assert.Equal(t, int64(1), f.svc.PointsFor(decimal.RequireFromString("10")))
	assert.Equal(t, int64(0), f.svc.PointsFor(decimal.Zero))
}

func TestAccrueUpdatesLedgerAndAggregates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := f.member(t, 40)

	var res domain.AccrueResult
	err := f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = f.svc.Accrue(ctx, tx, domain.AccrueRequest{
			CustomerID:  customerID,
			OrderID:     snowflake.ID(555),
			OrderNo:     "ORD-20240115-0001",
			TotalAmount: decimal.RequireFromString("252.00"),
		})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25), res.Points)
	assert.Equal(t, int64(65), res.Balance)

	c, err := f.customers.FindByID(ctx, f.db, customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(65), c.TotalPoints)
	assert.Equal(t, int64(65), c.AvailablePoints)
	assert.Equal(t, int64(1), c.OrderCount)
	assert.True(t, decimal.RequireFromString("252").Equal(c.TotalSpent))

	logs, err := f.svc.ListLogs(ctx, domain.ListLogsRequest{CustomerID: customerID})
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	entry := logs.Logs[0]
	assert.Equal(t, domain.PointsEarn, entry.Type)
	assert.Equal(t, int64(25), entry.Points)
	assert.Equal(t, int64(65), entry.Balance)
	require.NotNil(t, entry.OrderID)
	assert.Equal(t, snowflake.ID(555), *entry.OrderID)
	require.NotNil(t, entry.ExpiryDate)
	assert.Equal(t, f.clock.Now().AddDate(0, 0, 365).Unix(), entry.ExpiryDate.Unix())
}

func TestAccrueWithoutPointsStillCountsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := f.member(t, 0)

	res, err := f.svc.Accrue(ctx, nil, domain.AccrueRequest{CustomerID: customerID, TotalAmount: decimal.RequireFromString("5.25")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Points)

	c, err := f.customers.FindByID(ctx, f.db, customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.OrderCount)
	assert.True(t, decimal.RequireFromString("5.25").Equal(c.TotalSpent))

	logs, err := f.svc.ListLogs(ctx, domain.ListLogsRequest{CustomerID: customerID, Pagination: pagination.Pagination{PageSize: 10}})
	require.NoError(t, err)
	assert.Empty(t, logs.Logs)
}

func TestAccrueUnknownCustomer(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Accrue(context.Background(), nil, domain.AccrueRequest{CustomerID: snowflake.ID(42), TotalAmount: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestExpireDueConsumesOldestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := f.member(t, 0)

	_, err := f.svc.Accrue(ctx, nil, domain.AccrueRequest{CustomerID: customerID, TotalAmount: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	// redeem 30 of the first 100 points
	rows, err := f.customers.DeductAvailable(ctx, f.db, customerID, 30, f.clock.Now())
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)
	require.NoError(t, f.svc.repo.InsertLog(ctx, f.db, &domain.PointsLog{
		ID:         f.node.Generate(),
		CustomerID: customerID,
		Type:       domain.PointsSpend,
		Points:     -30,
		Balance:    70,
		CreatedAt:  f.clock.Now(),
	}))

	f.clock.Advance(30 * 24 * time.Hour)
	_, err = f.svc.Accrue(ctx, nil, domain.AccrueRequest{CustomerID: customerID, TotalAmount: decimal.NewFromInt(500)})
	require.NoError(t, err)

	asOf := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	res, err := f.svc.ExpireDue(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Customers)
	assert.Equal(t, int64(70), res.Points)

	c, err := f.customers.FindByID(ctx, f.db, customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.AvailablePoints)
	assert.Equal(t, int64(150), c.TotalPoints)

	again, err := f.svc.ExpireDue(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again.Points)
}
