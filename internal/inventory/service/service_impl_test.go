package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/internal/clock"
	"github.com/smallbiznis/retailerp/internal/config"
	"github.com/smallbiznis/retailerp/internal/inventory/domain"
	"github.com/smallbiznis/retailerp/internal/inventory/repository"
	numberingdomain "github.com/smallbiznis/retailerp/internal/numbering/domain"
	numberingrepo "github.com/smallbiznis/retailerp/internal/numbering/repository"
	numberingservice "github.com/smallbiznis/retailerp/internal/numbering/service"
	"github.com/smallbiznis/retailerp/pkg/db/dbtest"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const productA = snowflake.ID(1001)

type fixture struct {
	svc   *Service
	db    *gorm.DB
	clock *clock.FakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := dbtest.Open(t, &domain.Inventory{}, &domain.InventoryMovement{}, &numberingdomain.NumberingRule{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))

	numbering := numberingservice.New(numberingservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Cfg:   config.Config{BusinessTimezone: "UTC"},
		Repo:  numberingrepo.Provide(),
	})

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     clk,
		Repo:      repository.Provide(),
		RetailCfg: config.NewStaticRetailConfig(config.DefaultRetailConfig()),
		Numbering: numbering,
	}).(*Service)

	return fixture{svc: svc, db: db, clock: clk}
}

func (f fixture) stock(t *testing.T, productID snowflake.ID, qty int64) {
	t.Helper()
	_, err := f.svc.Receive(context.Background(), domain.ReceiveRequest{ProductID: productID, Quantity: qty})
	require.NoError(t, err)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.CheckAvailability(ctx, productA, 1)
	assert.ErrorIs(t, err, domain.ErrNoInventoryRecord)

	f.stock(t, productA, 5)
	assert.NoError(t, f.svc.CheckAvailability(ctx, productA, 5))

	err = f.svc.CheckAvailability(ctx, productA, 6)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, productA, stockErr.ProductID)
	assert.Equal(t, int64(6), stockErr.Requested)
	assert.Equal(t, int64(5), stockErr.Available)

	assert.ErrorIs(t, f.svc.CheckAvailability(ctx, productA, 0), domain.ErrInvalidQuantity)
}

func TestDecrementRejectsShortageWithoutWriting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, productA, 3)

	err := f.svc.Decrement(ctx, nil, domain.DecrementRequest{ProductID: productA, Quantity: 4})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(3), stockErr.Available)

	require.NoError(t, f.svc.Decrement(ctx, nil, domain.DecrementRequest{
		ProductID:     productA,
		Quantity:      2,
		ReferenceType: "order",
		ReferenceID:   "ORD-20240115-0001",
	}))

	inv, err := f.svc.Get(ctx, productA)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inv.Quantity)
	assert.Equal(t, int64(1), inv.AvailableQty)

	err = f.svc.Decrement(ctx, nil, domain.DecrementRequest{ProductID: snowflake.ID(9), Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNoInventoryRecord)
}

func TestConcurrentDecrementsNeverOversell(t *testing.T) {
	f := newFixture(t)
	f.stock(t, productA, 10)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		shortages int
		others    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.svc.Decrement(context.Background(), nil, domain.DecrementRequest{ProductID: productA, Quantity: 3})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientStock):
				shortages++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, workers-3, shortages)

	inv, err := f.svc.Get(context.Background(), productA)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inv.AvailableQty)
	assert.GreaterOrEqual(t, inv.AvailableQty, int64(0))
}

func TestDecrementRollsBackWithCallerTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, productA, 5)

	boom := errors.New("boom")
	err := f.db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, f.svc.Decrement(ctx, tx, domain.DecrementRequest{ProductID: productA, Quantity: 4}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	inv, err := f.svc.Get(ctx, productA)
	require.NoError(t, err)
	assert.Equal(t, int64(5), inv.AvailableQty)
}

func TestReceiveAssignsReceiptNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// without a RECEIPT rule the receipt is still recorded
	res, err := f.svc.Receive(ctx, domain.ReceiveRequest{ProductID: productA, Quantity: 4})
	require.NoError(t, err)
	assert.Empty(t, res.ReceiptNo)

	_, err = f.svc.numbering.CreateRule(ctx, numberingdomain.CreateRuleRequest{
		Code:           "RECEIPT",
		Name:           "Goods Receipt",
		Prefix:         "GRN-",
		DateFormat:     numberingdomain.DateFormatYYYYMM,
		SequenceLength: 5,
		ResetPeriod:    numberingdomain.ResetMonthly,
	})
	require.NoError(t, err)

	res, err = f.svc.Receive(ctx, domain.ReceiveRequest{ProductID: productA, Quantity: 6, Note: "PO 88"})
	require.NoError(t, err)
	assert.Equal(t, "GRN-20240100001", res.ReceiptNo)
	assert.Equal(t, int64(10), res.Inventory.Quantity)
	assert.Equal(t, int64(10), res.Inventory.AvailableQty)
}

func TestAdjustKeepsAvailableNonNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, productA, 2)

	_, err := f.svc.Adjust(ctx, domain.AdjustRequest{ProductID: productA, Delta: -3, Reason: "damaged"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.svc.Adjust(ctx, domain.AdjustRequest{ProductID: productA, Delta: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidReason)

	inv, err := f.svc.Adjust(ctx, domain.AdjustRequest{ProductID: productA, Delta: -2, Reason: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), inv.AvailableQty)

	inv, err = f.svc.Adjust(ctx, domain.AdjustRequest{ProductID: productA, Delta: 7, Reason: "stock count"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), inv.Quantity)
}

func TestListMovementsPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.stock(t, productA, 10)
	for i := 0; i < 3; i++ {
		f.clock.Advance(time.Second)
		require.NoError(t, f.svc.Decrement(ctx, nil, domain.DecrementRequest{ProductID: productA, Quantity: 1}))
	}

	first, err := f.svc.ListMovements(ctx, domain.ListMovementsRequest{
		ProductID:  productA,
		Pagination: pagination.Pagination{PageSize: 3},
	})
	require.NoError(t, err)
	require.Len(t, first.Movements, 3)
	assert.True(t, first.HasMore)
	assert.Equal(t, domain.MovementSale, first.Movements[0].Type)
	assert.Equal(t, int64(7), first.Movements[0].AvailableAfter)

	second, err := f.svc.ListMovements(ctx, domain.ListMovementsRequest{
		ProductID:  productA,
		Pagination: pagination.Pagination{PageSize: 3, PageToken: first.NextPageToken},
	})
	require.NoError(t, err)
	require.Len(t, second.Movements, 1)
	assert.False(t, second.HasMore)
	assert.Equal(t, domain.MovementReceipt, second.Movements[0].Type)
	assert.Equal(t, int64(10), second.Movements[0].QuantityChange)
}

func TestPurchaseSuggestions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productB := snowflake.ID(1002)
	productC := snowflake.ID(1003)

	f.stock(t, productA, 2)
	f.stock(t, productB, 50)
	f.stock(t, productC, 9)

	_, err := f.svc.SetReorderPoint(ctx, domain.SetReorderPointRequest{ProductID: productA, ReorderPoint: 10, ReorderQty: 5})
	require.NoError(t, err)
	_, err = f.svc.SetReorderPoint(ctx, domain.SetReorderPointRequest{ProductID: productB, ReorderPoint: 10, ReorderQty: 20})
	require.NoError(t, err)
	_, err = f.svc.SetReorderPoint(ctx, domain.SetReorderPointRequest{ProductID: productC, ReorderPoint: 10, ReorderQty: 24})
	require.NoError(t, err)

	_, err = f.svc.SetReorderPoint(ctx, domain.SetReorderPointRequest{ProductID: snowflake.ID(77), ReorderPoint: 1})
	assert.ErrorIs(t, err, domain.ErrNoInventoryRecord)

	suggestions, err := f.svc.PurchaseSuggestions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	assert.Equal(t, productA, suggestions[0].ProductID)
	assert.Equal(t, int64(8), suggestions[0].SuggestedQty)
	assert.Equal(t, productC, suggestions[1].ProductID)
	assert.Equal(t, int64(24), suggestions[1].SuggestedQty)
}
