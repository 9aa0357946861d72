package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailerp/internal/clock"
	"github.com/smallbiznis/retailerp/internal/customer/domain"
	"github.com/smallbiznis/retailerp/internal/customer/repository"
	"github.com/smallbiznis/retailerp/pkg/db/dbtest"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()
	db := dbtest.Open(t, &domain.Customer{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))
	return New(Params{DB: db, Log: zap.NewNop(), GenID: node, Clock: clk, Repo: repository.Provide()}), clk
}

func TestCreateAndGetCustomer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: "  Siti Rahma ", Phone: "0812", Email: "siti@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Siti Rahma", created.Name)

	got, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, int64(0), got.AvailablePoints)
	assert.True(t, got.TotalSpent.IsZero())

	_, err = svc.GetByID(ctx, "12345")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{Name: "Budi", Email: "budi"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestListCustomersPaginates(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Ana", "Budi", "Citra"} {
		clk.Advance(time.Second)
		_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: name})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, domain.ListCustomerRequest{Pagination: pagination.Pagination{PageSize: 2}})
	require.NoError(t, err)
	require.Len(t, page.Customers, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, "Citra", page.Customers[0].Name)

	next, err := svc.List(ctx, domain.ListCustomerRequest{Pagination: pagination.Pagination{PageSize: 2, PageToken: page.NextPageToken}})
	require.NoError(t, err)
	require.Len(t, next.Customers, 1)
	assert.Equal(t, "Ana", next.Customers[0].Name)

	filtered, err := svc.List(ctx, domain.ListCustomerRequest{Name: "BUD"})
	require.NoError(t, err)
	require.Len(t, filtered.Customers, 1)
	assert.Equal(t, "Budi", filtered.Customers[0].Name)

	_, err = svc.List(ctx, domain.ListCustomerRequest{Pagination: pagination.Pagination{PageToken: "!!"}})
	assert.ErrorIs(t, err, pagination.ErrInvalidPageToken)
}
