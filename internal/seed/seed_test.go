package seed

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	numberingdomain "github.com/smallbiznis/retailerp/internal/numbering/domain"
	orderdomain "github.com/smallbiznis/retailerp/internal/order/domain"
	"github.com/smallbiznis/retailerp/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultsIsIdempotent(t *testing.T) {
	db := dbtest.Open(t, &numberingdomain.NumberingRule{}, &orderdomain.PaymentMethod{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, EnsureDefaults(ctx, db, node))

	// an operator deactivates CARD; reseeding must not turn it back on
	require.NoError(t, db.Model(&orderdomain.PaymentMethod{}).Where("code = ?", "CARD").Update("is_active", false).Error)
	require.NoError(t, EnsureDefaults(ctx, db, node))

	var rules []numberingdomain.NumberingRule
	require.NoError(t, db.Order("code asc").Find(&rules).Error)
	require.Len(t, rules, 2)
	assert.Equal(t, "ORDER", rules[0].Code)
	assert.Equal(t, "ORD-", rules[0].Prefix)
	assert.Equal(t, numberingdomain.ResetDaily, rules[0].ResetPeriod)
	assert.Equal(t, "RECEIPT", rules[1].Code)

	var methods []orderdomain.PaymentMethod
	require.NoError(t, db.Order("code asc").Find(&methods).Error)
	require.Len(t, methods, 3)
	assert.Equal(t, "CARD", methods[0].Code)
	assert.False(t, methods[0].IsActive)
	assert.True(t, methods[1].IsActive)
}
