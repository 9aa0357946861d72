package cache

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	orderdomain "github.com/smallbiznis/retailerp/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheExpiresEntries(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	c := NewTTLCache[string, int]()
	c.now = func() time.Time { return now }

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, 0)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)

	v, ok = c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestPaymentMethodCache(t *testing.T) {
	c := NewPaymentMethodCache()

	_, _, loaded := c.Lookup("1")
	assert.False(t, loaded)

	c.Store([]orderdomain.PaymentMethod{
		{ID: snowflake.ID(1), Code: "CASH", IsActive: true},
		{ID: snowflake.ID(2), Code: "VOUCHER", IsActive: false},
	})

	method, ok, loaded := c.Lookup(" 1 ")
	require.True(t, loaded)
	require.True(t, ok)
	assert.Equal(t, "CASH", method.Code)

	_, ok, loaded = c.Lookup("2")
	assert.True(t, loaded)
	assert.False(t, ok)

	c.Invalidate()
	_, _, loaded = c.Lookup("1")
	assert.False(t, loaded)
}
