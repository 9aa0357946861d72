package cache

import (
	"strings"
	"time"

	orderdomain "github.com/smallbiznis/retailerp/internal/order/domain"
)

const defaultPaymentMethodTTL = 5 * time.Minute

// PaymentMethodCache keeps the active payment methods hot for checkout.
type PaymentMethodCache interface {
	// Lookup reports the cached method and whether the cache is loaded.
	Lookup(id string) (orderdomain.PaymentMethod, bool, bool)
	Store(methods []orderdomain.PaymentMethod)
	Invalidate()
}

type paymentMethodCache struct {
	methods Cache[string, map[string]orderdomain.PaymentMethod]
	ttl     time.Duration
}

const activeMethodsKey = "active"

func NewPaymentMethodCache() PaymentMethodCache {
	return NewPaymentMethodCacheWithTTL(defaultPaymentMethodTTL)
}

func NewPaymentMethodCacheWithTTL(ttl time.Duration) PaymentMethodCache {
	return &paymentMethodCache{
		methods: NewTTLCache[string, map[string]orderdomain.PaymentMethod](),
		ttl:     ttl,
	}
}

func (c *paymentMethodCache) Lookup(id string) (orderdomain.PaymentMethod, bool, bool) {
	methods, loaded := c.methods.Get(activeMethodsKey)
	if !loaded {
		return orderdomain.PaymentMethod{}, false, false
	}
	method, ok := methods[cacheKey(id)]
	return method, ok, true
}

// Store replaces the cached set; inactive methods are skipped.
func (c *paymentMethodCache) Store(methods []orderdomain.PaymentMethod) {
	byID := make(map[string]orderdomain.PaymentMethod, len(methods))
	for _, method := range methods {
		if !method.IsActive {
			continue
		}
		byID[cacheKey(method.ID.String())] = method
	}
	c.methods.Set(activeMethodsKey, byID, c.ttl)
}

func (c *paymentMethodCache) Invalidate() {
	c.methods.Delete(activeMethodsKey)
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}
