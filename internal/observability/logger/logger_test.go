package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/retailerp/internal/observability/context"
	"github.com/smallbiznis/retailerp/pkg/telemetry/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextSkipsEmptyFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithContext(context.Background(), base).Info("plain")

	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = obscontext.WithActor(ctx, "cashier", "c-7")
	ctx = correlation.ContextWithCorrelationID(ctx, "01HQ")
	WithContext(ctx, base).Info("enriched")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].Context)
	fields := entries[1].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "cashier", fields["actor_type"])
	assert.Equal(t, "c-7", fields["actor_id"])
	assert.Equal(t, "01HQ", fields["correlation_id"])
}

func TestGinMiddlewareLogsCheckoutFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.POST("/api/orders", func(c *gin.Context) {
		c.Set(KeyOrderNo, "ORD-20240115-0001")
		c.Set(KeyCheckoutCode, "insufficient_stock")
		c.Status(http.StatusUnprocessableEntity)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/orders", fields["route"])
	assert.Equal(t, "ORD-20240115-0001", fields["order_no"])
	assert.Equal(t, "insufficient_stock", fields["checkout_code"])
	assert.Equal(t, "req-42", fields["request_id"])
}
