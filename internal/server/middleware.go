package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/retailerp/internal/audit/domain"
	obscontext "github.com/smallbiznis/retailerp/internal/observability/context"
)

const HeaderCashierID = "X-Cashier-Id"

// CashierContext attaches the cashier operating the terminal to the request
// context so orders and audit rows carry it.
func CashierContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		cashierID := strings.TrimSpace(c.GetHeader(HeaderCashierID))
		if cashierID != "" {
			ctx := obscontext.WithActor(c.Request.Context(), string(auditdomain.ActorTypeCashier), cashierID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}
