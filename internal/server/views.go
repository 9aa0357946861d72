package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/retailerp/internal/invalidation"
)

var defaultViewGroups = []string{
	invalidation.GroupOrders,
	invalidation.GroupInventory,
	invalidation.GroupPOS,
	invalidation.GroupCustomers,
}

// GetViewVersions lets clients poll for stale views. ?groups=a,b narrows the
// answer; unknown groups report zero.
func (s *Server) GetViewVersions(c *gin.Context) {
	groups := defaultViewGroups
	if raw := strings.TrimSpace(c.Query("groups")); raw != "" {
		groups = groups[:0:0]
		for _, part := range strings.Split(raw, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				groups = append(groups, part)
			}
		}
	}

	versions, err := s.notifier.Versions(c.Request.Context(), groups...)
	if err != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": versions})
}
