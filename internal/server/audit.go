package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/retailerp/internal/audit/domain"
)

// ListAuditLogs serves the audit trail, newest first. from/to take the same
// formats as the order listing.
func (s *Server) ListAuditLogs(c *gin.Context) {
	if s.auditSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var query struct {
		Action     string `form:"action"`
		TargetType string `form:"target_type"`
		TargetID   string `form:"target_id"`
		ActorID    string `form:"actor_id"`
		From       string `form:"from"`
		To         string `form:"to"`
		Limit      int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false, s.cfg.Location())
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, true, s.cfg.Location())
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	logs, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListAuditLogRequest{
		Action:     query.Action,
		TargetType: query.TargetType,
		TargetID:   query.TargetID,
		ActorID:    query.ActorID,
		From:       from,
		To:         to,
		Limit:      query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
