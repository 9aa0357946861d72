package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	numberingdomain "github.com/smallbiznis/retailerp/internal/numbering/domain"
)

func (s *Server) ListNumberingRules(c *gin.Context) {
	rules, err := s.numberingSvc.ListRules(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rules})
}

func (s *Server) CreateNumberingRule(c *gin.Context) {
	var req numberingdomain.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rule, err := s.numberingSvc.CreateRule(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": rule})
}

// PreviewNumber shows the next number without reserving it.
func (s *Server) PreviewNumber(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	next, err := s.numberingSvc.PreviewNext(c.Request.Context(), code)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"code": strings.ToUpper(code),
		"next": next,
	}})
}
