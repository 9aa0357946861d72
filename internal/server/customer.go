package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/retailerp/internal/customer/domain"
	"github.com/smallbiznis/retailerp/internal/invalidation"
	loyaltydomain "github.com/smallbiznis/retailerp/internal/loyalty/domain"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
)

type createCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Email: strings.TrimSpace(req.Email),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), "", nil, "customer.create", "customer", &targetID, map[string]any{
			"customer_id": resp.ID.String(),
			"name":        resp.Name,
		})
	}
	invalidation.Signal(c.Request.Context(), s.notifier, s.log, invalidation.GroupCustomers)

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Name  string `form:"name"`
		Phone string `form:"phone"`
		Email string `form:"email"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		Pagination: query.Pagination,
		Name:       strings.TrimSpace(query.Name),
		Phone:      strings.TrimSpace(query.Phone),
		Email:      strings.TrimSpace(query.Email),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListCustomerPoints returns the member's points ledger, newest first.
func (s *Server) ListCustomerPoints(c *gin.Context) {
	customer, err := s.customerSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query pagination.Pagination
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.loyaltySvc.ListLogs(c.Request.Context(), loyaltydomain.ListLogsRequest{
		CustomerID: customer.ID,
		Pagination: query,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"customer_id":      customer.ID.String(),
		"available_points": customer.AvailablePoints,
		"total_points":     customer.TotalPoints,
		"logs":             resp.Logs,
		"next_page_token":  resp.NextPageToken,
		"has_more":         resp.HasMore,
	}})
}

func isCustomerValidationError(err error) bool {
	switch err {
	case customerdomain.ErrInvalidName,
		customerdomain.ErrInvalidEmail,
		customerdomain.ErrInvalidID:
		return true
	default:
		return false
	}
}
