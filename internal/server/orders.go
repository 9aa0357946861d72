package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	obslogger "github.com/smallbiznis/retailerp/internal/observability/logger"
	orderdomain "github.com/smallbiznis/retailerp/internal/order/domain"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
)

// CreateOrder always answers with a checkout Result so the point of sale
// can render the outcome without parsing error payloads.
func (s *Server) CreateOrder(c *gin.Context) {
	var req orderdomain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, orderdomain.Result{
			Success: false,
			Code:    orderdomain.ResultCodeValidation,
			Message: "invalid request body",
			Errors:  map[string][]string{"request": {"malformed JSON body"}},
		})
		return
	}

	result := s.orderSvc.Checkout(c.Request.Context(), req)
	if result.Data != nil {
		c.Set(obslogger.KeyOrderNo, result.Data.OrderNo)
	}
	if !result.Success {
		c.Set(obslogger.KeyCheckoutCode, result.Code)
	}
	c.JSON(checkoutStatus(result), result)
}

func checkoutStatus(result orderdomain.Result) int {
	if result.Success {
		return http.StatusCreated
	}
	switch result.Code {
	case orderdomain.ResultCodeValidation:
		return http.StatusBadRequest
	case orderdomain.ResultCodeInsufficientStock,
		orderdomain.ResultCodeInsufficientPayment,
		orderdomain.ResultCodeNumbering:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) ListOrders(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status     string `form:"status"`
		CustomerID string `form:"customer_id"`
		From       string `form:"from"`
		To         string `form:"to"`
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

	resp, err := s.orderSvc.List(c.Request.Context(), orderdomain.ListOrderRequest{
		Pagination: query.Pagination,
		Status:     strings.TrimSpace(query.Status),
		CustomerID: strings.TrimSpace(query.CustomerID),
		From:       from,
		To:         to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	resp, err := s.orderSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Set(obslogger.KeyOrderNo, resp.OrderNo)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPaymentMethods(c *gin.Context) {
	methods, err := s.orderSvc.ListPaymentMethods(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": methods})
}
