package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/retailerp/internal/invalidation"
	inventorydomain "github.com/smallbiznis/retailerp/internal/inventory/domain"
	"github.com/smallbiznis/retailerp/pkg/db/pagination"
)

const defaultSuggestionLimit = 100

func productIDParam(c *gin.Context) (snowflake.ID, bool) {
	id, err := parseOptionalSnowflakeID(c.Param("product_id"))
	if err != nil || id == nil {
		AbortWithError(c, newValidationError("product_id", "invalid_product_id", "invalid product_id"))
		return 0, false
	}
	return *id, true
}

func (s *Server) GetInventory(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	inv, err := s.inventorySvc.Get(c.Request.Context(), productID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) ReceiveStock(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var req inventorydomain.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ProductID = productID
	req.Note = strings.TrimSpace(req.Note)

	resp, err := s.inventorySvc.Receive(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invalidation.Signal(c.Request.Context(), s.notifier, s.log, invalidation.GroupInventory, invalidation.GroupPOS)
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) AdjustStock(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var req inventorydomain.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ProductID = productID
	req.Reason = strings.TrimSpace(req.Reason)

	inv, err := s.inventorySvc.Adjust(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invalidation.Signal(c.Request.Context(), s.notifier, s.log, invalidation.GroupInventory, invalidation.GroupPOS)
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) ListMovements(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var query pagination.Pagination
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.ListMovements(c.Request.Context(), inventorydomain.ListMovementsRequest{
		ProductID:  productID,
		Pagination: query,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SetReorderPoint(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var req inventorydomain.SetReorderPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ProductID = productID

	inv, err := s.inventorySvc.SetReorderPoint(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invalidation.Signal(c.Request.Context(), s.notifier, s.log, invalidation.GroupInventory)
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) ListPurchaseSuggestions(c *gin.Context) {
	limit := defaultSuggestionLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
			return
		}
		limit = parsed
	}

	suggestions, err := s.inventorySvc.PurchaseSuggestions(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": suggestions})
}
