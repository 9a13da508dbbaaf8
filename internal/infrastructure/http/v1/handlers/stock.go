package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"voltbill/internal/core/apperror"
	"voltbill/internal/core/id"
	"voltbill/internal/core/types"
	"voltbill/internal/domain/registers/stock"
	"voltbill/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock register.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock register handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetBalances handles GET /registers/stock/balances
func (h *StockHandler) GetBalances(c *gin.Context) {
	ctx := c.Request.Context()

	productIDs := make([]id.ID, 0)
	for _, pStr := range c.QueryArray("productId") {
		parsed, err := id.Parse(pStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid productId format"))
			return
		}
		productIDs = append(productIDs, parsed)
	}

	if len(productIDs) == 0 {
		h.Error(c, apperror.NewValidation("at least one productId is required"))
		return
	}

	balanceMap, err := h.service.GetBalances(ctx, productIDs)
	if err != nil {
		h.Error(c, err)
		return
	}

	// Products without a balance row report zero, not absence.
	balances := make([]dto.StockBalanceResponse, 0, len(productIDs))
	for _, pid := range productIDs {
		b, ok := balanceMap[pid]
		if !ok {
			b.ProductID = pid
		}
		balances = append(balances, dto.FromStockBalance(b))
	}

	c.JSON(http.StatusOK, dto.StockBalanceListResponse{Items: balances})
}

// GetBalance handles GET /registers/stock/balances/:productId
func (h *StockHandler) GetBalance(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("productId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	// asOf switches from the live balance to a recomputed historical one
	if asOf := c.Query("asOf"); asOf != "" {
		date, err := time.Parse(time.RFC3339, asOf)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid asOf format, expected RFC3339"))
			return
		}

		quantity, err := h.service.GetBalanceAtDate(ctx, productID, date)
		if err != nil {
			h.Error(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"productId": productID.String(),
			"quantity":  quantity.Float64(),
			"asOf":      date,
		})
		return
	}

	balance, err := h.service.GetBalance(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockBalance(balance))
}

// GetLowStock handles GET /registers/stock/low
func (h *StockHandler) GetLowStock(c *gin.Context) {
	ctx := c.Request.Context()

	threshold := types.NewQuantityFromFloat64(5)
	if t := c.Query("threshold"); t != "" {
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil || parsed < 0 {
			h.Error(c, apperror.NewValidation("invalid threshold"))
			return
		}
		threshold = types.NewQuantityFromFloat64(parsed)
	}

	limit := h.ParseIntQuery(c, "limit", 20)

	balances, err := h.service.ListLowStock(ctx, threshold, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockBalanceResponse, len(balances))
	for i, b := range balances {
		items[i] = dto.FromStockBalance(b)
	}

	c.JSON(http.StatusOK, dto.StockBalanceListResponse{Items: items})
}

// GetMovements handles GET /registers/stock/movements
func (h *StockHandler) GetMovements(c *gin.Context) {
	ctx := c.Request.Context()

	productIDStr := c.Query("productId")
	if productIDStr == "" {
		h.Error(c, apperror.NewValidation("productId is required"))
		return
	}

	productID, err := id.Parse(productIDStr)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid productId format"))
		return
	}

	filter := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if fromStr := c.Query("fromDate"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filter.FromDate = &parsed
		}
	}

	if toStr := c.Query("toDate"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			filter.ToDate = &parsed
		}
	}

	movements, err := h.service.GetMovementHistory(ctx, productID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		response[i] = dto.FromStockMovement(m)
	}

	c.JSON(http.StatusOK, dto.StockMovementListResponse{
		Items:      response,
		TotalCount: len(response),
	})
}

// GetTurnover handles GET /registers/stock/turnover
func (h *StockHandler) GetTurnover(c *gin.Context) {
	ctx := c.Request.Context()

	fromStr := c.Query("fromDate")
	toStr := c.Query("toDate")

	if fromStr == "" || toStr == "" {
		h.Error(c, apperror.NewValidation("fromDate and toDate are required"))
		return
	}

	fromDate, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid fromDate format, expected RFC3339"))
		return
	}

	toDate, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid toDate format, expected RFC3339"))
		return
	}

	filter := stock.TurnoverFilter{
		FromDate: fromDate,
		ToDate:   toDate,
	}

	if pStr := c.Query("productId"); pStr != "" {
		parsed, err := id.Parse(pStr)
		if err == nil {
			filter.ProductID = &parsed
		}
	}

	turnover, err := h.service.GetTurnover(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockTurnover(turnover))
}
